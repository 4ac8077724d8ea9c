package irc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	DefaultURL = "wss://irc-ws.chat.twitch.tv:443"

	defaultJoinTimeout = 30 * time.Second
	writeTimeout       = 10 * time.Second
	eventBuffer        = 32

	endOfNames   = "End of /NAMES list"
	authFailed   = "Login authentication failed"
	pongResponse = "PONG :tmi.twitch.tv"
)

var (
	errAuthFailed  = errors.New("chat login authentication failed")
	errJoinTimeout = errors.New("chat join timed out")
)

type Config struct {
	URL         string
	JoinTimeout time.Duration
	Dialer      *websocket.Dialer
}

// Transport is the chat connection: IRC lines over a websocket. Connect
// returns once the login lines are written; the join outcome arrives on
// Events. Only unexpected drops produce a Disconnected event.
type Transport struct {
	cfg    Config
	logger zerolog.Logger
	events chan ports.ChatEvent

	mu      sync.Mutex
	current *session
}

type session struct {
	conn      *websocket.Conn
	channel   string
	joined    atomic.Bool
	closing   atomic.Bool
	writeMu   sync.Mutex
	readerEnd chan struct{}
}

var _ ports.ChatTransport = (*Transport)(nil)

func NewTransport(cfg Config, logger zerolog.Logger) *Transport {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = defaultJoinTimeout
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	return &Transport{
		cfg:    cfg,
		logger: logger.With().Str("component", "chat").Logger(),
		events: make(chan ports.ChatEvent, eventBuffer),
	}
}

func (t *Transport) Events() <-chan ports.ChatEvent {
	return t.events
}

func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current != nil && t.current.joined.Load() && !t.current.closing.Load()
}

func (t *Transport) Connect(ctx context.Context, creds domain.ChatCredentials, channel string) error {
	if creds.Empty() {
		return errors.New("connect chat: credentials are empty")
	}
	channel = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(channel), "#"))
	if channel == "" {
		return errors.New("connect chat: channel is empty")
	}

	if err := t.Disconnect(); err != nil {
		t.logger.Debug().Err(err).Msg("close previous chat connection")
	}

	conn, _, err := t.cfg.Dialer.DialContext(ctx, t.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial chat: %w", err)
	}

	s := &session{conn: conn, channel: channel, readerEnd: make(chan struct{})}
	for _, command := range []string{
		"PASS " + creds.Token,
		"NICK " + creds.Username,
		"JOIN #" + channel,
	} {
		if err := s.write(command); err != nil {
			_ = conn.Close()
			return fmt.Errorf("send chat login: %w", err)
		}
	}

	t.mu.Lock()
	t.current = s
	t.mu.Unlock()

	t.logger.Info().Str("channel", channel).Str("username", creds.Username).Msg("joining chat")
	go t.read(s)
	return nil
}

// Disconnect closes the connection without emitting Disconnected.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	s := t.current
	t.current = nil
	t.mu.Unlock()

	if s == nil {
		return nil
	}
	s.closing.Store(true)
	_ = s.writeControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := s.conn.Close()
	<-s.readerEnd
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("close chat: %w", err)
	}
	return nil
}

func (t *Transport) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	s := t.current
	t.mu.Unlock()
	if s == nil || !s.joined.Load() || s.closing.Load() {
		return domain.ErrChatNotConnected
	}

	if err := s.write("PRIVMSG #" + s.channel + " :" + text); err != nil {
		return fmt.Errorf("send chat message: %w", err)
	}
	t.logger.Debug().Str("text", text).Msg("chat message sent")
	return nil
}

func (t *Transport) read(s *session) {
	defer close(s.readerEnd)

	_ = s.conn.SetReadDeadline(time.Now().Add(t.cfg.JoinTimeout))
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			t.readFailed(s, err)
			return
		}
		for _, raw := range splitLines(string(payload)) {
			if stop := t.handleLine(s, raw); stop {
				return
			}
		}
	}
}

func (t *Transport) readFailed(s *session, err error) {
	_ = s.conn.Close()
	t.forget(s)
	if s.closing.Load() {
		return
	}
	if !s.joined.Load() {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			err = errJoinTimeout
		}
		t.emit(ports.ChatEvent{Kind: ports.ChatConnectError, Err: err})
		return
	}
	t.emit(ports.ChatEvent{Kind: ports.ChatDisconnected, Err: err})
}

// handleLine reports whether the read loop must stop.
func (t *Transport) handleLine(s *session, raw string) bool {
	msg := parseLine(raw)

	switch {
	case msg.command == "PING":
		if err := s.write(pongResponse); err != nil {
			t.logger.Warn().Err(err).Msg("answer ping")
		}
	case !s.joined.Load() && strings.Contains(raw, authFailed):
		s.closing.Store(true)
		_ = s.conn.Close()
		t.forget(s)
		t.emit(ports.ChatEvent{Kind: ports.ChatConnectError, Err: errAuthFailed})
		return true
	case !s.joined.Load() && strings.Contains(raw, endOfNames):
		s.joined.Store(true)
		_ = s.conn.SetReadDeadline(time.Time{})
		t.logger.Info().Str("channel", s.channel).Msg("chat joined")
		t.emit(ports.ChatEvent{Kind: ports.ChatConnected})
	case msg.command == "PRIVMSG" && s.joined.Load():
		if domain.IsCatchPrompt(msg.nick, msg.trailing) {
			t.emit(ports.ChatEvent{Kind: ports.ChatCandidateMessage, Text: msg.trailing})
		}
	}
	return false
}

func (t *Transport) forget(s *session) {
	t.mu.Lock()
	if t.current == s {
		t.current = nil
	}
	t.mu.Unlock()
}

func (t *Transport) emit(event ports.ChatEvent) {
	select {
	case t.events <- event:
	default:
		t.logger.Warn().Str("kind", string(event.Kind)).Msg("chat event dropped")
	}
}

func (s *session) write(text string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (s *session) writeControl(messageType int, data []byte) error {
	return s.conn.WriteControl(messageType, data, time.Now().Add(time.Second))
}
