package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
)

const defaultTickInterval = time.Second

// SessionData is what the supervisor needs from the data-sync coordinator.
type SessionData interface {
	UpdateToken(token *domain.AuthToken)
	Refresh(ctx context.Context) bool
	Expired() <-chan struct{}
}

type SpawnRoutine interface {
	Routine(ctx context.Context, mode domain.BotMode)
	Investigate(ctx context.Context, mode domain.BotMode, chatHint string) bool
}

type ChannelSettings interface {
	ports.SettingsProvider
	ChannelChanges() <-chan string
}

type SupervisorConfig struct {
	Mode         domain.BotMode
	TickInterval time.Duration
}

type message struct {
	input Input
	creds domain.ChatCredentials
	token *domain.AuthToken
}

// Supervisor owns the session state. Only the Run goroutine reads or writes
// creds and token; effects that block run on their own goroutines and
// report back through the inbox.
type Supervisor struct {
	identity  ports.IdentityProvider
	chat      ports.ChatTransport
	data      SessionData
	spawns    SpawnRoutine
	settings  ChannelSettings
	presenter ports.Presenter
	clock     ports.Clock
	logger    zerolog.Logger
	tick      time.Duration

	inbox chan message
	state atomic.Pointer[domain.SessionState]
	tasks sync.WaitGroup

	creds domain.ChatCredentials
	token *domain.AuthToken
}

func NewSupervisor(
	identity ports.IdentityProvider,
	chat ports.ChatTransport,
	data SessionData,
	spawns SpawnRoutine,
	settings ChannelSettings,
	presenter ports.Presenter,
	clock ports.Clock,
	logger zerolog.Logger,
	cfg SupervisorConfig,
) *Supervisor {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if presenter == nil {
		presenter = ports.Presenters(nil)
	}

	s := &Supervisor{
		identity:  identity,
		chat:      chat,
		data:      data,
		spawns:    spawns,
		settings:  settings,
		presenter: presenter,
		clock:     clock,
		logger:    logger.With().Str("component", "supervisor").Logger(),
		tick:      cfg.TickInterval,
		inbox:     make(chan message, 16),
	}
	initial := domain.NewSessionState(cfg.Mode)
	s.state.Store(&initial)
	return s
}

func (s *Supervisor) State() domain.SessionState {
	return *s.state.Load()
}

func (s *Supervisor) SetMode(ctx context.Context, mode domain.BotMode) error {
	return s.post(ctx, message{input: Input{Kind: InputModeChanged, Mode: mode}})
}

func (s *Supervisor) Login(ctx context.Context) error {
	return s.post(ctx, message{input: Input{Kind: InputLoginRequested}})
}

func (s *Supervisor) Logout(ctx context.Context) error {
	return s.post(ctx, message{input: Input{Kind: InputLogout}})
}

// Run drives the session until ctx is done. It waits for every effect
// goroutine before returning.
func (s *Supervisor) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	defer s.tasks.Wait()

	initial := s.State()
	s.presenter.ModeChanged(initial.Mode)
	s.presenter.StatusChanged(initial.Status)

	for {
		select {
		case <-ctx.Done():
			if s.chat.Connected() {
				if err := s.chat.Disconnect(); err != nil {
					s.logger.Warn().Err(err).Msg("disconnect chat on shutdown")
				}
			}
			return nil
		case <-ticker.C:
			s.handle(ctx, message{input: Input{Kind: InputTick}})
		case msg := <-s.inbox:
			s.handle(ctx, msg)
		case event := <-s.chat.Events():
			s.handleChat(ctx, event)
		case <-s.data.Expired():
			s.logger.Info().Msg("game token rejected")
			s.handle(ctx, message{input: Input{Kind: InputTokenRejected}})
		case channel := <-s.settings.ChannelChanges():
			s.logger.Info().Str("channel", channel).Msg("channel changed")
			s.handle(ctx, message{input: Input{Kind: InputChannelChanged}})
		}
	}
}

func (s *Supervisor) post(ctx context.Context, msg message) error {
	select {
	case s.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) handle(ctx context.Context, msg message) {
	switch msg.input.Kind {
	case InputCredentialsResolved:
		s.creds = msg.creds
	case InputTokenUpdated:
		s.token = msg.token
		s.data.UpdateToken(msg.token)
	}

	now := s.clock.Now()
	in := msg.input
	in.At = now
	in.HasCredentials = !s.creds.Empty()
	in.TokenFresh = !s.token.ExpiresWithin(now, domain.TokenRefreshWindow)
	in.ChatConnected = s.chat.Connected()

	prev := s.State()
	next, effects := Step(prev, in)
	s.state.Store(&next)
	if prev.Status != next.Status {
		s.logger.Debug().Str("input", string(in.Kind)).Str("from", string(prev.Status)).Str("to", string(next.Status)).Msg("transition")
	}
	s.dispatch(ctx, next, effects)
}

func (s *Supervisor) dispatch(ctx context.Context, state domain.SessionState, effects []Effect) {
	var ordered []func(context.Context)
	for _, effect := range effects {
		switch effect.Kind {
		case EffectNotifyStatus:
			s.logger.Info().Str("status", string(effect.Status)).Msg("status changed")
			s.presenter.StatusChanged(effect.Status)
		case EffectNotifyMode:
			s.logger.Info().Str("mode", string(effect.Mode)).Msg("mode changed")
			s.presenter.ModeChanged(effect.Mode)
		case EffectForgetCredentials:
			s.creds = domain.ChatCredentials{}
			ordered = append(ordered, s.forgetCredentials)
		case EffectForgetToken:
			s.token = nil
			s.data.UpdateToken(nil)
			ordered = append(ordered, s.forgetToken)
		case EffectClearSession:
			ordered = append(ordered, s.clearSession)
		case EffectAcquireCredentials:
			ordered = append(ordered, s.acquireCredentials)
		case EffectAcquireToken:
			ordered = append(ordered, s.acquireToken)
		case EffectDisconnectChat:
			ordered = append(ordered, s.disconnectChat)
		case EffectConnectChat:
			creds, channel := s.creds, s.settings.Current().Channel
			ordered = append(ordered, func(ctx context.Context) { s.connectChat(ctx, creds, channel) })
		case EffectRefreshData:
			s.goTask(ctx, func(ctx context.Context) { s.data.Refresh(ctx) })
		case EffectRunSpawnRoutine:
			mode := state.Mode
			s.goTask(ctx, func(ctx context.Context) { s.spawns.Routine(ctx, mode) })
		}
	}

	if len(ordered) > 0 {
		s.goTask(ctx, func(ctx context.Context) {
			for _, run := range ordered {
				if ctx.Err() != nil {
					return
				}
				run(ctx)
			}
		})
	}
}

func (s *Supervisor) goTask(ctx context.Context, task func(context.Context)) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		task(ctx)
	}()
}

func (s *Supervisor) handleChat(ctx context.Context, event ports.ChatEvent) {
	switch event.Kind {
	case ports.ChatConnected:
		s.handle(ctx, message{input: Input{Kind: InputChatConnected}})
	case ports.ChatDisconnected:
		s.logger.Warn().Err(event.Err).Msg("chat disconnected")
		s.handle(ctx, message{input: Input{Kind: InputChatDisconnected}})
	case ports.ChatConnectError:
		s.logger.Warn().Err(event.Err).Msg("chat connect failed")
		s.handle(ctx, message{input: Input{Kind: InputChatConnectError}})
	case ports.ChatCandidateMessage:
		state := s.State()
		if state.Mode != domain.ModeActive || state.Status != domain.StatusConnected {
			return
		}
		s.goTask(ctx, func(ctx context.Context) { s.spawns.Investigate(ctx, state.Mode, event.Text) })
	}
}

func (s *Supervisor) acquireCredentials(ctx context.Context) {
	creds, err := s.identity.AcquireCredentials(ctx)
	if err != nil {
		s.postIdentityFailure(ctx, "acquire credentials", err)
		return
	}
	_ = s.post(ctx, message{input: Input{Kind: InputCredentialsResolved}, creds: creds})
}

func (s *Supervisor) acquireToken(ctx context.Context) {
	token, err := s.identity.AcquireToken(ctx)
	if err != nil {
		s.postIdentityFailure(ctx, "acquire token", err)
		return
	}
	_ = s.post(ctx, message{input: Input{Kind: InputTokenUpdated}, token: token})
}

func (s *Supervisor) postIdentityFailure(ctx context.Context, action string, err error) {
	if ctx.Err() != nil {
		return
	}
	kind := InputIdentityTimeout
	if errors.Is(err, domain.ErrIdentityFatal) {
		kind = InputIdentityFatal
	}
	s.logger.Warn().Err(err).Str("action", action).Msg("identity failure")
	_ = s.post(ctx, message{input: Input{Kind: kind}})
}

func (s *Supervisor) connectChat(ctx context.Context, creds domain.ChatCredentials, channel string) {
	if err := s.chat.Connect(ctx, creds, channel); err != nil {
		s.logger.Warn().Err(err).Str("channel", channel).Msg("connect chat")
		_ = s.post(ctx, message{input: Input{Kind: InputChatConnectError}})
	}
}

func (s *Supervisor) disconnectChat(context.Context) {
	if err := s.chat.Disconnect(); err != nil {
		s.logger.Warn().Err(err).Msg("disconnect chat")
	}
}

func (s *Supervisor) forgetCredentials(ctx context.Context) {
	if err := s.identity.ForgetCredentials(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("forget credentials")
	}
}

func (s *Supervisor) forgetToken(ctx context.Context) {
	if err := s.identity.ForgetToken(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("forget token")
	}
}

func (s *Supervisor) clearSession(ctx context.Context) {
	if err := s.identity.ClearSession(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("clear session")
	}
}
