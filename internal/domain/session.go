package domain

import (
	"fmt"
	"strings"
	"time"
)

type ConnectionStatus string

const (
	StatusStarting          ConnectionStatus = "starting"
	StatusLoading           ConnectionStatus = "loading"
	StatusConnected         ConnectionStatus = "connected"
	StatusConnectingSession ConnectionStatus = "connecting_session"
	StatusRefreshingToken   ConnectionStatus = "refreshing_token"
	StatusTimeout           ConnectionStatus = "timeout"
	StatusSessionError      ConnectionStatus = "session_error"
	StatusError             ConnectionStatus = "error"
	StatusDisconnected      ConnectionStatus = "disconnected"
)

type BotMode string

const (
	ModeActive  BotMode = "active"
	ModeStopped BotMode = "stopped"
)

func ParseBotMode(raw string) (BotMode, error) {
	switch mode := BotMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case ModeActive, ModeStopped:
		return mode, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownBotMode, raw)
	}
}

// SessionState is owned by the supervisor and only changed through the
// session transition function.
type SessionState struct {
	Status             ConnectionStatus
	Mode               BotMode
	LastTimeoutAt      time.Time
	LastSessionErrorAt time.Time
}

func NewSessionState(mode BotMode) SessionState {
	if mode == "" {
		mode = ModeActive
	}
	return SessionState{Status: StatusStarting, Mode: mode}
}

// Idle reports whether a tick has nothing to do in this state.
func (s SessionState) Idle() bool {
	return s.Mode == ModeStopped || s.Status == StatusDisconnected || s.Status == StatusError
}
