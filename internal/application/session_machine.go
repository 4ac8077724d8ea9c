package application

import (
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

const (
	timeoutRetryDelay      = 15 * time.Second
	sessionErrorRetryDelay = 15 * time.Second
)

type InputKind string

const (
	InputTick                InputKind = "tick"
	InputCredentialsResolved InputKind = "credentials_resolved"
	InputTokenUpdated        InputKind = "token_updated"
	InputTokenRejected       InputKind = "token_rejected"
	InputIdentityTimeout     InputKind = "identity_timeout"
	InputIdentityFatal       InputKind = "identity_fatal"
	InputChatConnected       InputKind = "chat_connected"
	InputChatDisconnected    InputKind = "chat_disconnected"
	InputChatConnectError    InputKind = "chat_connect_error"
	InputModeChanged         InputKind = "mode_changed"
	InputLoginRequested      InputKind = "login_requested"
	InputLogout              InputKind = "logout"
	InputChannelChanged      InputKind = "channel_changed"
)

// Input is one event fed to Step. The observation fields describe what the
// supervisor holds at the moment the input is handled.
type Input struct {
	Kind InputKind
	At   time.Time
	Mode domain.BotMode

	HasCredentials bool
	TokenFresh     bool
	ChatConnected  bool
}

type EffectKind string

const (
	EffectNotifyStatus       EffectKind = "notify_status"
	EffectNotifyMode         EffectKind = "notify_mode"
	EffectAcquireCredentials EffectKind = "acquire_credentials"
	EffectAcquireToken       EffectKind = "acquire_token"
	EffectRefreshData        EffectKind = "refresh_data"
	EffectConnectChat        EffectKind = "connect_chat"
	EffectDisconnectChat     EffectKind = "disconnect_chat"
	EffectRunSpawnRoutine    EffectKind = "run_spawn_routine"
	EffectForgetCredentials  EffectKind = "forget_credentials"
	EffectForgetToken        EffectKind = "forget_token"
	EffectClearSession       EffectKind = "clear_session"
)

type Effect struct {
	Kind   EffectKind
	Status domain.ConnectionStatus
	Mode   domain.BotMode
}

// Step is the session transition function. It never blocks and never
// performs I/O; the returned effects are dispatched by the caller in order.
func Step(state domain.SessionState, in Input) (domain.SessionState, []Effect) {
	next := state
	var effects []Effect

	switch in.Kind {
	case InputTick:
		next, effects = stepTick(state, in)
	case InputCredentialsResolved:
		if state.Status != domain.StatusLoading {
			break
		}
		if !in.HasCredentials {
			next.Status = domain.StatusDisconnected
			effects = append(effects, Effect{Kind: EffectClearSession})
			break
		}
		next.Status = domain.StatusRefreshingToken
		effects = append(effects, Effect{Kind: EffectAcquireToken})
	case InputTokenUpdated:
		effects = append(effects, Effect{Kind: EffectRefreshData})
		switch state.Status {
		case domain.StatusRefreshingToken, domain.StatusLoading, domain.StatusDisconnected:
			if state.Mode == domain.ModeStopped || !in.HasCredentials {
				break
			}
			if in.ChatConnected {
				next.Status = domain.StatusConnected
			} else {
				next.Status = domain.StatusConnectingSession
				effects = append(effects, Effect{Kind: EffectConnectChat})
			}
		}
	case InputTokenRejected:
		if state.Idle() {
			break
		}
		switch state.Status {
		case domain.StatusRefreshingToken:
		case domain.StatusStarting, domain.StatusLoading, domain.StatusTimeout:
			// The login path acquires a token on its own; only drop the rejected one.
			effects = append(effects, Effect{Kind: EffectForgetToken})
		default:
			next.Status = domain.StatusRefreshingToken
			effects = append(effects, Effect{Kind: EffectForgetToken}, Effect{Kind: EffectAcquireToken})
		}
	case InputIdentityTimeout:
		switch state.Status {
		case domain.StatusLoading:
			effects = append(effects, Effect{Kind: EffectForgetCredentials})
		case domain.StatusRefreshingToken:
			effects = append(effects, Effect{Kind: EffectForgetToken})
		default:
			return state, nil
		}
		next.Status = domain.StatusTimeout
		next.LastTimeoutAt = in.At
	case InputIdentityFatal:
		next.Status = domain.StatusError
		next.Mode = domain.ModeStopped
		effects = append(effects,
			Effect{Kind: EffectForgetCredentials},
			Effect{Kind: EffectForgetToken},
			Effect{Kind: EffectClearSession},
		)
	case InputChatConnected:
		if state.Status == domain.StatusConnectingSession && state.Mode == domain.ModeActive {
			next.Status = domain.StatusConnected
		}
	case InputChatDisconnected, InputChatConnectError:
		if state.Mode == domain.ModeStopped {
			break
		}
		switch state.Status {
		case domain.StatusConnected, domain.StatusConnectingSession:
			next.Status = domain.StatusSessionError
			next.LastSessionErrorAt = in.At
		}
	case InputModeChanged:
		if in.Mode == state.Mode || (in.Mode != domain.ModeActive && in.Mode != domain.ModeStopped) {
			break
		}
		next.Mode = in.Mode
		if in.Mode == domain.ModeActive {
			next.Status = domain.StatusStarting
		}
	case InputLoginRequested:
		switch state.Status {
		case domain.StatusDisconnected, domain.StatusError, domain.StatusTimeout:
			next.Status = domain.StatusStarting
			next.Mode = domain.ModeActive
		}
	case InputLogout:
		if state.Status == domain.StatusDisconnected {
			break
		}
		next.Status = domain.StatusDisconnected
		effects = append(effects,
			Effect{Kind: EffectDisconnectChat},
			Effect{Kind: EffectForgetCredentials},
			Effect{Kind: EffectForgetToken},
			Effect{Kind: EffectClearSession},
		)
	case InputChannelChanged:
		if state.Status != domain.StatusConnected || state.Mode != domain.ModeActive {
			break
		}
		next.Status = domain.StatusConnectingSession
		effects = append(effects, Effect{Kind: EffectDisconnectChat}, Effect{Kind: EffectConnectChat})
	}

	return next, withNotifications(state, next, effects)
}

func stepTick(state domain.SessionState, in Input) (domain.SessionState, []Effect) {
	if state.Idle() {
		return state, nil
	}

	next := state
	switch state.Status {
	case domain.StatusStarting:
		next.Status = domain.StatusLoading
		return next, []Effect{{Kind: EffectAcquireCredentials}}
	case domain.StatusConnected:
		switch {
		case !in.HasCredentials:
			next.Status = domain.StatusStarting
			return next, nil
		case !in.TokenFresh:
			next.Status = domain.StatusRefreshingToken
			return next, []Effect{{Kind: EffectAcquireToken}}
		case !in.ChatConnected:
			next.Status = domain.StatusConnectingSession
			return next, []Effect{{Kind: EffectConnectChat}}
		default:
			return next, []Effect{{Kind: EffectRunSpawnRoutine}}
		}
	case domain.StatusTimeout:
		if in.At.Sub(state.LastTimeoutAt) >= timeoutRetryDelay {
			next.Status = domain.StatusStarting
		}
	case domain.StatusSessionError:
		if in.At.Sub(state.LastSessionErrorAt) >= sessionErrorRetryDelay {
			next.Status = domain.StatusConnectingSession
			return next, []Effect{{Kind: EffectConnectChat}}
		}
	}
	return next, nil
}

// withNotifications prepends one notification per changed field. Leaving
// active mode always drops the chat connection.
func withNotifications(prev, next domain.SessionState, effects []Effect) []Effect {
	var out []Effect
	if prev.Mode != next.Mode {
		out = append(out, Effect{Kind: EffectNotifyMode, Mode: next.Mode})
	}
	if prev.Status != next.Status {
		out = append(out, Effect{Kind: EffectNotifyStatus, Status: next.Status})
	}
	if prev.Mode != domain.ModeStopped && next.Mode == domain.ModeStopped {
		out = append(out, Effect{Kind: EffectDisconnectChat})
	}
	return append(out, effects...)
}
