package ports

import (
	"context"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

type ChatEventKind string

const (
	ChatConnected        ChatEventKind = "connected"
	ChatDisconnected     ChatEventKind = "disconnected"
	ChatConnectError     ChatEventKind = "connect_error"
	ChatCandidateMessage ChatEventKind = "candidate_message"
)

type ChatEvent struct {
	Kind ChatEventKind
	Text string
	Err  error
}

type ChatSender interface {
	Send(ctx context.Context, text string) error
}

type ChatTransport interface {
	ChatSender
	Connect(ctx context.Context, creds domain.ChatCredentials, channel string) error
	Disconnect() error
	Connected() bool
	Events() <-chan ChatEvent
}
