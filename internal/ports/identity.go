package ports

import (
	"context"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

// IdentityProvider resolves both trust domains. Failures wrap
// domain.ErrIdentityTimeout or domain.ErrIdentityFatal.
type IdentityProvider interface {
	AcquireCredentials(ctx context.Context) (domain.ChatCredentials, error)
	AcquireToken(ctx context.Context) (*domain.AuthToken, error)
	ForgetCredentials(ctx context.Context) error
	ForgetToken(ctx context.Context) error
	ClearSession(ctx context.Context) error
}

type TokenParser interface {
	ParseGameToken(raw string) (*domain.AuthToken, error)
}
