package ports

import "context"

// SecretStore holds chat credentials and the game token under slash
// separated keys such as "pcg/chat/oauth". A missing key wraps
// domain.ErrSecretNotFound; read-only backends wrap domain.ErrSecretReadOnly.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
