package env

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
)

// DefaultVariables maps secret keys to the environment variables that may
// pre-seed them.
var DefaultVariables = map[string]string{
	"pcg/chat/username": "TWITCH_USERNAME",
	"pcg/chat/oauth":    "TWITCH_OAUTH_TOKEN",
	"pcg/game/token":    "TWITCH_POKEMON_JWT",
}

// Store is a read-only secret store backed by environment variables.
type Store struct {
	vars   map[string]string
	lookup func(string) (string, bool)
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(vars map[string]string) *Store {
	if vars == nil {
		vars = DefaultVariables
	}
	return &Store{vars: vars, lookup: os.LookupEnv}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, ok := s.vars[key]
	if !ok {
		return "", fmt.Errorf("env secret %q: %w", key, domain.ErrSecretNotFound)
	}
	value, ok := s.lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("env secret %q (%s): %w", key, name, domain.ErrSecretNotFound)
	}
	return strings.TrimSpace(value), nil
}

func (s *Store) Put(context.Context, string, string) error {
	return domain.ErrSecretReadOnly
}

func (s *Store) Delete(context.Context, string) error {
	return domain.ErrSecretReadOnly
}
