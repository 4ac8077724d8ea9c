package chain

import (
	"context"
	"errors"
	"fmt"

	envstore "github.com/bnema/pcg-autocatch/internal/adapters/secrets/env"
	filestore "github.com/bnema/pcg-autocatch/internal/adapters/secrets/file"
	passstore "github.com/bnema/pcg-autocatch/internal/adapters/secrets/pass"
	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
)

// Store consults its backends in order. Reads return the first hit, writes
// go to the first writable backend that accepts them, and deletes reach
// every writable backend so no stale copy survives a logout.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNoBackends = errors.New("secret chain has no backends")
	errNilBackend = errors.New("secret chain backend is nil")
)

func NewStore(backends ...ports.SecretStore) *Store {
	store, err := NewStoreChecked(backends...)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("%w at position %d", errNilBackend, i)
		}
	}

	return &Store{backends: backends}, nil
}

// NewDefault reads the environment first, then pass, then plain files below
// fileRoot.
func NewDefault(fileRoot string, pass passstore.Config) (*Store, error) {
	return NewStoreChecked(envstore.NewStore(nil), passstore.NewStore(pass), filestore.NewStore(fileRoot))
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldStop(err) {
			return "", err
		}
		errs = append(errs, err)
	}

	return "", fmt.Errorf("get secret %q: %w", key, errors.Join(errs...))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for _, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if shouldStop(err) {
			return err
		}
		if errors.Is(err, domain.ErrSecretReadOnly) {
			continue
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return fmt.Errorf("put secret %q: %w", key, domain.ErrSecretReadOnly)
	}
	return fmt.Errorf("put secret %q: %w", key, errors.Join(errs...))
}

func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	for _, backend := range s.backends {
		err := backend.Delete(ctx, key)
		if err == nil || errors.Is(err, domain.ErrSecretReadOnly) || errors.Is(err, domain.ErrSecretNotFound) {
			continue
		}
		if shouldStop(err) {
			return err
		}
		if errors.Is(err, passstore.ErrUnavailable) {
			continue
		}
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("delete secret %q: %w", key, errors.Join(errs...))
	}
	return nil
}

func shouldStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
