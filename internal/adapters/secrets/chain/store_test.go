package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/pcg-autocatch/internal/domain"
	portmocks "github.com/bnema/pcg-autocatch/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tokenKey = "pcg/game/token"

func TestStoreGetUsesFirstBackendThatHasTheSecret(t *testing.T) {
	t.Parallel()

	env := portmocks.NewMockSecretStore(t)
	pass := portmocks.NewMockSecretStore(t)
	file := portmocks.NewMockSecretStore(t)
	store := NewStore(env, pass, file)

	env.EXPECT().Get(mock.Anything, tokenKey).Return("", domain.ErrSecretNotFound).Once()
	pass.EXPECT().Get(mock.Anything, tokenKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), tokenKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetReportsNotFoundWhenNoBackendHasIt(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, tokenKey).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, tokenKey).Return("", domain.ErrSecretNotFound).Once()

	_, err := store.Get(context.Background(), tokenKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass failed")
}

func TestStorePutSkipsReadOnlyAndFailingBackends(t *testing.T) {
	t.Parallel()

	env := portmocks.NewMockSecretStore(t)
	pass := portmocks.NewMockSecretStore(t)
	file := portmocks.NewMockSecretStore(t)
	store := NewStore(env, pass, file)

	env.EXPECT().Put(mock.Anything, tokenKey, "secret").Return(domain.ErrSecretReadOnly).Once()
	pass.EXPECT().Put(mock.Anything, tokenKey, "secret").Return(errors.New("pass failed")).Once()
	file.EXPECT().Put(mock.Anything, tokenKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), tokenKey, "secret"))
}

func TestStorePutStopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, tokenKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), tokenKey, "secret"))
}

func TestStorePutWithOnlyReadOnlyBackends(t *testing.T) {
	t.Parallel()

	env := portmocks.NewMockSecretStore(t)
	store := NewStore(env)

	env.EXPECT().Put(mock.Anything, tokenKey, "secret").Return(domain.ErrSecretReadOnly).Once()

	require.ErrorIs(t, store.Put(context.Background(), tokenKey, "secret"), domain.ErrSecretReadOnly)
}

func TestStoreDeleteReachesEveryBackend(t *testing.T) {
	t.Parallel()

	env := portmocks.NewMockSecretStore(t)
	pass := portmocks.NewMockSecretStore(t)
	file := portmocks.NewMockSecretStore(t)
	store := NewStore(env, pass, file)

	env.EXPECT().Delete(mock.Anything, tokenKey).Return(domain.ErrSecretReadOnly).Once()
	pass.EXPECT().Delete(mock.Anything, tokenKey).Return(nil).Once()
	file.EXPECT().Delete(mock.Anything, tokenKey).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), tokenKey))
}

func TestStoreDeleteJoinsFailures(t *testing.T) {
	t.Parallel()

	pass := portmocks.NewMockSecretStore(t)
	file := portmocks.NewMockSecretStore(t)
	store := NewStore(pass, file)

	pass.EXPECT().Delete(mock.Anything, tokenKey).Return(errors.New("gpg locked")).Once()
	file.EXPECT().Delete(mock.Anything, tokenKey).Return(nil).Once()

	err := store.Delete(context.Background(), tokenKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "gpg locked")
}

func TestStoreGetStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, tokenKey).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), tokenKey)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewStoreCheckedRejectsNilBackend(t *testing.T) {
	t.Parallel()

	_, err := NewStoreChecked(portmocks.NewMockSecretStore(t), nil)
	require.ErrorIs(t, err, errNilBackend)

	_, err = NewStoreChecked()
	require.ErrorIs(t, err, errNoBackends)
}
