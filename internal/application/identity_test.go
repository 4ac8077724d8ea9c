package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/bnema/pcg-autocatch/internal/ports/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	loggedInAfter int
	checks        int
	logins        int
	reloads       int
	cookies       []ports.Cookie
	headers       map[string][]string
	captures      []string
	err           error
}

var _ ports.BrowserSession = (*fakeBrowser)(nil)

func (b *fakeBrowser) Login(context.Context) error {
	b.logins++
	return b.err
}

func (b *fakeBrowser) IsLoggedIn(context.Context) (bool, error) {
	b.checks++
	return b.checks > b.loggedInAfter, nil
}

func (b *fakeBrowser) Cookies(context.Context) ([]ports.Cookie, error) {
	return b.cookies, nil
}

func (b *fakeBrowser) FetchSigned(context.Context, string, map[string]string) (ports.FetchResult, error) {
	return ports.FetchResult{}, errors.New("not used")
}

func (b *fakeBrowser) CaptureHeaderOnce(_ context.Context, _ string, header string, _ time.Duration) (string, error) {
	b.captures = append(b.captures, header)
	queue := b.headers[header]
	if len(queue) == 0 {
		return "", nil
	}
	b.headers[header] = queue[1:]
	return queue[0], nil
}

func (b *fakeBrowser) Reload(context.Context) error {
	b.reloads++
	return b.err
}

func (b *fakeBrowser) ClearSession(context.Context) error {
	return b.err
}

func (b *fakeBrowser) OnResponse(string, ports.ResponseHandler) {}

type fakeTokenParser struct {
	expiresAt time.Time
}

func (p fakeTokenParser) ParseGameToken(raw string) (*domain.AuthToken, error) {
	if raw == "garbage" {
		return nil, domain.ErrInvalidGameToken
	}
	return &domain.AuthToken{Value: raw, SubjectID: "12345", ExpiresAt: p.expiresAt}, nil
}

func newTestIdentity(browser *fakeBrowser, store *mocks.MockSecretStore, expiresAt time.Time) (*IdentityService, *recordingSleeper) {
	clock := newManualClock(testNow)
	sleeper := &recordingSleeper{clock: clock}
	return NewIdentityService(browser, store, fakeTokenParser{expiresAt: expiresAt}, clock, sleeper, zerolog.Nop()), sleeper
}

func TestAcquireCredentialsFromStore(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), SecretChatUsername).Return("Trainer", nil)
	store.EXPECT().Get(mockAnyContext(), SecretChatOAuth).Return("oauth:abc", nil)
	browser := &fakeBrowser{}

	identity, _ := newTestIdentity(browser, store, testNow)
	creds, err := identity.AcquireCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ChatCredentials{Username: "trainer", Token: "oauth:abc"}, creds)
	assert.Zero(t, browser.checks)
}

func TestAcquireCredentialsFromBrowserLogin(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), SecretChatUsername).Return("", domain.ErrSecretNotFound)
	store.EXPECT().Get(mockAnyContext(), SecretChatOAuth).Return("", domain.ErrSecretNotFound)
	store.EXPECT().Put(mockAnyContext(), SecretChatUsername, "trainer").Return(nil)
	store.EXPECT().Put(mockAnyContext(), SecretChatOAuth, "oauth:cookie-token").Return(nil)
	browser := &fakeBrowser{
		loggedInAfter: 3,
		cookies: []ports.Cookie{
			{Name: "name", Value: "ignored"},
			{Name: "login", Value: "Trainer"},
			{Name: "auth-token", Value: "cookie-token"},
		},
	}

	identity, sleeper := newTestIdentity(browser, store, testNow)
	creds, err := identity.AcquireCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ChatCredentials{Username: "trainer", Token: "oauth:cookie-token"}, creds)
	assert.Equal(t, 1, browser.logins)
	assert.Len(t, sleeper.Sleeps(), 3)
}

func TestAcquireCredentialsLoginTimeout(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), mockAnyContext()).Return("", domain.ErrSecretNotFound)
	browser := &fakeBrowser{loggedInAfter: 1_000}

	identity, sleeper := newTestIdentity(browser, store, testNow)
	_, err := identity.AcquireCredentials(context.Background())
	require.ErrorIs(t, err, domain.ErrIdentityTimeout)
	assert.Len(t, sleeper.Sleeps(), 120)
}

func TestAcquireCredentialsBrowserFailureIsFatal(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), mockAnyContext()).Return("", domain.ErrSecretNotFound)
	browser := &fakeBrowser{loggedInAfter: 1, err: errors.New("browser crashed")}

	identity, _ := newTestIdentity(browser, store, testNow)
	_, err := identity.AcquireCredentials(context.Background())
	require.ErrorIs(t, err, domain.ErrIdentityFatal)
}

func TestAcquireCredentialsWithoutCookiesIsEmpty(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), mockAnyContext()).Return("", domain.ErrSecretNotFound)

	identity, _ := newTestIdentity(&fakeBrowser{}, store, testNow)
	creds, err := identity.AcquireCredentials(context.Background())
	require.NoError(t, err)
	assert.True(t, creds.Empty())
}

func TestAcquireTokenUsesFreshStoredToken(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), SecretGameToken).Return("stored.jwt", nil)
	browser := &fakeBrowser{}

	identity, _ := newTestIdentity(browser, store, testNow.Add(time.Hour))
	token, err := identity.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored.jwt", token.Value)
	assert.Zero(t, browser.reloads)
}

func TestAcquireTokenCapturesWhenStoredTokenExpires(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), SecretGameToken).Return("stored.jwt", nil)
	store.EXPECT().Put(mockAnyContext(), SecretGameToken, "captured.jwt").Return(nil)
	browser := &fakeBrowser{headers: map[string][]string{"Authorization": {"captured.jwt"}}}

	identity, _ := newTestIdentity(browser, store, testNow.Add(5*time.Minute))
	token, err := identity.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "captured.jwt", token.Value)
	assert.Equal(t, 1, browser.reloads)
	assert.Equal(t, []string{"authorization", "Authorization"}, browser.captures)
}

func TestAcquireTokenRetriesWithSecondReload(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), SecretGameToken).Return("", domain.ErrSecretNotFound)
	store.EXPECT().Put(mockAnyContext(), SecretGameToken, "second.jwt").Return(nil)
	browser := &fakeBrowser{headers: map[string][]string{"authorization": {"", "second.jwt"}}}

	identity, _ := newTestIdentity(browser, store, testNow.Add(time.Hour))
	token, err := identity.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second.jwt", token.Value)
	assert.Equal(t, 2, browser.reloads)
}

func TestAcquireTokenTimesOut(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), SecretGameToken).Return("", domain.ErrSecretNotFound)
	browser := &fakeBrowser{headers: map[string][]string{"authorization": {"garbage"}}}

	identity, _ := newTestIdentity(browser, store, testNow.Add(time.Hour))
	_, err := identity.AcquireToken(context.Background())
	require.ErrorIs(t, err, domain.ErrIdentityTimeout)
	assert.Equal(t, 2, browser.reloads)
}

func TestForgetIgnoresMissingSecrets(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Delete(mockAnyContext(), SecretChatUsername).Return(domain.ErrSecretNotFound)
	store.EXPECT().Delete(mockAnyContext(), SecretChatOAuth).Return(nil)
	store.EXPECT().Get(mockAnyContext(), SecretGameToken).Return("", domain.ErrSecretNotFound)
	store.EXPECT().Delete(mockAnyContext(), SecretGameToken).Return(errors.New("permission denied"))

	identity, _ := newTestIdentity(&fakeBrowser{}, store, testNow)
	assert.NoError(t, identity.ForgetCredentials(context.Background()))
	assert.Error(t, identity.ForgetToken(context.Background()))
}

func TestAcquireTokenSkipsForgottenReadOnlyToken(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	store.EXPECT().Get(mockAnyContext(), SecretGameToken).Return("env.jwt", nil)
	store.EXPECT().Delete(mockAnyContext(), SecretGameToken).Return(nil)
	store.EXPECT().Put(mockAnyContext(), SecretGameToken, "captured.jwt").Return(nil)
	browser := &fakeBrowser{headers: map[string][]string{"authorization": {"captured.jwt"}}}

	identity, _ := newTestIdentity(browser, store, testNow.Add(time.Hour))
	token, err := identity.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env.jwt", token.Value)
	assert.Zero(t, browser.reloads)

	require.NoError(t, identity.ForgetToken(context.Background()))

	token, err = identity.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "captured.jwt", token.Value)
	assert.Equal(t, 1, browser.reloads)
}
