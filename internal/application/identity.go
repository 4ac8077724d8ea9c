package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
)

const (
	SecretChatUsername = "pcg/chat/username"
	SecretChatOAuth    = "pcg/chat/oauth"
	SecretGameToken    = "pcg/game/token"

	GameAPIHost        = "poketwitch.bframework.de"
	loginPolls         = 120
	loginPollInterval  = time.Second
	headerCaptureFirst = 45 * time.Second
	headerCaptureAlt   = 10 * time.Second
	tokenCaptureRounds = 2
)

// IdentityService acquires chat credentials and the game token, preferring
// stored secrets over the browser.
type IdentityService struct {
	browser ports.BrowserSession
	secrets ports.SecretStore
	tokens  ports.TokenParser
	clock   ports.Clock
	sleeper ports.Sleeper
	logger  zerolog.Logger

	// rejectedMu guards rejected, the last stored token value that was
	// forgotten. Read-only backends keep serving it after Delete.
	rejectedMu sync.Mutex
	rejected   string
}

var _ ports.IdentityProvider = (*IdentityService)(nil)

func NewIdentityService(browser ports.BrowserSession, secrets ports.SecretStore, tokens ports.TokenParser, clock ports.Clock, sleeper ports.Sleeper, logger zerolog.Logger) *IdentityService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if sleeper == nil {
		sleeper = ports.SystemSleeper{}
	}
	return &IdentityService{
		browser: browser,
		secrets: secrets,
		tokens:  tokens,
		clock:   clock,
		sleeper: sleeper,
		logger:  logger.With().Str("component", "identity").Logger(),
	}
}

// AcquireCredentials returns empty credentials when the browser session is
// logged in but exposes no chat identity.
func (s *IdentityService) AcquireCredentials(ctx context.Context) (domain.ChatCredentials, error) {
	if creds, ok := s.storedCredentials(ctx); ok {
		return creds, nil
	}

	loggedIn, err := s.browser.IsLoggedIn(ctx)
	if err != nil {
		return domain.ChatCredentials{}, fmt.Errorf("%w: check login: %w", domain.ErrIdentityFatal, err)
	}
	if !loggedIn {
		if err := s.browser.Login(ctx); err != nil {
			return domain.ChatCredentials{}, fmt.Errorf("%w: open login: %w", domain.ErrIdentityFatal, err)
		}
		if err := s.waitForLogin(ctx); err != nil {
			return domain.ChatCredentials{}, err
		}
	}

	cookies, err := s.browser.Cookies(ctx)
	if err != nil {
		return domain.ChatCredentials{}, fmt.Errorf("%w: read cookies: %w", domain.ErrIdentityFatal, err)
	}
	creds := credentialsFromCookies(cookies)
	if creds.Empty() {
		s.logger.Warn().Msg("logged in without chat identity cookies")
		return domain.ChatCredentials{}, nil
	}

	if err := errors.Join(
		s.secrets.Put(ctx, SecretChatUsername, creds.Username),
		s.secrets.Put(ctx, SecretChatOAuth, creds.Token),
	); err != nil {
		s.logger.Warn().Err(err).Msg("store chat credentials")
	}
	s.logger.Info().Str("username", creds.Username).Msg("chat credentials acquired")
	return creds, nil
}

func (s *IdentityService) storedCredentials(ctx context.Context) (domain.ChatCredentials, bool) {
	username, userErr := s.secrets.Get(ctx, SecretChatUsername)
	token, tokenErr := s.secrets.Get(ctx, SecretChatOAuth)
	if err := errors.Join(userErr, tokenErr); err != nil {
		if !errors.Is(err, domain.ErrSecretNotFound) {
			s.logger.Warn().Err(err).Msg("read stored chat credentials")
		}
		return domain.ChatCredentials{}, false
	}
	creds := domain.NewChatCredentials(username, token)
	return creds, !creds.Empty()
}

func (s *IdentityService) waitForLogin(ctx context.Context) error {
	for poll := 0; poll < loginPolls; poll++ {
		if err := s.sleeper.Sleep(ctx, loginPollInterval); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrIdentityTimeout, err)
		}
		loggedIn, err := s.browser.IsLoggedIn(ctx)
		if err != nil {
			return fmt.Errorf("%w: check login: %w", domain.ErrIdentityFatal, err)
		}
		if loggedIn {
			return nil
		}
	}
	return fmt.Errorf("%w: login not completed", domain.ErrIdentityTimeout)
}

func credentialsFromCookies(cookies []ports.Cookie) domain.ChatCredentials {
	var username, token string
	for _, cookie := range cookies {
		switch cookie.Name {
		case "login":
			username = cookie.Value
		case "name":
			if username == "" {
				username = cookie.Value
			}
		case "auth-token":
			token = cookie.Value
		}
	}
	if username == "" || token == "" {
		return domain.ChatCredentials{}
	}
	return domain.NewChatCredentials(username, token)
}

// AcquireToken returns the stored game token while it has more than the
// refresh window left, otherwise captures a new one from the page.
func (s *IdentityService) AcquireToken(ctx context.Context) (*domain.AuthToken, error) {
	if token, ok := s.storedToken(ctx); ok {
		return token, nil
	}

	for round := 0; round < tokenCaptureRounds; round++ {
		if err := s.browser.Reload(ctx); err != nil {
			return nil, fmt.Errorf("%w: reload: %w", domain.ErrIdentityFatal, err)
		}
		raw, err := s.captureToken(ctx)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			s.logger.Info().Int("round", round+1).Msg("no game token seen")
			continue
		}

		token, err := s.tokens.ParseGameToken(raw)
		if err != nil {
			s.logger.Warn().Err(err).Msg("captured token rejected")
			continue
		}
		if err := s.secrets.Put(ctx, SecretGameToken, token.Value); err != nil {
			s.logger.Warn().Err(err).Msg("store game token")
		}
		s.logger.Info().Time("expires_at", token.ExpiresAt).Msg("game token acquired")
		return token, nil
	}
	return nil, fmt.Errorf("%w: game token not captured", domain.ErrIdentityTimeout)
}

func (s *IdentityService) storedToken(ctx context.Context) (*domain.AuthToken, bool) {
	raw, err := s.secrets.Get(ctx, SecretGameToken)
	if err != nil {
		return nil, false
	}
	if s.wasRejected(raw) {
		s.logger.Debug().Msg("stored game token was rejected before")
		return nil, false
	}
	token, err := s.tokens.ParseGameToken(raw)
	if err != nil {
		s.logger.Debug().Err(err).Msg("stored game token unusable")
		return nil, false
	}
	if token.ExpiresWithin(s.clock.Now(), domain.TokenRefreshWindow) {
		return nil, false
	}
	return token, true
}

func (s *IdentityService) captureToken(ctx context.Context) (string, error) {
	for _, attempt := range []struct {
		header  string
		timeout time.Duration
	}{
		{header: "authorization", timeout: headerCaptureFirst},
		{header: "Authorization", timeout: headerCaptureAlt},
	} {
		value, err := s.browser.CaptureHeaderOnce(ctx, GameAPIHost, attempt.header, attempt.timeout)
		if err != nil {
			return "", fmt.Errorf("%w: capture %s header: %w", domain.ErrIdentityFatal, attempt.header, err)
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, nil
		}
	}
	return "", nil
}

func (s *IdentityService) ForgetCredentials(ctx context.Context) error {
	return errors.Join(
		ignoreNotFound(s.secrets.Delete(ctx, SecretChatUsername)),
		ignoreNotFound(s.secrets.Delete(ctx, SecretChatOAuth)),
	)
}

func (s *IdentityService) ForgetToken(ctx context.Context) error {
	if raw, err := s.secrets.Get(ctx, SecretGameToken); err == nil && raw != "" {
		s.rejectedMu.Lock()
		s.rejected = raw
		s.rejectedMu.Unlock()
	}
	return ignoreNotFound(s.secrets.Delete(ctx, SecretGameToken))
}

func (s *IdentityService) wasRejected(raw string) bool {
	s.rejectedMu.Lock()
	defer s.rejectedMu.Unlock()
	return s.rejected != "" && s.rejected == raw
}

func (s *IdentityService) ClearSession(ctx context.Context) error {
	if err := s.browser.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear browser session: %w", err)
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil
	}
	return err
}
