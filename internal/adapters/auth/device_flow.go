package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

const (
	deviceCodeGrantType   = "urn:ietf:params:oauth:grant-type:device_code"
	maxOAuthResponseBytes = 1 << 20

	DefaultIDBaseURL = "https://id.twitch.tv"
)

// ChatScopes are the scopes the chat transport needs to read prompts and
// send commands.
var ChatScopes = []string{"chat:read", "chat:edit"}

var (
	ErrDeviceFlowTimeout = errors.New("timed out waiting for device authorization")
	ErrDeviceCodeExpired = errors.New("device code expired")
)

type API struct {
	BaseURL        string
	DeviceCodePath string
	TokenPath      string
	ValidatePath   string
}

// DefaultAPI is the Twitch identity service.
func DefaultAPI() API {
	return API{
		BaseURL:        DefaultIDBaseURL,
		DeviceCodePath: "/oauth2/device",
		TokenPath:      "/oauth2/token",
		ValidatePath:   "/oauth2/validate",
	}
}

// DeviceFlowAdapter runs the OAuth device authorization grant against the
// chat identity provider, so a headless host can obtain chat credentials
// without the browser session.
type DeviceFlowAdapter struct {
	API            API
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

type DeviceCodeResult struct {
	VerificationURL string
	UserCode        string
	PollInterval    time.Duration
	ExpiresIn       time.Duration
	DeviceCode      string
}

type DevicePollRequest struct {
	ClientID     string
	DeviceCode   string
	Scopes       []string
	PollInterval time.Duration
	Timeout      time.Duration
}

type TokenResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	Scope        []string `json:"scope"`
	TokenType    string   `json:"token_type"`
}

// Identity is what the validate endpoint reports for an access token.
type Identity struct {
	Login     string   `json:"login"`
	UserID    string   `json:"user_id"`
	ClientID  string   `json:"client_id"`
	Scopes    []string `json:"scopes"`
	ExpiresIn int64    `json:"expires_in"`
}

type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	Interval        int64  `json:"interval"`
	ExpiresIn       int64  `json:"expires_in"`
}

// oauthErrorResponse covers both the RFC 8628 shape and the provider's
// {"status","message"} shape.
type oauthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Status           int    `json:"status"`
	Interval         int64  `json:"interval"`
}

func (e oauthErrorResponse) code() string {
	if e.Error != "" && e.Error != http.StatusText(e.Status) {
		return e.Error
	}
	return e.Message
}

func (a DeviceFlowAdapter) RequestDeviceCode(ctx context.Context, clientID string, scopes []string) (DeviceCodeResult, error) {
	if clientID == "" {
		return DeviceCodeResult{}, errors.New("client id is required")
	}

	endpoint, err := buildAPIURL(a.API.BaseURL, a.API.DeviceCodePath)
	if err != nil {
		return DeviceCodeResult{}, err
	}

	values := url.Values{}
	values.Set("client_id", clientID)
	if len(scopes) > 0 {
		values.Set("scopes", strings.Join(scopes, " "))
	}

	requestCtx, cancel := a.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return DeviceCodeResult{}, fmt.Errorf("create device code request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient().Do(req)
	if err != nil {
		return DeviceCodeResult{}, fmt.Errorf("request device code: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return DeviceCodeResult{}, fmt.Errorf("request device code: %s", decodeOAuthError(resp))
	}

	var payload deviceCodeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&payload); err != nil {
		return DeviceCodeResult{}, fmt.Errorf("decode device code response: %w", err)
	}
	if payload.DeviceCode == "" || payload.UserCode == "" || payload.VerificationURI == "" {
		return DeviceCodeResult{}, errors.New("device code response missing required fields")
	}

	interval := payload.Interval
	if interval <= 0 {
		interval = 5
	}

	return DeviceCodeResult{
		VerificationURL: payload.VerificationURI,
		UserCode:        payload.UserCode,
		PollInterval:    time.Duration(interval) * time.Second,
		ExpiresIn:       time.Duration(payload.ExpiresIn) * time.Second,
		DeviceCode:      payload.DeviceCode,
	}, nil
}

func (a DeviceFlowAdapter) PollToken(ctx context.Context, req DevicePollRequest) (TokenResult, error) {
	if req.ClientID == "" {
		return TokenResult{}, errors.New("client id is required")
	}
	if req.DeviceCode == "" {
		return TokenResult{}, errors.New("device code is required")
	}

	interval := req.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	deadline := time.Now().Add(timeout)
	for {
		if time.Now().After(deadline) {
			return TokenResult{}, ErrDeviceFlowTimeout
		}

		token, pollInterval, pending, err := a.pollTokenOnce(ctx, req, interval, deadline)
		if err != nil {
			return TokenResult{}, err
		}
		if !pending {
			return token, nil
		}
		if pollInterval > 0 {
			interval = pollInterval
		}

		if time.Now().Add(interval).After(deadline) {
			return TokenResult{}, ErrDeviceFlowTimeout
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return TokenResult{}, ctx.Err()
		case <-timer.C:
		}
	}
}

func (a DeviceFlowAdapter) pollTokenOnce(ctx context.Context, req DevicePollRequest, interval time.Duration, deadline time.Time) (TokenResult, time.Duration, bool, error) {
	endpoint, err := buildAPIURL(a.API.BaseURL, a.API.TokenPath)
	if err != nil {
		return TokenResult{}, 0, false, err
	}

	values := url.Values{}
	values.Set("grant_type", deviceCodeGrantType)
	values.Set("client_id", req.ClientID)
	values.Set("device_code", req.DeviceCode)
	if len(req.Scopes) > 0 {
		values.Set("scopes", strings.Join(req.Scopes, " "))
	}

	reqCtx := ctx
	if ctxDeadline, ok := ctx.Deadline(); !ok || deadline.Before(ctxDeadline) {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return TokenResult{}, 0, false, fmt.Errorf("create token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient().Do(httpReq)
	if err != nil {
		return TokenResult{}, 0, false, fmt.Errorf("request token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		var token TokenResult
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&token); err != nil {
			return TokenResult{}, 0, false, fmt.Errorf("decode token response: %w", err)
		}
		if token.AccessToken == "" {
			return TokenResult{}, 0, false, errors.New("token response missing access token")
		}
		return token, 0, false, nil
	}

	var oauthErr oauthErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&oauthErr); err != nil {
		return TokenResult{}, 0, false, fmt.Errorf("request token: status %d", resp.StatusCode)
	}

	nextInterval := interval
	if oauthErr.Interval > 0 {
		nextInterval = time.Duration(oauthErr.Interval) * time.Second
	}

	switch oauthErr.code() {
	case "authorization_pending":
		return TokenResult{}, nextInterval, true, nil
	case "slow_down":
		return TokenResult{}, nextInterval + 5*time.Second, true, nil
	case "expired_token", "invalid device code":
		return TokenResult{}, 0, false, ErrDeviceCodeExpired
	}

	return TokenResult{}, 0, false, fmt.Errorf("request token: %s", formatOAuthError(resp.StatusCode, oauthErr))
}

// Validate asks the identity provider who owns accessToken.
func (a DeviceFlowAdapter) Validate(ctx context.Context, accessToken string) (Identity, error) {
	endpoint, err := buildAPIURL(a.API.BaseURL, a.API.ValidatePath)
	if err != nil {
		return Identity{}, err
	}

	requestCtx, cancel := a.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("create validate request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+strings.TrimPrefix(accessToken, "oauth:"))

	resp, err := a.httpClient().Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("validate token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("validate token: %s", decodeOAuthError(resp))
	}

	var identity Identity
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&identity); err != nil {
		return Identity{}, fmt.Errorf("decode validate response: %w", err)
	}
	if identity.Login == "" {
		return Identity{}, errors.New("validate response missing login")
	}
	return identity, nil
}

// ChatCredentials runs the whole device flow and returns credentials ready
// for the chat transport. prompt is called once the user code is known.
func (a DeviceFlowAdapter) ChatCredentials(ctx context.Context, clientID string, prompt func(DeviceCodeResult)) (domain.ChatCredentials, error) {
	code, err := a.RequestDeviceCode(ctx, clientID, ChatScopes)
	if err != nil {
		return domain.ChatCredentials{}, err
	}
	if prompt != nil {
		prompt(code)
	}

	token, err := a.PollToken(ctx, DevicePollRequest{
		ClientID:     clientID,
		DeviceCode:   code.DeviceCode,
		Scopes:       ChatScopes,
		PollInterval: code.PollInterval,
		Timeout:      code.ExpiresIn,
	})
	if err != nil {
		return domain.ChatCredentials{}, err
	}

	identity, err := a.Validate(ctx, token.AccessToken)
	if err != nil {
		return domain.ChatCredentials{}, err
	}
	return domain.NewChatCredentials(identity.Login, token.AccessToken), nil
}

func (a DeviceFlowAdapter) httpClient() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

func (a DeviceFlowAdapter) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := a.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func decodeOAuthError(resp *http.Response) string {
	var oauthErr oauthErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&oauthErr); err != nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return formatOAuthError(resp.StatusCode, oauthErr)
}

func formatOAuthError(statusCode int, oauthErr oauthErrorResponse) string {
	code := oauthErr.code()
	if code == "" {
		return fmt.Sprintf("status %d", statusCode)
	}
	if oauthErr.ErrorDescription != "" {
		return code + ": " + oauthErr.ErrorDescription
	}
	return code
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
