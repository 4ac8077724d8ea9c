package domain

import (
	"strings"
	"time"
)

const (
	// TokenRefreshWindow is how long before expiry a game token is refreshed.
	TokenRefreshWindow = 10 * time.Minute

	chatTokenPrefix = "oauth:"
)

// AuthToken is the game-data bearer token. It is replaced wholesale on refresh.
type AuthToken struct {
	Value     string
	ExpiresAt time.Time
	SubjectID string
}

func (t *AuthToken) ExpiresWithin(now time.Time, window time.Duration) bool {
	if t == nil || t.Value == "" {
		return true
	}
	return !t.ExpiresAt.After(now.Add(window))
}

// ChatCredentials authenticate against the chat transport.
type ChatCredentials struct {
	Username string
	Token    string
}

func NewChatCredentials(username, token string) ChatCredentials {
	token = strings.TrimSpace(token)
	if token != "" && !strings.HasPrefix(token, chatTokenPrefix) {
		token = chatTokenPrefix + token
	}
	return ChatCredentials{Username: strings.ToLower(strings.TrimSpace(username)), Token: token}
}

func (c ChatCredentials) Empty() bool {
	return c.Username == "" || c.Token == ""
}
