package domain

import "errors"

var (
	ErrSecretNotFound   = errors.New("secret not found")
	ErrSecretReadOnly   = errors.New("secret store is read-only")
	ErrLookupNotFound   = errors.New("creature lookup not found")
	ErrTokenExpired     = errors.New("game token expired")
	ErrTokenUnavailable = errors.New("game token unavailable")
	ErrFetchFailed      = errors.New("game data fetch failed")
	ErrIdentityTimeout  = errors.New("identity acquisition timed out")
	ErrIdentityFatal    = errors.New("identity acquisition failed")
	ErrInvalidSettings  = errors.New("invalid catch settings")
	ErrChatNotConnected = errors.New("chat transport not connected")
	ErrInvalidGameToken = errors.New("invalid game token")
	ErrUnknownBotMode   = errors.New("unknown bot mode")
)
