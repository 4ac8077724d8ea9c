package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/golang-jwt/jwt/v5"
)

const pasetoPrefix = "v4.local"

type gameClaims struct {
	UserID       string `json:"user_id"`
	OpaqueUserID string `json:"opaque_user_id"`
	jwt.RegisteredClaims
}

// GameTokenParser reads the claims of the game-data bearer token. The token
// is issued and verified by the game service, so its signature is not
// checked here.
type GameTokenParser struct {
	parser *jwt.Parser
}

var _ ports.TokenParser = GameTokenParser{}

func NewGameTokenParser() GameTokenParser {
	return GameTokenParser{parser: jwt.NewParser()}
}

func (p GameTokenParser) ParseGameToken(raw string) (*domain.AuthToken, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", domain.ErrInvalidGameToken)
	}
	if strings.HasPrefix(raw, pasetoPrefix) {
		return nil, fmt.Errorf("%w: opaque %s token", domain.ErrInvalidGameToken, pasetoPrefix)
	}

	parser := p.parser
	if parser == nil {
		parser = jwt.NewParser()
	}

	var claims gameClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidGameToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", domain.ErrInvalidGameToken)
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.OpaqueUserID
	}
	if subject == "" {
		return nil, fmt.Errorf("%w: missing user id claim", domain.ErrInvalidGameToken)
	}

	return &domain.AuthToken{
		Value:     raw,
		ExpiresAt: claims.ExpiresAt.Time.UTC().Truncate(time.Second),
		SubjectID: subject,
	}, nil
}
