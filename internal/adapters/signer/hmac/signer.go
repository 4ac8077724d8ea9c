package hmac

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/google/uuid"
)

const (
	DefaultClientVersion = "1.4.3.1"
	DefaultSecret        = "d4o3n2t5X"

	acceptHeader = "application/json, text/plain, */*"
)

// Signer produces the request headers the game API expects: an HMAC-SHA256
// over "<subject>:<unix seconds>X<url path>:<nonce>".
type Signer struct {
	secret        []byte
	clientVersion string
	now           func() time.Time
	nonce         func() string
}

var _ ports.RequestSigner = (*Signer)(nil)

func NewSigner(secret, clientVersion string) *Signer {
	if secret == "" {
		secret = DefaultSecret
	}
	if clientVersion == "" {
		clientVersion = DefaultClientVersion
	}
	return &Signer{
		secret:        []byte(secret),
		clientVersion: clientVersion,
		now:           time.Now,
		nonce:         func() string { return uuid.NewString() },
	}
}

func (s *Signer) Sign(subjectID, fullURL, token string) (map[string]string, error) {
	if subjectID == "" {
		return nil, errors.New("sign request: subject id is empty")
	}
	if token == "" {
		return nil, errors.New("sign request: token is empty")
	}
	parsed, err := url.Parse(fullURL)
	if err != nil {
		return nil, fmt.Errorf("sign request: parse url: %w", err)
	}

	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	nonce := s.nonce()
	message := subjectID + ":" + timestamp + "X" + parsed.Path + ":" + nonce

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(message))

	return map[string]string{
		"Authorization": token,
		"signature":     hex.EncodeToString(mac.Sum(nil)),
		"timestamp":     timestamp,
		"nonce":         nonce,
		"clientVersion": s.clientVersion,
		"Accept":        acceptHeader,
	}, nil
}
