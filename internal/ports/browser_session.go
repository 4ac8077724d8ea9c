package ports

import (
	"context"
	"time"
)

type FetchResult struct {
	Status int
	Body   []byte
}

type Cookie struct {
	Name  string
	Value string
}

// ResponseHandler receives JSON bodies of game API responses the browser
// observed on its own.
type ResponseHandler func(ctx context.Context, url string, body []byte)

type SignedFetcher interface {
	FetchSigned(ctx context.Context, url string, headers map[string]string) (FetchResult, error)
}

// BrowserSession drives the hosted page that owns both chat and game-data
// identities.
type BrowserSession interface {
	Login(ctx context.Context) error
	IsLoggedIn(ctx context.Context) (bool, error)
	Cookies(ctx context.Context) ([]Cookie, error)
	SignedFetcher
	// CaptureHeaderOnce returns an empty string when no matching request is
	// seen before the timeout.
	CaptureHeaderOnce(ctx context.Context, urlSubstring, header string, timeout time.Duration) (string, error)
	Reload(ctx context.Context) error
	ClearSession(ctx context.Context) error
	OnResponse(urlSubstring string, handler ResponseHandler)
}
