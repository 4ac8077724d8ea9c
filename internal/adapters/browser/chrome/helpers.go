package chrome

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
)

// fetchScript never rejects: network failures come back as status 0.
const fetchScript = `async (url, headers) => {
	try {
		const res = await fetch(url, { method: "GET", headers });
		return { status: res.status, text: await res.text() };
	} catch (e) {
		return { status: 0, text: e.name + ": " + e.message };
	}
}`

var assetSuffixes = []string{
	".png", ".jpg", ".jpeg", ".webp", ".gif", ".css", ".js", ".svg", ".ico", ".woff", ".woff2",
}

type responseListener struct {
	substring string
	handler   ports.ResponseHandler
}

type responseListeners struct {
	mu    sync.RWMutex
	items []responseListener
}

func (l *responseListeners) add(substring string, handler ports.ResponseHandler) {
	if handler == nil {
		return
	}
	l.mu.Lock()
	l.items = append(l.items, responseListener{substring: substring, handler: handler})
	l.mu.Unlock()
}

func (l *responseListeners) matching(url string) []ports.ResponseHandler {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var handlers []ports.ResponseHandler
	for _, item := range l.items {
		if strings.Contains(url, item.substring) {
			handlers = append(handlers, item.handler)
		}
	}
	return handlers
}

func isAssetURL(url string) bool {
	path, _, _ := strings.Cut(url, "?")
	for _, suffix := range assetSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func isExtensionFrame(src, extensionID string) bool {
	return extensionID != "" && strings.Contains(src, extensionID)
}

func hasAuthCookie(cookies []ports.Cookie) bool {
	for _, c := range cookies {
		if c.Name == authCookie && c.Value != "" {
			return true
		}
	}
	return false
}

func decodeBody(body string, base64Encoded bool) ([]byte, error) {
	if !base64Encoded {
		return []byte(body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return decoded, nil
}

func parseFetchResult(raw []byte) (ports.FetchResult, error) {
	var result struct {
		Status int    `json:"status"`
		Text   string `json:"text"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return ports.FetchResult{}, fmt.Errorf("decode fetch result: %w", err)
	}
	if result.Status == 0 {
		return ports.FetchResult{}, fmt.Errorf("%w: in-frame fetch: %s", domain.ErrFetchFailed, result.Text)
	}
	return ports.FetchResult{Status: result.Status, Body: []byte(result.Text)}, nil
}
