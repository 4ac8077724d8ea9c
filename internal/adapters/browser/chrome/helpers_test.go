package chrome

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseListenersMatchBySubstring(t *testing.T) {
	t.Parallel()

	var got []string
	listeners := responseListeners{}
	listeners.add("poketwitch.bframework.de", func(_ context.Context, url string, _ []byte) { got = append(got, "game:"+url) })
	listeners.add("/inventory/", func(_ context.Context, url string, _ []byte) { got = append(got, "inventory:"+url) })
	listeners.add("ignored", nil)

	url := "https://poketwitch.bframework.de/api/game/ext/trainer/inventory/"
	for _, handler := range listeners.matching(url) {
		handler(context.Background(), url, nil)
	}

	assert.Equal(t, []string{"game:" + url, "inventory:" + url}, got)
	assert.Empty(t, listeners.matching("https://www.twitch.tv/"))
}

func TestIsAssetURL(t *testing.T) {
	t.Parallel()

	assert.True(t, isAssetURL("https://poketwitch.bframework.de/static/sprite.png"))
	assert.True(t, isAssetURL("https://poketwitch.bframework.de/main.js?v=3"))
	assert.False(t, isAssetURL("https://poketwitch.bframework.de/api/game/ext/trainer/pokedex/v2/"))
}

func TestFrameAndCookieChecks(t *testing.T) {
	t.Parallel()

	assert.True(t, isExtensionFrame("https://pm0qkv9g4h87t5y6lg329oam8j7ze9.ext-twitch.tv/x/index.html", DefaultExtensionID))
	assert.False(t, isExtensionFrame("https://supervisor.ext-twitch.tv/", DefaultExtensionID))
	assert.False(t, isExtensionFrame("anything", ""))

	assert.True(t, hasAuthCookie([]ports.Cookie{{Name: "login", Value: "trainer"}, {Name: "auth-token", Value: "abc"}}))
	assert.False(t, hasAuthCookie([]ports.Cookie{{Name: "auth-token", Value: ""}}))
	assert.False(t, hasAuthCookie(nil))
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	body, err := decodeBody(`{"a":1}`, false)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), body)

	body, err = decodeBody(base64.StdEncoding.EncodeToString([]byte("hello")), true)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), body)

	_, err = decodeBody("%%%", true)
	assert.ErrorContains(t, err, "decode base64 body")
}

func TestParseFetchResult(t *testing.T) {
	t.Parallel()

	result, err := parseFetchResult([]byte(`{"status":400,"text":"{\"error_code\": -24}"}`))
	require.NoError(t, err)
	assert.Equal(t, ports.FetchResult{Status: 400, Body: []byte(`{"error_code": -24}`)}, result)

	_, err = parseFetchResult([]byte(`{"status":0,"text":"TypeError: Failed to fetch"}`))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.ErrorContains(t, err, "Failed to fetch")

	_, err = parseFetchResult([]byte(`null`))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestNewSessionDefaults(t *testing.T) {
	t.Parallel()

	session := NewSession(Config{ProfileDir: t.TempDir()}, zerolog.Nop())
	assert.Equal(t, DefaultLoginURL, session.cfg.LoginURL)
	assert.Equal(t, DefaultExtensionID, session.cfg.ExtensionID)
	assert.Equal(t, defaultScrollSettle, session.cfg.ScrollSettle)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := session.IsLoggedIn(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, session.Close())
}
