package spawnfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
)

const (
	DefaultURL = "https://poketwitch.bframework.de/api/game/spawn/last"

	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 16
)

var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

type lastSpawnPayload struct {
	EventTime    string `json:"event_time"`
	PokedexID    int    `json:"pokedex_id"`
	IsEventSpawn bool   `json:"isEventSpawn"`
}

// Client reads the public last-spawn endpoint.
type Client struct {
	URL        string
	HTTPClient *http.Client
	Timeout    time.Duration
}

var _ ports.SpawnSource = (*Client)(nil)

func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{URL: url, HTTPClient: httpClient, Timeout: defaultTimeout}
}

// LatestSpawn reports found=false when the feed has no spawn yet.
func (c *Client) LatestSpawn(ctx context.Context) (domain.SpawnEvidence, bool, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return domain.SpawnEvidence{}, false, fmt.Errorf("create last spawn request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return domain.SpawnEvidence{}, false, fmt.Errorf("request last spawn: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return domain.SpawnEvidence{}, false, nil
	case resp.StatusCode != http.StatusOK:
		return domain.SpawnEvidence{}, false, fmt.Errorf("request last spawn: status %d", resp.StatusCode)
	}

	var payload lastSpawnPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.SpawnEvidence{}, false, nil
		}
		return domain.SpawnEvidence{}, false, fmt.Errorf("decode last spawn: %w", err)
	}
	if payload.PokedexID <= 0 || payload.EventTime == "" {
		return domain.SpawnEvidence{}, false, nil
	}

	at, err := parseEventTime(payload.EventTime)
	if err != nil {
		return domain.SpawnEvidence{}, false, err
	}

	return domain.SpawnEvidence{At: at, Primary: true, CreatureID: payload.PokedexID}, true, nil
}

// parseEventTime treats timestamps without a zone as UTC.
func parseEventTime(raw string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if at, err := time.Parse(layout, raw); err == nil {
			return at.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse last spawn event_time %q", raw)
}
