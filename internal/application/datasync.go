package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultGameAPIBaseURL = "https://poketwitch.bframework.de/api/game/ext/trainer/"
	defaultTokenWait      = 60 * time.Second
)

var (
	codeNotFound     = []byte(`"error":-20`)
	codeTokenExpired = []byte(`"error":-24`)
)

type DataSyncConfig struct {
	BaseURL   string
	TokenWait time.Duration
}

// DataSync owns the game snapshot. Active refresh cycles and passive
// ingestion both commit through a whole-value swap.
type DataSync struct {
	fetcher   ports.SignedFetcher
	signer    ports.RequestSigner
	presenter ports.Presenter
	clock     ports.Clock
	logger    zerolog.Logger

	baseURL   string
	tokenWait time.Duration

	slot     *semaphore.Weighted
	token    atomic.Pointer[domain.AuthToken]
	snapshot atomic.Pointer[domain.GameSnapshot]
	commitMu sync.Mutex

	validMu sync.Mutex
	valid   chan struct{}
	expired chan struct{}

	companionMu sync.Mutex
	companion   map[int]domain.CreatureFacts
}

func NewDataSync(fetcher ports.SignedFetcher, signer ports.RequestSigner, presenter ports.Presenter, clock ports.Clock, logger zerolog.Logger, cfg DataSyncConfig) *DataSync {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGameAPIBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.TokenWait <= 0 {
		cfg.TokenWait = defaultTokenWait
	}

	d := &DataSync{
		fetcher:   fetcher,
		signer:    signer,
		presenter: presenter,
		clock:     clock,
		logger:    logger.With().Str("component", "datasync").Logger(),
		baseURL:   cfg.BaseURL,
		tokenWait: cfg.TokenWait,
		slot:      semaphore.NewWeighted(1),
		valid:     make(chan struct{}),
		expired:   make(chan struct{}, 1),
		companion: make(map[int]domain.CreatureFacts),
	}
	close(d.valid)
	d.snapshot.Store(&domain.GameSnapshot{})
	return d
}

func (d *DataSync) Snapshot() domain.GameSnapshot {
	return *d.snapshot.Load()
}

// Expired delivers a signal each time the server rejects the token.
func (d *DataSync) Expired() <-chan struct{} {
	return d.expired
}

// UpdateToken replaces the token. A non-nil token releases fetches waiting
// on a refresh.
func (d *DataSync) UpdateToken(token *domain.AuthToken) {
	d.token.Store(token)
	if token == nil {
		return
	}

	d.validMu.Lock()
	defer d.validMu.Unlock()
	select {
	case <-d.valid:
	default:
		close(d.valid)
	}
}

// Refresh runs one fetch cycle over every category. It returns false when a
// cycle is already in flight or no token is held.
func (d *DataSync) Refresh(ctx context.Context) bool {
	if d.token.Load() == nil {
		d.logger.Debug().Msg("refresh skipped without token")
		return false
	}
	if !d.slot.TryAcquire(1) {
		return false
	}
	defer d.slot.Release(1)

	update := snapshotUpdate{}
	for _, category := range domain.SnapshotCategories {
		if ctx.Err() != nil {
			return true
		}
		body, err := d.fetch(ctx, categoryPaths[category])
		if err != nil {
			d.logger.Warn().Err(err).Str("category", string(category)).Msg("fetch failed")
			continue
		}
		if err := update.apply(ctx, category, body, d.lookupCompanion); err != nil {
			d.logger.Warn().Err(err).Str("category", string(category)).Msg("transform failed")
		}
	}

	if !update.empty() {
		d.commit(update)
	}
	return true
}

// Ingest applies a body observed outside of an active fetch.
func (d *DataSync) Ingest(ctx context.Context, url string, body []byte) {
	category, ok := CategoryForURL(url)
	if !ok {
		return
	}

	update := snapshotUpdate{}
	if err := update.apply(ctx, category, body, d.lookupCompanion); err != nil {
		d.logger.Debug().Err(err).Str("url", url).Msg("ignored passive payload")
		return
	}
	d.logger.Debug().Str("category", string(category)).Msg("ingested passive payload")
	d.commit(update)
}

// Lookup resolves creature facts from the captured list when it carries a
// tier, otherwise from the game API.
func (d *DataSync) Lookup(ctx context.Context, id int) (domain.CreatureFacts, error) {
	if facts, ok := d.Snapshot().Captured.Lookup(id); ok {
		return facts, nil
	}

	d.companionMu.Lock()
	cached, ok := d.companion[id]
	d.companionMu.Unlock()
	if ok {
		return cached, nil
	}

	body, err := d.fetch(ctx, fmt.Sprintf(pathCreature, id))
	if err != nil {
		return domain.CreatureFacts{}, fmt.Errorf("lookup creature %d: %w", id, err)
	}
	facts, err := decodeCreature(body)
	if err != nil {
		return domain.CreatureFacts{}, fmt.Errorf("lookup creature %d: %w", id, err)
	}
	return facts, nil
}

func (d *DataSync) lookupCompanion(ctx context.Context, id int) (domain.CreatureFacts, error) {
	facts, err := d.Lookup(ctx, id)
	if err != nil {
		return facts, err
	}

	d.companionMu.Lock()
	clear(d.companion)
	d.companion[id] = facts
	d.companionMu.Unlock()
	return facts, nil
}

func (d *DataSync) commit(update snapshotUpdate) {
	d.commitMu.Lock()
	next := *d.snapshot.Load()
	if update.captured != nil {
		next.Captured = *update.captured
	}
	if update.inventory != nil {
		next.Inventory = *update.inventory
	}
	if update.missions != nil {
		next.Missions = *update.missions
	}
	if update.dex != nil {
		next.Dex = *update.dex
	}
	next.Version++
	next.UpdatedAt = d.clock.Now()
	d.snapshot.Store(&next)
	d.commitMu.Unlock()

	d.logger.Debug().Uint64("version", next.Version).Msg("snapshot committed")
	if d.presenter != nil {
		d.presenter.SnapshotUpdated(next)
	}
}

// fetch performs one signed request. A token rejection is retried once after
// the token is replaced; a second rejection is returned as ErrTokenExpired.
func (d *DataSync) fetch(ctx context.Context, path string) ([]byte, error) {
	url := d.baseURL + path
	for attempt := 0; ; attempt++ {
		token := d.token.Load()
		if token == nil {
			return nil, domain.ErrTokenUnavailable
		}

		headers, err := d.signer.Sign(token.SubjectID, url, token.Value)
		if err != nil {
			return nil, fmt.Errorf("sign %s: %w", path, err)
		}
		result, err := d.fetcher.FetchSigned(ctx, url, headers)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, path, err)
		}

		switch {
		case result.Status == http.StatusOK:
			return result.Body, nil
		case hasErrorCode(result, codeNotFound):
			return nil, domain.ErrLookupNotFound
		case hasErrorCode(result, codeTokenExpired):
			if attempt > 0 {
				return nil, fmt.Errorf("%w: %s rejected after refresh", domain.ErrTokenExpired, path)
			}
			d.invalidateToken()
			if err := d.waitForToken(ctx); err != nil {
				return nil, errors.Join(domain.ErrTokenExpired, err)
			}
			d.logger.Info().Str("path", path).Msg("retrying with refreshed token")
		default:
			return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, path, result.Status)
		}
	}
}

func hasErrorCode(result ports.FetchResult, code []byte) bool {
	if result.Status != http.StatusBadRequest {
		return false
	}
	return bytes.Contains(bytes.ReplaceAll(result.Body, []byte(" "), nil), code)
}

func (d *DataSync) invalidateToken() {
	d.validMu.Lock()
	select {
	case <-d.valid:
		d.valid = make(chan struct{})
	default:
	}
	d.validMu.Unlock()

	select {
	case d.expired <- struct{}{}:
	default:
	}
}

func (d *DataSync) waitForToken(ctx context.Context) error {
	d.validMu.Lock()
	valid := d.valid
	d.validMu.Unlock()

	timer := time.NewTimer(d.tokenWait)
	defer timer.Stop()

	select {
	case <-valid:
		return nil
	case <-timer.C:
		return fmt.Errorf("no token refresh within %s", d.tokenWait)
	case <-ctx.Done():
		return ctx.Err()
	}
}

type snapshotUpdate struct {
	captured  *domain.Captured
	inventory *domain.Inventory
	missions  *domain.Missions
	dex       *domain.Dex
}

func (u *snapshotUpdate) empty() bool {
	return u.captured == nil && u.inventory == nil && u.missions == nil && u.dex == nil
}

func (u *snapshotUpdate) apply(ctx context.Context, category domain.SnapshotCategory, body []byte, lookup lookupFunc) error {
	switch category {
	case domain.CategoryCaptured:
		captured, err := decodeCaptured(ctx, body, lookup)
		if err != nil {
			return err
		}
		u.captured = &captured
	case domain.CategoryInventory:
		inventory, err := decodeInventory(body)
		if err != nil {
			return err
		}
		u.inventory = &inventory
	case domain.CategoryMissions:
		missions, err := decodeMissions(body)
		if err != nil {
			return err
		}
		u.missions = &missions
	case domain.CategoryDex:
		dex, err := decodeDex(body)
		if err != nil {
			return err
		}
		u.dex = &dex
	default:
		return fmt.Errorf("unknown category %q", category)
	}
	return nil
}
