package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mockAnyContext() interface{} {
	return mock.Anything
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(now time.Time) *manualClock {
	return &manualClock{now: now}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recordingSleeper returns immediately and advances the clock it is bound to.
type recordingSleeper struct {
	mu     sync.Mutex
	clock  *manualClock
	sleeps []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	s.mu.Unlock()
	if s.clock != nil {
		s.clock.Advance(d)
	}
	return nil
}

func (s *recordingSleeper) Sleeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sleeps...)
}

type recordingChat struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (c *recordingChat) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, text)
	return nil
}

func (c *recordingChat) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

type staticSettings struct {
	settings domain.CatchSettings
}

func (s staticSettings) Current() domain.CatchSettings {
	return s.settings
}

type stubSigner struct{}

func (stubSigner) Sign(subjectID, fullURL, token string) (map[string]string, error) {
	return map[string]string{"Authorization": token, "subject": subjectID, "url": fullURL}, nil
}

type fetchCall struct {
	url     string
	headers map[string]string
}

// scriptedFetcher answers each URL with queued responses; the last one
// repeats.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses map[string][]ports.FetchResult
	calls     []fetchCall
	onFetch   func(url string)
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{responses: make(map[string][]ports.FetchResult)}
}

func (f *scriptedFetcher) On(url string, results ...ports.FetchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = append(f.responses[url], results...)
}

func (f *scriptedFetcher) Set(url string, results ...ports.FetchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = results
}

func (f *scriptedFetcher) FetchSigned(_ context.Context, url string, headers map[string]string) (ports.FetchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{url: url, headers: headers})
	queue := f.responses[url]
	result := ports.FetchResult{Status: 500, Body: []byte(`{"error":"unscripted"}`)}
	if len(queue) > 0 {
		result = queue[0]
		if len(queue) > 1 {
			f.responses[url] = queue[1:]
		}
	}
	hook := f.onFetch
	f.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	return result, nil
}

func (f *scriptedFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if call.url == url {
			count++
		}
	}
	return count
}

type recordingPresenter struct {
	mu        sync.Mutex
	statuses  []domain.ConnectionStatus
	modes     []domain.BotMode
	snapshots []domain.GameSnapshot
	spawns    []domain.SpawnRecord
}

var _ ports.Presenter = (*recordingPresenter)(nil)

func (p *recordingPresenter) StatusChanged(status domain.ConnectionStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, status)
}

func (p *recordingPresenter) ModeChanged(mode domain.BotMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modes = append(p.modes, mode)
}

func (p *recordingPresenter) SnapshotUpdated(snapshot domain.GameSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, snapshot)
}

func (p *recordingPresenter) SpawnObserved(record domain.SpawnRecord, _ domain.CreatureFacts) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spawns = append(p.spawns, record)
}

func (p *recordingPresenter) Statuses() []domain.ConnectionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ConnectionStatus(nil), p.statuses...)
}

func (p *recordingPresenter) Snapshots() []domain.GameSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.GameSnapshot(nil), p.snapshots...)
}

func respondOK(body string) ports.FetchResult {
	return ports.FetchResult{Status: 200, Body: []byte(body)}
}

func respondBadRequest(body string) ports.FetchResult {
	return ports.FetchResult{Status: 400, Body: []byte(body)}
}
