package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeChatTransport struct {
	recordingChat
	connected   atomic.Bool
	connects    atomic.Int32
	disconnects atomic.Int32
	channels    chan string
	events      chan ports.ChatEvent
}

func newFakeChatTransport() *fakeChatTransport {
	return &fakeChatTransport{
		events:   make(chan ports.ChatEvent, 8),
		channels: make(chan string, 8),
	}
}

func (c *fakeChatTransport) Connect(_ context.Context, _ domain.ChatCredentials, channel string) error {
	c.connects.Add(1)
	c.connected.Store(true)
	c.channels <- channel
	c.events <- ports.ChatEvent{Kind: ports.ChatConnected}
	return nil
}

func (c *fakeChatTransport) Disconnect() error {
	c.disconnects.Add(1)
	c.connected.Store(false)
	return nil
}

func (c *fakeChatTransport) Connected() bool { return c.connected.Load() }

func (c *fakeChatTransport) Events() <-chan ports.ChatEvent { return c.events }

type fakeIdentity struct {
	credsErr     error
	credentials  atomic.Int32
	tokens       atomic.Int32
	forgotCreds  atomic.Int32
	forgotTokens atomic.Int32
	cleared      atomic.Int32
}

func (f *fakeIdentity) AcquireCredentials(context.Context) (domain.ChatCredentials, error) {
	f.credentials.Add(1)
	if f.credsErr != nil {
		return domain.ChatCredentials{}, f.credsErr
	}
	return domain.NewChatCredentials("trainer", "secret"), nil
}

func (f *fakeIdentity) AcquireToken(context.Context) (*domain.AuthToken, error) {
	n := f.tokens.Add(1)
	return &domain.AuthToken{
		Value:     fmt.Sprintf("token-%d", n),
		SubjectID: "12345",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeIdentity) ForgetCredentials(context.Context) error {
	f.forgotCreds.Add(1)
	return nil
}

func (f *fakeIdentity) ForgetToken(context.Context) error {
	f.forgotTokens.Add(1)
	return nil
}

func (f *fakeIdentity) ClearSession(context.Context) error {
	f.cleared.Add(1)
	return nil
}

type fakeSessionData struct {
	mu        sync.Mutex
	tokens    []*domain.AuthToken
	refreshes atomic.Int32
	expired   chan struct{}
}

func (d *fakeSessionData) UpdateToken(token *domain.AuthToken) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokens = append(d.tokens, token)
}

func (d *fakeSessionData) Refresh(context.Context) bool {
	d.refreshes.Add(1)
	return true
}

func (d *fakeSessionData) Expired() <-chan struct{} { return d.expired }

func (d *fakeSessionData) LastToken() *domain.AuthToken {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.tokens) == 0 {
		return nil
	}
	return d.tokens[len(d.tokens)-1]
}

type fakeSpawns struct {
	routines     atomic.Int32
	investigated chan string
}

func (s *fakeSpawns) Routine(context.Context, domain.BotMode) { s.routines.Add(1) }

func (s *fakeSpawns) Investigate(_ context.Context, _ domain.BotMode, hint string) bool {
	s.investigated <- hint
	return true
}

type fakeChannelSettings struct {
	staticSettings
	changes chan string
}

func (s fakeChannelSettings) ChannelChanges() <-chan string { return s.changes }

type supervisorFixture struct {
	chat      *fakeChatTransport
	identity  *fakeIdentity
	data      *fakeSessionData
	spawns    *fakeSpawns
	settings  fakeChannelSettings
	presenter *recordingPresenter
	sup       *Supervisor
}

func newSupervisorFixture(mode domain.BotMode) *supervisorFixture {
	settings := domain.DefaultCatchSettings()
	settings.Channel = "deemonrider"
	f := &supervisorFixture{
		chat:      newFakeChatTransport(),
		identity:  &fakeIdentity{},
		data:      &fakeSessionData{expired: make(chan struct{}, 1)},
		spawns:    &fakeSpawns{investigated: make(chan string, 4)},
		settings:  fakeChannelSettings{staticSettings: staticSettings{settings: settings}, changes: make(chan string, 1)},
		presenter: &recordingPresenter{},
	}
	f.sup = NewSupervisor(f.identity, f.chat, f.data, f.spawns, f.settings, f.presenter, nil, zerolog.Nop(),
		SupervisorConfig{Mode: mode, TickInterval: 5 * time.Millisecond})
	return f
}

// start runs the supervisor and returns a func that stops it and waits for
// Run to return.
func (f *supervisorFixture) start(t *testing.T) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.sup.Run(ctx) }()
	return func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("supervisor did not stop")
		}
	}
}

func (f *supervisorFixture) waitForStatus(t *testing.T, status domain.ConnectionStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.sup.State().Status == status
	}, 2*time.Second, 5*time.Millisecond, "status %s", status)
}

func TestSupervisorConnectsAndRunsSpawnRoutine(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSupervisorFixture(domain.ModeActive)
	stop := f.start(t)
	defer stop()

	f.waitForStatus(t, domain.StatusConnected)
	require.Eventually(t, func() bool { return f.spawns.routines.Load() > 0 }, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "deemonrider", <-f.chat.channels)
	assert.Equal(t, int32(1), f.identity.credentials.Load())
	assert.Equal(t, "token-1", f.data.LastToken().Value)
	require.Eventually(t, func() bool { return f.data.refreshes.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool { return len(f.presenter.Statuses()) >= 5 }, time.Second, 5*time.Millisecond)
	statuses := f.presenter.Statuses()
	assert.Equal(t, []domain.ConnectionStatus{
		domain.StatusStarting,
		domain.StatusLoading,
		domain.StatusRefreshingToken,
		domain.StatusConnectingSession,
		domain.StatusConnected,
	}, statuses[:5])
}

func TestSupervisorStoppedModeStaysIdle(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSupervisorFixture(domain.ModeStopped)
	stop := f.start(t)

	time.Sleep(30 * time.Millisecond)
	stop()

	assert.Equal(t, domain.StatusStarting, f.sup.State().Status)
	assert.Zero(t, f.identity.credentials.Load())
	assert.Zero(t, f.chat.connects.Load())
}

func TestSupervisorReacquiresRejectedToken(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSupervisorFixture(domain.ModeActive)
	stop := f.start(t)
	defer stop()

	f.waitForStatus(t, domain.StatusConnected)
	f.data.expired <- struct{}{}

	require.Eventually(t, func() bool {
		token := f.data.LastToken()
		return token != nil && token.Value == "token-2"
	}, 2*time.Second, 5*time.Millisecond)
	f.waitForStatus(t, domain.StatusConnected)
	assert.Equal(t, int32(1), f.identity.forgotTokens.Load())
	assert.Equal(t, int32(1), f.chat.connects.Load())
}

func TestSupervisorLogoutForgetsEverything(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSupervisorFixture(domain.ModeActive)
	stop := f.start(t)
	defer stop()

	f.waitForStatus(t, domain.StatusConnected)
	require.NoError(t, f.sup.Logout(context.Background()))

	f.waitForStatus(t, domain.StatusDisconnected)
	require.Eventually(t, func() bool { return f.identity.cleared.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), f.identity.forgotCreds.Load())
	assert.Equal(t, int32(1), f.identity.forgotTokens.Load())
	assert.False(t, f.chat.Connected())
}

func TestSupervisorFatalIdentityStopsTheBot(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSupervisorFixture(domain.ModeActive)
	f.identity.credsErr = fmt.Errorf("%w: browser gone", domain.ErrIdentityFatal)
	stop := f.start(t)
	defer stop()

	f.waitForStatus(t, domain.StatusError)
	assert.Equal(t, domain.ModeStopped, f.sup.State().Mode)
	require.Eventually(t, func() bool { return f.identity.cleared.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestSupervisorForwardsCatchPromptsWhileConnected(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSupervisorFixture(domain.ModeActive)
	stop := f.start(t)
	defer stop()

	f.waitForStatus(t, domain.StatusConnected)
	f.chat.events <- ports.ChatEvent{Kind: ports.ChatCandidateMessage, Text: "A wild Pikachu appears! !pokecatch 90s"}

	select {
	case hint := <-f.spawns.investigated:
		assert.Contains(t, hint, "Pikachu")
	case <-time.After(2 * time.Second):
		t.Fatal("catch prompt not forwarded")
	}
}

func TestSupervisorReconnectsOnChannelChange(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSupervisorFixture(domain.ModeActive)
	stop := f.start(t)
	defer stop()

	f.waitForStatus(t, domain.StatusConnected)
	<-f.chat.channels
	f.settings.changes <- "otherchannel"

	require.Eventually(t, func() bool { return f.chat.connects.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), f.chat.disconnects.Load())
	f.waitForStatus(t, domain.StatusConnected)
}
