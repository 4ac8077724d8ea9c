package status

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// Presenter prints one styled line per notification.
type Presenter struct {
	mu     sync.Mutex
	out    io.Writer
	now    func() time.Time
	styles styles
}

var _ ports.Presenter = (*Presenter)(nil)

func NewPresenter(out io.Writer, now func() time.Time) *Presenter {
	if now == nil {
		now = time.Now
	}
	return &Presenter{out: out, now: now, styles: newStyles()}
}

func (p *Presenter) StatusChanged(status domain.ConnectionStatus) {
	style := p.styles.detail
	switch status {
	case domain.StatusConnected:
		style = p.styles.good
	case domain.StatusError, domain.StatusSessionError, domain.StatusTimeout, domain.StatusDisconnected:
		style = p.styles.warning
	}
	p.line(p.styles.key.Render("status"), style.Render(statusLabel(status)))
}

func (p *Presenter) ModeChanged(mode domain.BotMode) {
	style := p.styles.good
	if mode == domain.ModeStopped {
		style = p.styles.warning
	}
	p.line(p.styles.key.Render("mode"), style.Render(string(mode)))
}

func (p *Presenter) SnapshotUpdated(snapshot domain.GameSnapshot) {
	p.line(
		p.styles.key.Render("data"),
		p.styles.detail.Render(fmt.Sprintf("v%d: $%d, %d caught, %d tool kinds, %d missions",
			snapshot.Version,
			snapshot.Inventory.Cash,
			snapshot.Captured.TotalCount,
			len(snapshot.Inventory.Items),
			len(snapshot.Missions.Active),
		)),
	)
}

func (p *Presenter) SpawnObserved(record domain.SpawnRecord, creature domain.CreatureFacts) {
	name := record.Name
	if name == "" {
		name = creature.Name
	}
	if name == "" {
		name = fmt.Sprintf("#%d", record.CreatureID)
	}

	details := []string{tierLabel(creature.Tier)}
	if len(creature.Types) > 0 {
		details = append(details, strings.Join(creature.Types, "/"))
	}
	if creature.PreviouslyCaught {
		details = append(details, "caught before")
	}

	p.line(
		p.styles.key.Render("spawn"),
		p.styles.creature.Render(name),
		p.styles.meta.Render("["+strings.Join(details, ", ")+"]"),
	)
}

func (p *Presenter) line(parts ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stamp := p.styles.timestamp.Render(p.now().Format("15:04:05"))
	segments := make([]string, 0, len(parts)*2+1)
	segments = append(segments, stamp)
	for _, part := range parts {
		segments = append(segments, " ", part)
	}
	_, _ = fmt.Fprintln(p.out, lipgloss.JoinHorizontal(lipgloss.Top, segments...))
}

func statusLabel(status domain.ConnectionStatus) string {
	return strings.ReplaceAll(string(status), "_", " ")
}
