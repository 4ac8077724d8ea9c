package application

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

const (
	dexWaitPolls    = 20
	dexPollInterval = time.Second
)

// GameData is the read side of the data-sync coordinator.
type GameData interface {
	ports.SnapshotReader
	ports.CreatureLookup
	ports.DataRefresher
}

// Investigator turns spawn evidence into at most one capture attempt per
// spawn.
type Investigator struct {
	source    ports.SpawnSource
	data      GameData
	decisions *DecisionEngine
	thrower   *Thrower
	settings  ports.SettingsProvider
	journal   ports.SpawnJournal
	presenter ports.Presenter
	clock     ports.Clock
	sleeper   ports.Sleeper
	logger    zerolog.Logger

	slot   *semaphore.Weighted
	record atomic.Pointer[domain.SpawnRecord]
}

func NewInvestigator(
	source ports.SpawnSource,
	data GameData,
	decisions *DecisionEngine,
	thrower *Thrower,
	settings ports.SettingsProvider,
	journal ports.SpawnJournal,
	presenter ports.Presenter,
	clock ports.Clock,
	sleeper ports.Sleeper,
	logger zerolog.Logger,
) *Investigator {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if sleeper == nil {
		sleeper = ports.SystemSleeper{}
	}
	return &Investigator{
		source:    source,
		data:      data,
		decisions: decisions,
		thrower:   thrower,
		settings:  settings,
		journal:   journal,
		presenter: presenter,
		clock:     clock,
		sleeper:   sleeper,
		logger:    logger.With().Str("component", "investigator").Logger(),
		slot:      semaphore.NewWeighted(1),
	}
}

// Record returns the tracked spawn, or nil before the first one.
func (i *Investigator) Record() *domain.SpawnRecord {
	return i.record.Load()
}

// Routine is the per-tick entry point while connected.
func (i *Investigator) Routine(ctx context.Context, mode domain.BotMode) {
	current := i.record.Load()
	now := i.clock.Now()
	if current.CycleDue(now) {
		i.Investigate(ctx, mode, "")
		return
	}

	if current.SnapshotRefreshed || now.Sub(current.ArrivedAt) <= domain.SnapshotRefreshAfterSpawn {
		return
	}
	refreshed := *current
	refreshed.SnapshotRefreshed = true
	if i.record.CompareAndSwap(current, &refreshed) {
		i.logger.Debug().Str("creature", current.Name).Msg("post-spawn refresh")
		i.data.Refresh(ctx)
	}
}

// Investigate handles the newest evidence. It returns false when another
// investigation holds the slot.
func (i *Investigator) Investigate(ctx context.Context, mode domain.BotMode, chatHint string) bool {
	if !i.slot.TryAcquire(1) {
		return false
	}
	defer i.slot.Release(1)

	evidence, found, err := i.source.LatestSpawn(ctx)
	if err != nil {
		i.logger.Warn().Err(err).Msg("latest spawn unavailable")
		found = false
	}

	if err := i.waitForDex(ctx); err != nil {
		return true
	}

	evidence, source, ok := i.accept(evidence, found, mode, chatHint)
	if !ok {
		return true
	}
	record := &domain.SpawnRecord{CreatureID: evidence.CreatureID, Source: source, ArrivedAt: evidence.At}
	i.record.Store(record)

	facts, err := i.data.Lookup(ctx, evidence.CreatureID)
	if err != nil {
		i.logger.Warn().Err(err).Int("creature_id", evidence.CreatureID).Msg("lookup failed, skipping spawn")
		return true
	}

	snapshot := i.data.Snapshot()
	settings := i.settings.Current()
	facts.PreviouslyCaught = snapshot.Captured.Has(facts.ID)
	facts.Tier = ResolveTier(facts, snapshot.Missions.Targets, settings)

	now := i.clock.Now()
	engage := mode == domain.ModeActive && !evidence.Stale(now)
	named, ok := i.updateRecord(record, func(r *domain.SpawnRecord) {
		r.Name = facts.Name
		r.Attempted = engage
	})
	if !ok {
		named = *record
		named.Name = facts.Name
		named.Attempted = engage
	}

	entry := domain.JournalEntry{
		CreatureID: facts.ID,
		Name:       facts.Name,
		Tier:       facts.Tier,
		Types:      facts.Types,
		Source:     source,
		ArrivedAt:  evidence.At,
	}
	i.logger.Info().
		Str("creature", facts.Name).
		Str("tier", string(facts.Tier)).
		Str("source", string(source)).
		Bool("engage", engage).
		Msg("spawn accepted")
	if i.presenter != nil {
		i.presenter.SpawnObserved(named, facts)
	}

	if engage {
		entry.Tool, entry.Engaged = i.engage(ctx, facts, snapshot, settings, evidence.At)
	}
	i.journalize(ctx, entry)
	return true
}

func (i *Investigator) accept(evidence domain.SpawnEvidence, found bool, mode domain.BotMode, chatHint string) (domain.SpawnEvidence, domain.SpawnSource, bool) {
	current := i.record.Load()
	if found && (current == nil || !evidence.At.Equal(current.ArrivedAt)) {
		if current.SameSpawn(evidence) {
			i.updateRecord(current, func(r *domain.SpawnRecord) {
				r.Source = domain.SpawnSourcePrimary
				r.ArrivedAt = evidence.At
			})
			i.logger.Debug().Int("creature_id", evidence.CreatureID).Msg("feed caught up with a chat spawn")
			return domain.SpawnEvidence{}, "", false
		}
		evidence.Primary = true
		return evidence, domain.SpawnSourcePrimary, true
	}
	if chatHint == "" || mode != domain.ModeActive {
		return domain.SpawnEvidence{}, "", false
	}

	now := i.clock.Now()
	if current != nil && now.Sub(current.ArrivedAt) < domain.SpawnEngageWindow {
		i.logger.Debug().Msg("chat prompt for a spawn already handled")
		return domain.SpawnEvidence{}, "", false
	}
	id, ok := domain.CreatureFromChat(chatHint, i.data.Snapshot().Dex)
	if !ok {
		i.logger.Info().Str("text", chatHint).Msg("no known creature in chat prompt")
		return domain.SpawnEvidence{}, "", false
	}
	return domain.SpawnEvidence{At: now, CreatureID: id}, domain.SpawnSourceChat, true
}

// updateRecord edits the tracked record while it still describes the same
// spawn as seen. A lost race with Routine is retried on the newer value.
func (i *Investigator) updateRecord(seen *domain.SpawnRecord, edit func(*domain.SpawnRecord)) (domain.SpawnRecord, bool) {
	for {
		current := i.record.Load()
		if current == nil || current.CreatureID != seen.CreatureID || !current.ArrivedAt.Equal(seen.ArrivedAt) {
			return domain.SpawnRecord{}, false
		}
		next := *current
		edit(&next)
		if i.record.CompareAndSwap(current, &next) {
			return next, true
		}
	}
}

func (i *Investigator) engage(ctx context.Context, facts domain.CreatureFacts, snapshot domain.GameSnapshot, settings domain.CatchSettings, arrival time.Time) (domain.Tool, bool) {
	choice, ok := i.decisions.Choose(ctx, domain.CaptureContext{
		Creature:       facts,
		Inventory:      snapshot.Inventory,
		CompanionTypes: snapshot.Captured.CompanionTypes,
		Settings:       settings,
	})
	if !ok {
		return "", false
	}
	if err := i.thrower.Throw(ctx, choice.Tool, arrival); err != nil {
		i.logger.Warn().Err(err).Str("tool", string(choice.Tool)).Msg("throw failed")
		return choice.Tool, false
	}
	return choice.Tool, true
}

func (i *Investigator) journalize(ctx context.Context, entry domain.JournalEntry) {
	if i.journal == nil {
		return
	}
	entry.RecordedAt = i.clock.Now()
	if err := i.journal.Record(ctx, entry); err != nil {
		i.logger.Warn().Err(err).Msg("journal spawn")
	}
}

func (i *Investigator) waitForDex(ctx context.Context) error {
	for poll := 0; poll < dexWaitPolls && i.data.Snapshot().Dex.Empty(); poll++ {
		if err := i.sleeper.Sleep(ctx, dexPollInterval); err != nil {
			return err
		}
	}
	return nil
}

// ResolveTier applies the mission override and the uncaptured prefix.
func ResolveTier(facts domain.CreatureFacts, targets []domain.MissionTarget, settings domain.CatchSettings) domain.Tier {
	tier := facts.Tier.Core()
	if tier != domain.TierS && domain.MatchesAnyMission(targets, facts) {
		tier = domain.TierMission
	}
	if !facts.PreviouslyCaught && !settings.TreatUncapturedAsCaptured {
		tier = tier.WithUncaptured()
	}
	return tier
}
