package domain

import "time"

const (
	// SpawnCycle is the time between two game spawns.
	SpawnCycle = 15 * time.Minute
	// SpawnEngageWindow bounds how old primary evidence may be when engaged.
	SpawnEngageWindow = 90 * time.Second
	// SnapshotRefreshAfterSpawn is when the post-spawn data refresh fires.
	SnapshotRefreshAfterSpawn = 100 * time.Second
)

type SpawnSource string

const (
	SpawnSourcePrimary SpawnSource = "primary"
	SpawnSourceChat    SpawnSource = "chat"
)

type SpawnEvidence struct {
	At         time.Time
	Primary    bool
	CreatureID int
}

func (e SpawnEvidence) Stale(now time.Time) bool {
	return e.Primary && now.Sub(e.At) >= SpawnEngageWindow
}

// SpawnRecord tracks the latest accepted spawn. It is replaced, never edited
// in place by readers.
type SpawnRecord struct {
	CreatureID        int
	Name              string
	Source            SpawnSource
	ArrivedAt         time.Time
	Attempted         bool
	SnapshotRefreshed bool
}

// SameSpawn reports whether primary evidence describes the spawn this
// chat-sourced record was built from. The feed lags chat and carries the
// server timestamp, so arrival times only need to be close.
func (r *SpawnRecord) SameSpawn(evidence SpawnEvidence) bool {
	if r == nil || r.Source != SpawnSourceChat || r.CreatureID != evidence.CreatureID {
		return false
	}
	gap := evidence.At.Sub(r.ArrivedAt)
	if gap < 0 {
		gap = -gap
	}
	return gap < SpawnEngageWindow
}

func (r *SpawnRecord) CycleDue(now time.Time) bool {
	return r == nil || !now.Before(r.ArrivedAt.Add(SpawnCycle))
}

type JournalEntry struct {
	ID         int64
	CreatureID int
	Name       string
	Tier       Tier
	Types      []string
	Source     SpawnSource
	ArrivedAt  time.Time
	Tool       Tool
	Engaged    bool
	RecordedAt time.Time
}
