package ports

import (
	"context"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

type RequestSigner interface {
	Sign(subjectID, fullURL, token string) (map[string]string, error)
}

// SpawnSource is the low-latency primary evidence channel.
type SpawnSource interface {
	LatestSpawn(ctx context.Context) (domain.SpawnEvidence, bool, error)
}

type CreatureLookup interface {
	Lookup(ctx context.Context, id int) (domain.CreatureFacts, error)
}

type SnapshotReader interface {
	Snapshot() domain.GameSnapshot
}

type DataRefresher interface {
	Refresh(ctx context.Context) bool
}
