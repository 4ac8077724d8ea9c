package ports

import (
	"context"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

type SpawnJournal interface {
	Record(ctx context.Context, entry domain.JournalEntry) error
	List(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}
