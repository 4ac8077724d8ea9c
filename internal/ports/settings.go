package ports

import (
	"context"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

type SettingsProvider interface {
	Current() domain.CatchSettings
}

type SettingsRepository interface {
	Load(ctx context.Context) (domain.CatchSettings, error)
	Save(ctx context.Context, settings domain.CatchSettings) error
}
