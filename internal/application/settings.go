package application

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
)

// SettingsService holds the last valid catch settings. Readers get the
// value as a handle and never mutate it.
type SettingsService struct {
	repo    ports.SettingsRepository
	logger  zerolog.Logger
	current atomic.Pointer[domain.CatchSettings]
	channel chan string
}

var _ ports.SettingsProvider = (*SettingsService)(nil)

func NewSettingsService(repo ports.SettingsRepository, logger zerolog.Logger) *SettingsService {
	s := &SettingsService{
		repo:    repo,
		logger:  logger.With().Str("component", "settings").Logger(),
		channel: make(chan string, 1),
	}
	defaults := domain.DefaultCatchSettings()
	s.current.Store(&defaults)
	return s
}

// Load reads the stored settings. On error the defaults stay in effect.
func (s *SettingsService) Load(ctx context.Context) error {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	return s.Apply(settings)
}

func (s *SettingsService) Current() domain.CatchSettings {
	return *s.current.Load()
}

// ChannelChanges delivers the newest channel name after a change. Older
// undelivered names are replaced.
func (s *SettingsService) ChannelChanges() <-chan string {
	return s.channel
}

func (s *SettingsService) Update(ctx context.Context, settings domain.CatchSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.swap(settings)
	return nil
}

// Apply swaps in settings that are already persisted, such as a reload
// triggered by a file change.
func (s *SettingsService) Apply(settings domain.CatchSettings) error {
	if err := settings.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("keeping previous settings")
		return err
	}
	s.swap(settings)
	return nil
}

func (s *SettingsService) SetChannel(ctx context.Context, channel string) error {
	next := s.Current()
	next.Channel = channel
	return s.Update(ctx, next)
}

func (s *SettingsService) swap(settings domain.CatchSettings) {
	previous := s.current.Swap(&settings)
	s.logger.Info().Str("channel", settings.Channel).Msg("settings applied")
	if previous.Channel == settings.Channel {
		return
	}

	for {
		select {
		case s.channel <- settings.Channel:
			return
		default:
		}
		select {
		case <-s.channel:
		default:
		}
	}
}
