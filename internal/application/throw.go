package application

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
)

type Thrower struct {
	chat    ports.ChatSender
	clock   ports.Clock
	sleeper ports.Sleeper
	rnd     func(n int64) int64
	logger  zerolog.Logger
}

func NewThrower(chat ports.ChatSender, clock ports.Clock, sleeper ports.Sleeper, rnd func(n int64) int64, logger zerolog.Logger) *Thrower {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if sleeper == nil {
		sleeper = ports.SystemSleeper{}
	}
	if rnd == nil {
		rnd = rand.Int64N
	}
	return &Thrower{
		chat:    chat,
		clock:   clock,
		sleeper: sleeper,
		rnd:     rnd,
		logger:  logger.With().Str("component", "throw").Logger(),
	}
}

// Throw waits out the tool's timing policy and sends the catch command.
func (t *Thrower) Throw(ctx context.Context, tool domain.Tool, arrival time.Time) error {
	delay := domain.ThrowDelay(tool, arrival, t.clock.Now(), t.rnd)
	t.logger.Info().Str("tool", string(tool)).Dur("delay", delay).Msg("throw scheduled")

	if err := t.sleeper.Sleep(ctx, delay); err != nil {
		return fmt.Errorf("wait for throw: %w", err)
	}
	if err := t.chat.Send(ctx, domain.CatchCommand(tool)); err != nil {
		return fmt.Errorf("send catch command: %w", err)
	}
	return nil
}
