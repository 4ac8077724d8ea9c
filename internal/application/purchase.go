package application

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
)

const (
	purchaseDelayMin    = 5 * time.Second
	purchaseDelaySpread = 5 * time.Second
	purchaseCooldown    = 6 * time.Second
)

// Purchaser issues shop commands with a human-paced delay.
type Purchaser struct {
	chat    ports.ChatSender
	sleeper ports.Sleeper
	rnd     func(n int64) int64
	logger  zerolog.Logger
}

func NewPurchaser(chat ports.ChatSender, sleeper ports.Sleeper, rnd func(n int64) int64, logger zerolog.Logger) *Purchaser {
	if sleeper == nil {
		sleeper = ports.SystemSleeper{}
	}
	if rnd == nil {
		rnd = rand.Int64N
	}
	return &Purchaser{
		chat:    chat,
		sleeper: sleeper,
		rnd:     rnd,
		logger:  logger.With().Str("component", "purchase").Logger(),
	}
}

// Purchase reports whether a shop command went out and the cooldown passed.
func (p *Purchaser) Purchase(ctx context.Context, tool domain.Tool, cash int, settings domain.CatchSettings) bool {
	rule, ok := settings.ShopRuleFor(tool)
	if !ok || !rule.BuyOnMissing {
		p.logger.Debug().Str("tool", string(tool)).Msg("auto purchase disabled")
		return false
	}

	delay := purchaseDelayMin + time.Duration(p.rnd(int64(purchaseDelaySpread/time.Millisecond)+1))*time.Millisecond
	if err := p.sleeper.Sleep(ctx, delay); err != nil {
		return false
	}

	var command string
	switch {
	case cash > rule.BuyTen:
		command = domain.ShopCommand(tool, true)
	case cash > rule.BuyOne:
		command = domain.ShopCommand(tool, false)
	default:
		p.logger.Info().Str("tool", string(tool)).Int("cash", cash).Msg("not enough cash to purchase")
		return false
	}

	if err := p.chat.Send(ctx, command); err != nil {
		p.logger.Warn().Err(err).Str("command", command).Msg("purchase failed")
		return false
	}
	p.logger.Info().Str("command", command).Msg("purchase sent")

	return p.sleeper.Sleep(ctx, purchaseCooldown) == nil
}
