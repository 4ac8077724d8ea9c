package application

import (
	"context"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/rs/zerolog"
)

type DecisionEngine struct {
	purchaser *Purchaser
	logger    zerolog.Logger
}

func NewDecisionEngine(purchaser *Purchaser, logger zerolog.Logger) *DecisionEngine {
	return &DecisionEngine{
		purchaser: purchaser,
		logger:    logger.With().Str("component", "decision").Logger(),
	}
}

// Choose returns the tool to throw. A failed purchase of the winner falls
// back to the runner-up once; false means decline to engage.
func (e *DecisionEngine) Choose(ctx context.Context, c domain.CaptureContext) (domain.ToolCandidate, bool) {
	ranked := domain.RankCandidates(c)
	if len(ranked) == 0 {
		e.logger.Info().Str("creature", c.Creature.Name).Str("tier", string(c.Creature.Tier)).Msg("no tool available")
		return domain.ToolCandidate{}, false
	}

	for i, candidate := range ranked {
		if i > 1 {
			break
		}
		if e.acquire(ctx, candidate, c) {
			e.logger.Info().
				Str("creature", c.Creature.Name).
				Str("tool", string(candidate.Tool)).
				Int("score", candidate.Score).
				Str("source", string(candidate.Source)).
				Msg("tool chosen")
			return candidate, true
		}
		e.logger.Info().Str("tool", string(candidate.Tool)).Msg("purchase failed, trying next candidate")
	}
	return domain.ToolCandidate{}, false
}

func (e *DecisionEngine) acquire(ctx context.Context, candidate domain.ToolCandidate, c domain.CaptureContext) bool {
	if candidate.Source != domain.SourceShop {
		return true
	}
	if e.purchaser == nil {
		return false
	}
	return e.purchaser.Purchase(ctx, candidate.Tool, c.Inventory.Cash, c.Settings)
}
