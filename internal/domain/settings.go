package domain

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultChannel = "deemonrider"

type ShopRule struct {
	BuyOnMissing bool
	BuyOne       int
	BuyTen       int
}

// StatThresholds configure the weight and stat affinity tools.
type StatThresholds struct {
	Heavy   int
	Feather int
	Heal    int
	Fast    int
}

// CatchSettings is the validated operator configuration read by the core.
type CatchSettings struct {
	Channel                   string
	TreatUncapturedAsCaptured bool
	Tiers                     map[Tier][]Tool
	Shop                      map[Tool]ShopRule
	Stats                     StatThresholds
}

type shopLimits struct {
	minOne int
	minTen int
}

var shopMinimums = map[Tool]shopLimits{
	ToolPoke:  {minOne: 300, minTen: 3000},
	ToolGreat: {minOne: 600, minTen: 6000},
	ToolUltra: {minOne: 1000, minTen: 10000},
}

func DefaultCatchSettings() CatchSettings {
	everything := append([]Tool(nil), KnownTools...)
	highValue := []Tool{
		ToolUltra, ToolGreat, ToolTimer, ToolQuick, ToolLevel, ToolLure, ToolMoon, ToolFriend, ToolLove,
		ToolFast, ToolHeavy, ToolNet, ToolDive, ToolNest, ToolRepeat, ToolDusk, ToolLuxury, ToolPremier,
	}
	mediumValue := []Tool{ToolGreat, ToolTimer, ToolQuick, ToolNet, ToolDive, ToolDusk, ToolNest, ToolRepeat}
	lowValue := []Tool{ToolPoke, ToolGreat, ToolPremier}
	mission := without(everything, ToolMaster)

	return CatchSettings{
		Channel: DefaultChannel,
		Tiers: map[Tier][]Tool{
			TierS:                        everything,
			TierS.WithUncaptured():       without(everything, ToolRepeat),
			TierA:                        highValue,
			TierA.WithUncaptured():       without(highValue, ToolRepeat),
			TierB:                        mediumValue,
			TierB.WithUncaptured():       append(without(mediumValue, ToolRepeat), ToolUltra),
			TierC:                        lowValue,
			TierC.WithUncaptured():       append(append([]Tool(nil), lowValue...), ToolTimer, ToolQuick),
			TierMission:                  mission,
			TierMission.WithUncaptured(): without(mission, ToolRepeat),
		},
		Shop: map[Tool]ShopRule{
			ToolPoke:  {BuyOnMissing: true, BuyOne: 300, BuyTen: 3000},
			ToolGreat: {BuyOnMissing: true, BuyOne: 600, BuyTen: 6000},
			ToolUltra: {BuyOnMissing: true, BuyOne: 1000, BuyTen: 10000},
		},
		Stats: StatThresholds{Heavy: 200, Feather: 50, Heal: 100, Fast: 150},
	}
}

func without(tools []Tool, drop Tool) []Tool {
	kept := make([]Tool, 0, len(tools))
	for _, tool := range tools {
		if tool != drop {
			kept = append(kept, tool)
		}
	}
	return kept
}

// ToolsFor returns the configured tools for a tier, group aliases included.
func (s CatchSettings) ToolsFor(tier Tier) []Tool {
	return s.Tiers[tier]
}

func (s CatchSettings) ShopRuleFor(tool Tool) (ShopRule, bool) {
	rule, ok := s.Shop[tool]
	return rule, ok
}

// Validate rejects trees the core must never observe. Every problem found is
// reported.
func (s CatchSettings) Validate() error {
	var errs []error

	if strings.TrimSpace(s.Channel) == "" {
		errs = append(errs, errors.New("channel is empty"))
	}

	for tier, tools := range s.Tiers {
		if !tier.Valid() {
			errs = append(errs, fmt.Errorf("unknown tier %q", tier))
			continue
		}
		for _, tool := range tools {
			if !tool.Known() {
				errs = append(errs, fmt.Errorf("tier %s: unknown tool %q", tier, tool))
			}
		}
	}

	for tool, rule := range s.Shop {
		limits, ok := shopMinimums[tool]
		if !ok {
			errs = append(errs, fmt.Errorf("shop: %q is not sold", tool))
			continue
		}
		if rule.BuyOne < limits.minOne {
			errs = append(errs, fmt.Errorf("shop %s: buy_one must be at least %d", tool, limits.minOne))
		}
		if rule.BuyTen < limits.minTen {
			errs = append(errs, fmt.Errorf("shop %s: buy_ten must be at least %d", tool, limits.minTen))
		}
	}

	if s.Stats.Heavy < 100 {
		errs = append(errs, errors.New("stats heavy_ball must be at least 100"))
	}
	if s.Stats.Feather < 0 || s.Stats.Feather > 100 {
		errs = append(errs, errors.New("stats feather_ball must be between 0 and 100"))
	}
	if s.Stats.Heal < 100 {
		errs = append(errs, errors.New("stats heal_ball must be at least 100"))
	}
	if s.Stats.Fast < 100 {
		errs = append(errs, errors.New("stats fast_ball must be at least 100"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}
