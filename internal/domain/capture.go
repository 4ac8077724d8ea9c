package domain

import "sort"

type ToolSource string

const (
	SourceInventory ToolSource = "inventory"
	SourceShop      ToolSource = "shop"
)

type ToolCandidate struct {
	Tool   Tool
	Score  int
	Source ToolSource
	Cost   int
}

// CaptureContext is everything the availability and scoring rules read.
type CaptureContext struct {
	Creature       CreatureFacts
	Inventory      Inventory
	CompanionTypes []string
	Settings       CatchSettings
}

const (
	poorCashFloor       = 300
	greatCashFloorTierC = 2000
	greatCashFloor      = 900
	ultraCashFloor      = 1500
)

// Availability decides whether a tool can be used for the creature and where
// it would come from.
func Availability(tool Tool, c CaptureContext) (ToolSource, bool) {
	core := c.Creature.Tier.Core()
	cash := c.Inventory.Cash

	if tool.Restricted() && core != TierS && core != TierA && core != TierB {
		return "", false
	}

	if core == TierC {
		switch tool {
		case ToolGreat:
			if cash < greatCashFloorTierC {
				return "", false
			}
		case ToolPoke, ToolPremier:
		default:
			return "", false
		}
	}

	if c.Inventory.Holds(tool) {
		return SourceInventory, true
	}
	if !tool.Purchasable() {
		return "", false
	}

	switch tool {
	case ToolPoke:
		if cash < poorCashFloor {
			return "", false
		}
	case ToolGreat:
		floor := greatCashFloor
		if core == TierC {
			floor = greatCashFloorTierC
		}
		if cash <= floor {
			return "", false
		}
	case ToolUltra:
		if core != TierS && core != TierA {
			return "", false
		}
		if cash <= ultraCashFloor {
			return "", false
		}
	}

	if _, ok := c.Settings.ShopRuleFor(tool); ok {
		return SourceShop, true
	}
	return "", false
}

func Score(tool Tool, c CaptureContext) int {
	creature := c.Creature
	stats := c.Settings.Stats

	affinity := func(high int, types ...string) int {
		if creature.HasAnyType(types...) {
			return high
		}
		return 30
	}

	switch tool {
	case ToolPoke, ToolPremier, ToolCherish:
		return 30
	case ToolGreat, ToolGreatCherish:
		return 55
	case ToolUltra, ToolUltraCherish:
		return 80
	case ToolMaster:
		return 1000
	case ToolHeavy:
		threshold := float64(thresholdOr(stats.Heavy, 200))
		switch {
		case creature.Weight > 2*threshold:
			return 80
		case creature.Weight > threshold:
			return 50
		default:
			return 20
		}
	case ToolFeather:
		threshold := float64(thresholdOr(stats.Feather, 50))
		switch {
		case creature.Weight < threshold:
			return 80
		case creature.Weight < 2*threshold:
			return 50
		default:
			return 20
		}
	case ToolNet:
		return affinity(70, "water", "bug")
	case ToolPhantom:
		return affinity(80, "ghost")
	case ToolNight:
		return affinity(80, "dark")
	case ToolFrozen:
		return affinity(80, "ice")
	case ToolCipher:
		return affinity(70, "poison", "psychic")
	case ToolMagnet:
		return affinity(80, "electric", "steel")
	case ToolFantasy:
		return affinity(80, "dragon", "fairy")
	case ToolGeo:
		return affinity(80, "rock", "ground")
	case ToolHeal:
		if creature.HP >= thresholdOr(stats.Heal, 100) {
			return 80
		}
		return 20
	case ToolFast:
		if creature.Speed > thresholdOr(stats.Fast, 150) {
			return 80
		}
		return 20
	case ToolQuick, ToolTimer:
		return 90
	case ToolRepeat:
		if creature.PreviouslyCaught {
			return 75
		}
		return 30
	case ToolFriend, ToolBuddy:
		return affinity(70, c.CompanionTypes...)
	case ToolLevel, ToolStone:
		return 50
	case ToolClone:
		if creature.Tier == TierS || creature.Tier == TierA {
			return 40
		}
		return 30
	default:
		return 0
	}
}

func thresholdOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

// RankCandidates expands the configured tools for the creature's tier, keeps
// the available ones and orders them best first.
func RankCandidates(c CaptureContext) []ToolCandidate {
	tools := ExpandTools(c.Settings.ToolsFor(c.Creature.Tier))
	candidates := make([]ToolCandidate, 0, len(tools))
	for _, tool := range tools {
		source, ok := Availability(tool, c)
		if !ok {
			continue
		}
		candidates = append(candidates, ToolCandidate{
			Tool:   tool,
			Score:  Score(tool, c),
			Source: source,
			Cost:   tool.Cost(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return rankedBefore(candidates[i], candidates[j])
	})

	return candidates
}

func rankedBefore(a, b ToolCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Source != b.Source {
		return a.Source == SourceInventory
	}
	return a.Cost > b.Cost
}
