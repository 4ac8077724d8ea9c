package domain

import (
	"regexp"
	"strconv"
	"strings"
)

type MissionKind string

const (
	MissionTier           MissionKind = "tier"
	MissionBaseStatsOver  MissionKind = "bst_greater"
	MissionBaseStatsUnder MissionKind = "bst_lower"
	MissionWeightOver     MissionKind = "weight_greater"
	MissionWeightUnder    MissionKind = "weight_lower"
	MissionTypeCount      MissionKind = "type_count"
	MissionType           MissionKind = "type"
)

// MissionTarget is a predicate derived from an active catch mission.
type MissionTarget struct {
	Kind   MissionKind
	Tier   Tier
	Number int
	Type   string
}

var (
	missionTierPattern   = regexp.MustCompile(`tier\s+(\w)`)
	missionNumberPattern = regexp.MustCompile(`\d+`)
	missionWeightPattern = regexp.MustCompile(`(\d+)\s*kg`)
)

// ParseMissionTargets keeps the unfinished catch missions that map to a
// creature predicate.
func ParseMissionTargets(missions []Mission) []MissionTarget {
	targets := make([]MissionTarget, 0, len(missions))
	for _, mission := range missions {
		name := strings.ToLower(mission.Name)
		if !strings.Contains(name, "catch") || strings.Contains(name, "miss") || mission.Progress >= mission.Goal {
			continue
		}
		if target, ok := parseMissionTarget(name); ok {
			targets = append(targets, target)
		}
	}
	return targets
}

func parseMissionTarget(name string) (MissionTarget, bool) {
	if strings.Contains(name, "tier") {
		if match := missionTierPattern.FindStringSubmatch(name); match != nil {
			return MissionTarget{Kind: MissionTier, Tier: Tier(strings.ToUpper(match[1]))}, true
		}
	}

	if strings.Contains(name, "bst") {
		if numbers := missionNumberPattern.FindAllString(name, -1); len(numbers) > 0 {
			value, _ := strconv.Atoi(numbers[len(numbers)-1])
			switch {
			case strings.Contains(name, "greater") || strings.Contains(name, "higher"):
				return MissionTarget{Kind: MissionBaseStatsOver, Number: value}, true
			case strings.Contains(name, "lower"):
				return MissionTarget{Kind: MissionBaseStatsUnder, Number: value}, true
			}
		}
	}

	if match := missionWeightPattern.FindStringSubmatch(name); match != nil {
		value, _ := strconv.Atoi(match[1])
		switch {
		case strings.Contains(name, "more than") || strings.Contains(name, "heavier"):
			return MissionTarget{Kind: MissionWeightOver, Number: value}, true
		case strings.Contains(name, "less than") || strings.Contains(name, "lower"):
			return MissionTarget{Kind: MissionWeightUnder, Number: value}, true
		}
	}

	if strings.Contains(name, "type") {
		switch {
		case strings.Contains(name, "mono"):
			return MissionTarget{Kind: MissionTypeCount, Number: 1}, true
		case strings.Contains(name, "dual"):
			return MissionTarget{Kind: MissionTypeCount, Number: 2}, true
		}
	}

	for _, creatureType := range CreatureTypes {
		if strings.Contains(name, creatureType) {
			return MissionTarget{Kind: MissionType, Type: creatureType}, true
		}
	}

	return MissionTarget{}, false
}

func (m MissionTarget) Matches(creature CreatureFacts) bool {
	switch m.Kind {
	case MissionTier:
		return creature.Tier.Core() == m.Tier
	case MissionBaseStatsOver:
		return creature.BaseStats > m.Number
	case MissionBaseStatsUnder:
		return creature.BaseStats < m.Number
	case MissionWeightOver:
		return creature.Weight > float64(m.Number)
	case MissionWeightUnder:
		return creature.Weight < float64(m.Number)
	case MissionTypeCount:
		return len(creature.Types) == m.Number
	case MissionType:
		return creature.HasType(m.Type)
	default:
		return false
	}
}

func MatchesAnyMission(targets []MissionTarget, creature CreatureFacts) bool {
	for _, target := range targets {
		if target.Matches(creature) {
			return true
		}
	}
	return false
}
