package domain

import "strings"

type Tier string

const (
	TierS       Tier = "S"
	TierA       Tier = "A"
	TierB       Tier = "B"
	TierC       Tier = "C"
	TierMission Tier = "M"

	uncapturedPrefix = "uncapt_"
)

// Core strips the uncaptured prefix.
func (t Tier) Core() Tier {
	return Tier(strings.TrimPrefix(string(t), uncapturedPrefix))
}

func (t Tier) Uncaptured() bool {
	return strings.HasPrefix(string(t), uncapturedPrefix)
}

func (t Tier) WithUncaptured() Tier {
	if t.Uncaptured() {
		return t
	}
	return Tier(uncapturedPrefix + string(t))
}

func (t Tier) Valid() bool {
	switch t.Core() {
	case TierS, TierA, TierB, TierC, TierMission:
		return true
	default:
		return false
	}
}

// AllTiers lists every tier key a catch settings tree may configure.
func AllTiers() []Tier {
	base := []Tier{TierS, TierA, TierB, TierC, TierMission}
	tiers := make([]Tier, 0, len(base)*2)
	for _, tier := range base {
		tiers = append(tiers, tier, tier.WithUncaptured())
	}
	return tiers
}

type CreatureFacts struct {
	ID               int
	Name             string
	Weight           float64
	Types            []string
	Tier             Tier
	BaseStats        int
	HP               int
	Speed            int
	PreviouslyCaught bool
}

func (c CreatureFacts) HasType(creatureType string) bool {
	for _, t := range c.Types {
		if t == creatureType {
			return true
		}
	}
	return false
}

func (c CreatureFacts) HasAnyType(types ...string) bool {
	for _, t := range types {
		if c.HasType(t) {
			return true
		}
	}
	return false
}

// NormalizeTypes lowercases, drops the "none" placeholder and removes duplicates.
func NormalizeTypes(raw ...string) []string {
	types := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" || value == "none" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		types = append(types, value)
	}
	return types
}

// CreatureTypes is every elemental type the game knows.
var CreatureTypes = []string{
	"normal", "fighting", "rock", "fire", "poison", "ghost", "water", "ground", "dragon",
	"grass", "flying", "dark", "electric", "psychic", "ice", "bug", "fairy", "steel",
}
