package toml

import (
	"fmt"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

const currentSchemaVersion = 1

// fileSchema is the on-disk settings tree. Scalars are pointers so a
// partial file only overrides what it names.
type fileSchema struct {
	Version int                   `toml:"version"`
	Channel *string               `toml:"channel,omitempty"`
	Catch   catchSchema           `toml:"catch"`
	Tiers   map[string][]string   `toml:"tiers,omitempty"`
	Shop    map[string]shopSchema `toml:"shop,omitempty"`
	Stats   statsSchema           `toml:"stats"`
}

type catchSchema struct {
	TreatUncapturedAsCaptured *bool `toml:"treat_uncaptured_as_captured,omitempty"`
}

type shopSchema struct {
	BuyOnMissing bool `toml:"buy_on_missing"`
	BuyOne       int  `toml:"buy_one"`
	BuyTen       int  `toml:"buy_ten"`
}

type statsSchema struct {
	Heavy   *int `toml:"heavy_ball,omitempty"`
	Feather *int `toml:"feather_ball,omitempty"`
	Heal    *int `toml:"heal_ball,omitempty"`
	Fast    *int `toml:"fast_ball,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func toSchema(settings domain.CatchSettings) fileSchema {
	channel := settings.Channel
	treat := settings.TreatUncapturedAsCaptured
	heavy, feather, heal, fast := settings.Stats.Heavy, settings.Stats.Feather, settings.Stats.Heal, settings.Stats.Fast

	file := fileSchema{
		Version: currentSchemaVersion,
		Channel: &channel,
		Catch:   catchSchema{TreatUncapturedAsCaptured: &treat},
		Tiers:   make(map[string][]string, len(settings.Tiers)),
		Shop:    make(map[string]shopSchema, len(settings.Shop)),
		Stats:   statsSchema{Heavy: &heavy, Feather: &feather, Heal: &heal, Fast: &fast},
	}
	for tier, tools := range settings.Tiers {
		names := make([]string, 0, len(tools))
		for _, tool := range tools {
			names = append(names, string(tool))
		}
		file.Tiers[string(tier)] = names
	}
	for tool, rule := range settings.Shop {
		file.Shop[string(tool)] = shopSchema{BuyOnMissing: rule.BuyOnMissing, BuyOne: rule.BuyOne, BuyTen: rule.BuyTen}
	}
	return file
}

// overlay applies the file on top of base. Named tiers and shop rules
// replace the base entry for that key only.
func (s fileSchema) overlay(base domain.CatchSettings) domain.CatchSettings {
	out := base
	out.Tiers = make(map[domain.Tier][]domain.Tool, len(base.Tiers))
	for tier, tools := range base.Tiers {
		out.Tiers[tier] = tools
	}
	out.Shop = make(map[domain.Tool]domain.ShopRule, len(base.Shop))
	for tool, rule := range base.Shop {
		out.Shop[tool] = rule
	}

	if s.Channel != nil {
		out.Channel = *s.Channel
	}
	if s.Catch.TreatUncapturedAsCaptured != nil {
		out.TreatUncapturedAsCaptured = *s.Catch.TreatUncapturedAsCaptured
	}
	for tier, names := range s.Tiers {
		tools := make([]domain.Tool, 0, len(names))
		for _, name := range names {
			tools = append(tools, domain.Tool(name))
		}
		out.Tiers[domain.Tier(tier)] = tools
	}
	for tool, rule := range s.Shop {
		out.Shop[domain.Tool(tool)] = domain.ShopRule{BuyOnMissing: rule.BuyOnMissing, BuyOne: rule.BuyOne, BuyTen: rule.BuyTen}
	}
	setInt(&out.Stats.Heavy, s.Stats.Heavy)
	setInt(&out.Stats.Feather, s.Stats.Feather)
	setInt(&out.Stats.Heal, s.Stats.Heal)
	setInt(&out.Stats.Fast, s.Stats.Fast)
	return out
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
