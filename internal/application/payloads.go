package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

const (
	pathCaptured  = "pokemon/v2/"
	pathInventory = "inventory/v3/"
	pathMissions  = "mission/v2/"
	pathDex       = "pokedex/v2/"
	pathCreature  = "pokedex/info/v2/?pokedex_id=%d"
)

var categoryPaths = map[domain.SnapshotCategory]string{
	domain.CategoryCaptured:  pathCaptured,
	domain.CategoryInventory: pathInventory,
	domain.CategoryMissions:  pathMissions,
	domain.CategoryDex:       pathDex,
}

// CategoryForURL maps an observed game API URL to the snapshot category its
// body belongs to.
func CategoryForURL(url string) (domain.SnapshotCategory, bool) {
	for _, category := range domain.SnapshotCategories {
		if strings.Contains(url, strings.TrimSuffix(categoryPaths[category], "/")) {
			return category, true
		}
	}
	return "", false
}

type capturedPayload struct {
	AllPokemon []struct {
		PokedexID int     `json:"pokedexId"`
		Name      string  `json:"name"`
		IsShiny   bool    `json:"isShiny"`
		IsBuddy   bool    `json:"isBuddy"`
		Tier      string  `json:"tier"`
		Weight    float64 `json:"weight"`
		Type1     string  `json:"type1"`
		Type2     string  `json:"type2"`
		BaseStats int     `json:"baseStats"`
		HP        int     `json:"hp"`
		Speed     int     `json:"speed"`
	} `json:"allPokemon"`
}

type inventoryPayload struct {
	Cash     *int `json:"cash"`
	AllItems []struct {
		Name       string `json:"name"`
		Amount     int    `json:"amount"`
		SpriteName string `json:"sprite_name"`
	} `json:"allItems"`
}

type missionsPayload struct {
	EndDate  string `json:"endDate"`
	Missions []struct {
		Name     string `json:"name"`
		Goal     int    `json:"goal"`
		Progress int    `json:"progress"`
	} `json:"missions"`
}

type dexPayload struct {
	Dex []struct {
		Name      string `json:"name"`
		PokedexID int    `json:"pokedexId"`
	} `json:"dex"`
	TotalPkm          int `json:"totalPkm"`
	Progress          int `json:"progress"`
	CatchablePkm      int `json:"catchablePkm"`
	CatchableProgress int `json:"catchableProgress"`
}

type creaturePayload struct {
	Content *struct {
		PokedexID int            `json:"pokedex_id"`
		Name      string         `json:"name"`
		Weight    float64        `json:"weight"`
		Type1     string         `json:"type1"`
		Type2     string         `json:"type2"`
		Tier      string         `json:"tier"`
		BaseStats map[string]int `json:"base_stats"`
	} `json:"content"`
}

var errMissingField = errors.New("missing field")

type lookupFunc func(ctx context.Context, id int) (domain.CreatureFacts, error)

// decodeCaptured resolves companion types through lookup; a failed companion
// lookup leaves the types empty.
func decodeCaptured(ctx context.Context, body []byte, lookup lookupFunc) (domain.Captured, error) {
	var payload capturedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Captured{}, fmt.Errorf("decode captured: %w", err)
	}
	if payload.AllPokemon == nil {
		return domain.Captured{}, fmt.Errorf("decode captured: %w: allPokemon", errMissingField)
	}

	captured := domain.Captured{
		TotalCount: len(payload.AllPokemon),
		Entries:    make([]domain.CapturedEntry, 0, len(payload.AllPokemon)),
	}
	seen := make(map[int]struct{}, len(payload.AllPokemon))
	companion := 0
	for _, raw := range payload.AllPokemon {
		if _, ok := seen[raw.PokedexID]; !ok {
			seen[raw.PokedexID] = struct{}{}
			captured.UniqueIDs = append(captured.UniqueIDs, raw.PokedexID)
		}
		if raw.IsShiny {
			captured.ShinyCount++
		}
		if raw.IsBuddy {
			companion = raw.PokedexID
		}
		captured.Entries = append(captured.Entries, domain.CapturedEntry{
			DexID:     raw.PokedexID,
			Name:      raw.Name,
			Weight:    raw.Weight,
			Type1:     raw.Type1,
			Type2:     raw.Type2,
			Tier:      domain.Tier(strings.ToUpper(strings.TrimSpace(raw.Tier))),
			BaseStats: raw.BaseStats,
			HP:        raw.HP,
			Speed:     raw.Speed,
			Shiny:     raw.IsShiny,
			Companion: raw.IsBuddy,
		})
	}

	if companion != 0 && lookup != nil {
		facts, ok := captured.Lookup(companion)
		if !ok {
			var err error
			facts, err = lookup(ctx, companion)
			ok = err == nil
		}
		if ok {
			captured.CompanionTypes = facts.Types
		}
	}
	return captured, nil
}

func decodeInventory(body []byte) (domain.Inventory, error) {
	var payload inventoryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Inventory{}, fmt.Errorf("decode inventory: %w", err)
	}
	if payload.Cash == nil {
		return domain.Inventory{}, fmt.Errorf("decode inventory: %w: cash", errMissingField)
	}

	inventory := domain.Inventory{Cash: *payload.Cash, Items: make([]domain.InventoryItem, 0, len(payload.AllItems))}
	for _, item := range payload.AllItems {
		sprite := item.SpriteName
		if sprite == "" {
			sprite = item.Name
		}
		inventory.Items = append(inventory.Items, domain.InventoryItem{
			Name:     item.Name,
			Tool:     domain.Tool(sprite),
			Quantity: item.Amount,
		})
	}
	return inventory, nil
}

func decodeMissions(body []byte) (domain.Missions, error) {
	var payload missionsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Missions{}, fmt.Errorf("decode missions: %w", err)
	}
	if payload.Missions == nil {
		return domain.Missions{}, fmt.Errorf("decode missions: %w: missions", errMissingField)
	}

	missions := domain.Missions{EndDate: payload.EndDate, Active: make([]domain.Mission, 0, len(payload.Missions))}
	for _, mission := range payload.Missions {
		missions.Active = append(missions.Active, domain.Mission{Name: mission.Name, Goal: mission.Goal, Progress: mission.Progress})
	}
	missions.Targets = domain.ParseMissionTargets(missions.Active)
	return missions, nil
}

func decodeDex(body []byte) (domain.Dex, error) {
	var payload dexPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Dex{}, fmt.Errorf("decode dex: %w", err)
	}
	if payload.Dex == nil {
		return domain.Dex{}, fmt.Errorf("decode dex: %w: dex", errMissingField)
	}

	dex := domain.Dex{
		Entries:       make([]domain.DexEntry, 0, len(payload.Dex)),
		TotalCount:    payload.TotalPkm,
		TotalProgress: payload.Progress,
		SpawnCount:    payload.CatchablePkm,
		SpawnProgress: payload.CatchableProgress,
	}
	for _, entry := range payload.Dex {
		dex.Entries = append(dex.Entries, domain.DexEntry{Name: entry.Name, ID: entry.PokedexID})
	}
	return dex, nil
}

func decodeCreature(body []byte) (domain.CreatureFacts, error) {
	var payload creaturePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.CreatureFacts{}, fmt.Errorf("decode creature: %w", err)
	}
	content := payload.Content
	if content == nil {
		return domain.CreatureFacts{}, fmt.Errorf("decode creature: %w: content", errMissingField)
	}
	tier := domain.Tier(strings.ToUpper(strings.TrimSpace(content.Tier)))
	if !tier.Valid() {
		return domain.CreatureFacts{}, fmt.Errorf("decode creature: unknown tier %q", content.Tier)
	}

	total := 0
	for _, value := range content.BaseStats {
		total += value
	}
	return domain.CreatureFacts{
		ID:        content.PokedexID,
		Name:      content.Name,
		Weight:    content.Weight,
		Types:     domain.NormalizeTypes(content.Type1, content.Type2),
		Tier:      tier,
		BaseStats: total,
		HP:        content.BaseStats["hp"],
		Speed:     content.BaseStats["speed"],
	}, nil
}
