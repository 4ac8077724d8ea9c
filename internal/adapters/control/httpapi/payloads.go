package httpapi

import (
	"fmt"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
)

type statusResponse struct {
	Status             domain.ConnectionStatus `json:"status"`
	Mode               domain.BotMode          `json:"mode"`
	LastTimeoutAt      *time.Time              `json:"last_timeout_at,omitempty"`
	LastSessionErrorAt *time.Time              `json:"last_session_error_at,omitempty"`
}

type itemPayload struct {
	Name     string      `json:"name"`
	Tool     domain.Tool `json:"tool,omitempty"`
	Quantity int         `json:"quantity"`
}

type missionPayload struct {
	Name     string `json:"name"`
	Goal     int    `json:"goal"`
	Progress int    `json:"progress"`
}

type snapshotResponse struct {
	Version        uint64           `json:"version"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
	Cash           int              `json:"cash"`
	Items          []itemPayload    `json:"items"`
	CaughtTotal    int              `json:"caught_total"`
	CaughtUnique   int              `json:"caught_unique"`
	ShinyCount     int              `json:"shiny_count"`
	CompanionTypes []string         `json:"companion_types"`
	MissionsEnd    string           `json:"missions_end,omitempty"`
	Missions       []missionPayload `json:"missions"`
	DexProgress    int              `json:"dex_progress"`
	DexTotal       int              `json:"dex_total"`
}

type spawnResponse struct {
	CreatureID        int       `json:"creature_id"`
	Name              string    `json:"name"`
	ArrivedAt         time.Time `json:"arrived_at"`
	Attempted         bool      `json:"attempted"`
	SnapshotRefreshed bool      `json:"snapshot_refreshed"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type shopPayload struct {
	BuyOnMissing bool `json:"buy_on_missing"`
	BuyOne       int  `json:"buy_one"`
	BuyTen       int  `json:"buy_ten"`
}

type statsPayload struct {
	Heavy   int `json:"heavy_ball"`
	Feather int `json:"feather_ball"`
	Heal    int `json:"heal_ball"`
	Fast    int `json:"fast_ball"`
}

type settingsPayload struct {
	Channel                   string                 `json:"channel"`
	TreatUncapturedAsCaptured bool                   `json:"treat_uncaptured_as_captured"`
	Tiers                     map[string][]string    `json:"tiers"`
	Shop                      map[string]shopPayload `json:"shop"`
	Stats                     statsPayload           `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newStatusResponse(state domain.SessionState) statusResponse {
	return statusResponse{
		Status:             state.Status,
		Mode:               state.Mode,
		LastTimeoutAt:      optionalTime(state.LastTimeoutAt),
		LastSessionErrorAt: optionalTime(state.LastSessionErrorAt),
	}
}

func newSnapshotResponse(snapshot domain.GameSnapshot) snapshotResponse {
	resp := snapshotResponse{
		Version:        snapshot.Version,
		UpdatedAt:      optionalTime(snapshot.UpdatedAt),
		Cash:           snapshot.Inventory.Cash,
		Items:          make([]itemPayload, 0, len(snapshot.Inventory.Items)),
		CaughtTotal:    snapshot.Captured.TotalCount,
		CaughtUnique:   len(snapshot.Captured.UniqueIDs),
		ShinyCount:     snapshot.Captured.ShinyCount,
		CompanionTypes: append([]string{}, snapshot.Captured.CompanionTypes...),
		MissionsEnd:    snapshot.Missions.EndDate,
		Missions:       make([]missionPayload, 0, len(snapshot.Missions.Active)),
		DexProgress:    snapshot.Dex.TotalProgress,
		DexTotal:       snapshot.Dex.TotalCount,
	}
	for _, item := range snapshot.Inventory.Items {
		resp.Items = append(resp.Items, itemPayload(item))
	}
	for _, mission := range snapshot.Missions.Active {
		resp.Missions = append(resp.Missions, missionPayload(mission))
	}
	return resp
}

func newSpawnResponse(record domain.SpawnRecord) spawnResponse {
	return spawnResponse{
		CreatureID:        record.CreatureID,
		Name:              record.Name,
		ArrivedAt:         record.ArrivedAt,
		Attempted:         record.Attempted,
		SnapshotRefreshed: record.SnapshotRefreshed,
	}
}

func newSettingsPayload(settings domain.CatchSettings) settingsPayload {
	payload := settingsPayload{
		Channel:                   settings.Channel,
		TreatUncapturedAsCaptured: settings.TreatUncapturedAsCaptured,
		Tiers:                     make(map[string][]string, len(settings.Tiers)),
		Shop:                      make(map[string]shopPayload, len(settings.Shop)),
		Stats: statsPayload{
			Heavy:   settings.Stats.Heavy,
			Feather: settings.Stats.Feather,
			Heal:    settings.Stats.Heal,
			Fast:    settings.Stats.Fast,
		},
	}
	for tier, tools := range settings.Tiers {
		names := make([]string, 0, len(tools))
		for _, tool := range tools {
			names = append(names, string(tool))
		}
		payload.Tiers[string(tier)] = names
	}
	for tool, rule := range settings.Shop {
		payload.Shop[string(tool)] = shopPayload(rule)
	}
	return payload
}

// toDomain fills tiers and shop rules that the payload leaves out from base.
func (p settingsPayload) toDomain(base domain.CatchSettings) (domain.CatchSettings, error) {
	settings := domain.CatchSettings{
		Channel:                   p.Channel,
		TreatUncapturedAsCaptured: p.TreatUncapturedAsCaptured,
		Tiers:                     make(map[domain.Tier][]domain.Tool, len(base.Tiers)),
		Shop:                      make(map[domain.Tool]domain.ShopRule, len(base.Shop)),
		Stats: domain.StatThresholds{
			Heavy:   p.Stats.Heavy,
			Feather: p.Stats.Feather,
			Heal:    p.Stats.Heal,
			Fast:    p.Stats.Fast,
		},
	}
	if settings.Channel == "" {
		settings.Channel = base.Channel
	}
	if p.Stats == (statsPayload{}) {
		settings.Stats = base.Stats
	}
	for tier, tools := range base.Tiers {
		settings.Tiers[tier] = tools
	}
	for tool, rule := range base.Shop {
		settings.Shop[tool] = rule
	}

	for rawTier, rawTools := range p.Tiers {
		tier := domain.Tier(rawTier)
		if !tier.Valid() {
			return domain.CatchSettings{}, fmt.Errorf("%w: unknown tier %q", domain.ErrInvalidSettings, rawTier)
		}
		tools := make([]domain.Tool, 0, len(rawTools))
		for _, raw := range rawTools {
			tool, err := domain.ParseTool(raw)
			if err != nil {
				return domain.CatchSettings{}, fmt.Errorf("%w: tier %s: %w", domain.ErrInvalidSettings, rawTier, err)
			}
			tools = append(tools, tool)
		}
		settings.Tiers[tier] = tools
	}
	for rawTool, rule := range p.Shop {
		tool, err := domain.ParseTool(rawTool)
		if err != nil {
			return domain.CatchSettings{}, fmt.Errorf("%w: shop: %w", domain.ErrInvalidSettings, err)
		}
		settings.Shop[tool] = domain.ShopRule(rule)
	}
	return settings, nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
