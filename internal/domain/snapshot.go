package domain

import "time"

type SnapshotCategory string

const (
	CategoryCaptured  SnapshotCategory = "captured"
	CategoryInventory SnapshotCategory = "inventory"
	CategoryMissions  SnapshotCategory = "missions"
	CategoryDex       SnapshotCategory = "dex"
)

// SnapshotCategories is the fetch order of a sync cycle.
var SnapshotCategories = []SnapshotCategory{CategoryCaptured, CategoryInventory, CategoryMissions, CategoryDex}

// GameSnapshot is committed as a whole value. Readers hold it as an
// immutable handle and never mutate it.
type GameSnapshot struct {
	Version   uint64
	UpdatedAt time.Time
	Captured  Captured
	Inventory Inventory
	Missions  Missions
	Dex       Dex
}

type Captured struct {
	TotalCount     int
	UniqueIDs      []int
	ShinyCount     int
	CompanionTypes []string
	Entries        []CapturedEntry
}

// CapturedEntry carries what the captured list says about one creature. It
// doubles as a local lookup cache when a tier is present.
type CapturedEntry struct {
	DexID     int
	Name      string
	Weight    float64
	Type1     string
	Type2     string
	Tier      Tier
	BaseStats int
	HP        int
	Speed     int
	Shiny     bool
	Companion bool
}

func (c Captured) Has(id int) bool {
	for _, captured := range c.UniqueIDs {
		if captured == id {
			return true
		}
	}
	return false
}

func (c Captured) Lookup(id int) (CreatureFacts, bool) {
	for _, entry := range c.Entries {
		if entry.DexID != id {
			continue
		}
		if entry.Tier == "" {
			return CreatureFacts{}, false
		}
		return CreatureFacts{
			ID:        entry.DexID,
			Name:      entry.Name,
			Weight:    entry.Weight,
			Types:     NormalizeTypes(entry.Type1, entry.Type2),
			Tier:      entry.Tier,
			BaseStats: entry.BaseStats,
			HP:        entry.HP,
			Speed:     entry.Speed,
		}, true
	}
	return CreatureFacts{}, false
}

type InventoryItem struct {
	Name     string
	Tool     Tool
	Quantity int
}

type Inventory struct {
	Cash  int
	Items []InventoryItem
}

func (i Inventory) Holds(tool Tool) bool {
	for _, item := range i.Items {
		if item.Tool == tool && item.Quantity > 0 {
			return true
		}
	}
	return false
}

type Mission struct {
	Name     string
	Goal     int
	Progress int
}

type Missions struct {
	EndDate string
	Active  []Mission
	Targets []MissionTarget
}

type DexEntry struct {
	Name string
	ID   int
}

type Dex struct {
	Entries       []DexEntry
	TotalCount    int
	TotalProgress int
	SpawnCount    int
	SpawnProgress int
}

func (d Dex) Empty() bool {
	return len(d.Entries) == 0
}
