package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureContext(tier Tier, cash int, held ...Tool) CaptureContext {
	items := make([]InventoryItem, 0, len(held))
	for _, tool := range held {
		items = append(items, InventoryItem{Name: tool.ChatName(), Tool: tool, Quantity: 3})
	}
	return CaptureContext{
		Creature:  CreatureFacts{ID: 7, Name: "Squirtle", Types: []string{"water"}, Tier: tier},
		Inventory: Inventory{Cash: cash, Items: items},
		Settings:  DefaultCatchSettings(),
	}
}

func TestAvailabilityNeverAllowsRestrictedToolsBelowTierB(t *testing.T) {
	tiers := []Tier{TierC, TierMission, TierC.WithUncaptured(), TierMission.WithUncaptured()}
	for _, tier := range tiers {
		for tool := range restrictedTools {
			t.Run(string(tier)+"/"+string(tool), func(t *testing.T) {
				c := captureContext(tier, 1_000_000, tool)
				_, ok := Availability(tool, c)
				assert.False(t, ok)
			})
		}
	}
}

func TestAvailabilityAllowsRestrictedToolsFromInventoryForHighTiers(t *testing.T) {
	for _, tier := range []Tier{TierS, TierA, TierB, TierB.WithUncaptured()} {
		c := captureContext(tier, 0, ToolTimer)
		source, ok := Availability(ToolTimer, c)
		require.True(t, ok, tier)
		assert.Equal(t, SourceInventory, source)
	}
}

func TestAvailabilityWithZeroCashOnlyUsesHeldTools(t *testing.T) {
	for _, tier := range AllTiers() {
		for _, tool := range KnownTools {
			c := captureContext(tier, 0)
			if source, ok := Availability(tool, c); ok {
				t.Fatalf("tier %s tool %s available from %s with no cash and empty inventory", tier, tool, source)
			}
		}
	}
}

func TestAvailabilityTierCRules(t *testing.T) {
	tests := []struct {
		name       string
		tool       Tool
		cash       int
		held       []Tool
		wantOK     bool
		wantSource ToolSource
	}{
		{name: "great below floor even when held", tool: ToolGreat, cash: 1999, held: []Tool{ToolGreat}, wantOK: false},
		{name: "great held above floor", tool: ToolGreat, cash: 2000, held: []Tool{ToolGreat}, wantOK: true, wantSource: SourceInventory},
		{name: "great bought needs more than floor", tool: ToolGreat, cash: 2000, wantOK: false},
		{name: "great bought", tool: ToolGreat, cash: 2001, wantOK: true, wantSource: SourceShop},
		{name: "poke bought", tool: ToolPoke, cash: 300, wantOK: true, wantSource: SourceShop},
		{name: "premier held", tool: ToolPremier, cash: 0, held: []Tool{ToolPremier}, wantOK: true, wantSource: SourceInventory},
		{name: "premier not sold", tool: ToolPremier, cash: 5000, wantOK: false},
		{name: "repeat disallowed", tool: ToolRepeat, cash: 5000, held: []Tool{ToolRepeat}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, ok := Availability(tt.tool, captureContext(TierC, tt.cash, tt.held...))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestAvailabilityUltraNeedsTopTierAndCash(t *testing.T) {
	_, ok := Availability(ToolUltra, captureContext(TierB, 5000))
	assert.False(t, ok)

	_, ok = Availability(ToolUltra, captureContext(TierA, 1500))
	assert.False(t, ok)

	source, ok := Availability(ToolUltra, captureContext(TierA.WithUncaptured(), 1501))
	require.True(t, ok)
	assert.Equal(t, SourceShop, source)
}

func TestAvailabilityRequiresShopRuleForPurchase(t *testing.T) {
	c := captureContext(TierA, 5000)
	delete(c.Settings.Shop, ToolGreat)

	_, ok := Availability(ToolGreat, c)
	assert.False(t, ok)
}

func TestAvailabilityOnlyBuysShopStock(t *testing.T) {
	for _, tool := range KnownTools {
		t.Run(string(tool), func(t *testing.T) {
			c := captureContext(TierS, 1_000_000)
			c.Settings.Shop = map[Tool]ShopRule{tool: {BuyOnMissing: true, BuyOne: 0, BuyTen: 100_000}}

			source, ok := Availability(tool, c)
			if !tool.Purchasable() {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, SourceShop, source)
		})
	}
}

func TestScoreTable(t *testing.T) {
	tests := []struct {
		name     string
		tool     Tool
		creature CreatureFacts
		want     int
	}{
		{name: "poke", tool: ToolPoke, want: 30},
		{name: "great", tool: ToolGreat, want: 55},
		{name: "ultra", tool: ToolUltra, want: 80},
		{name: "master", tool: ToolMaster, want: 1000},
		{name: "heavy very heavy", tool: ToolHeavy, creature: CreatureFacts{Weight: 401}, want: 80},
		{name: "heavy heavy", tool: ToolHeavy, creature: CreatureFacts{Weight: 201}, want: 50},
		{name: "heavy light", tool: ToolHeavy, creature: CreatureFacts{Weight: 200}, want: 20},
		{name: "feather light", tool: ToolFeather, creature: CreatureFacts{Weight: 49}, want: 80},
		{name: "feather medium", tool: ToolFeather, creature: CreatureFacts{Weight: 99}, want: 50},
		{name: "feather heavy", tool: ToolFeather, creature: CreatureFacts{Weight: 100}, want: 20},
		{name: "net water", tool: ToolNet, creature: CreatureFacts{Types: []string{"water"}}, want: 70},
		{name: "net fire", tool: ToolNet, creature: CreatureFacts{Types: []string{"fire"}}, want: 30},
		{name: "magnet steel", tool: ToolMagnet, creature: CreatureFacts{Types: []string{"rock", "steel"}}, want: 80},
		{name: "cipher psychic", tool: ToolCipher, creature: CreatureFacts{Types: []string{"psychic"}}, want: 70},
		{name: "heal at threshold", tool: ToolHeal, creature: CreatureFacts{HP: 100}, want: 80},
		{name: "heal below", tool: ToolHeal, creature: CreatureFacts{HP: 99}, want: 20},
		{name: "fast at threshold", tool: ToolFast, creature: CreatureFacts{Speed: 150}, want: 20},
		{name: "fast above", tool: ToolFast, creature: CreatureFacts{Speed: 151}, want: 80},
		{name: "quick", tool: ToolQuick, want: 90},
		{name: "timer", tool: ToolTimer, want: 90},
		{name: "repeat caught", tool: ToolRepeat, creature: CreatureFacts{PreviouslyCaught: true}, want: 75},
		{name: "repeat new", tool: ToolRepeat, want: 30},
		{name: "friend companion match", tool: ToolFriend, creature: CreatureFacts{Types: []string{"grass"}}, want: 70},
		{name: "buddy no match", tool: ToolBuddy, creature: CreatureFacts{Types: []string{"fire"}}, want: 30},
		{name: "clone tier S", tool: ToolClone, creature: CreatureFacts{Tier: TierS}, want: 40},
		{name: "clone uncaptured S", tool: ToolClone, creature: CreatureFacts{Tier: TierS.WithUncaptured()}, want: 30},
		{name: "level", tool: ToolLevel, want: 50},
		{name: "unknown", tool: ToolDusk, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CaptureContext{
				Creature:       tt.creature,
				CompanionTypes: []string{"grass", "poison"},
				Settings:       DefaultCatchSettings(),
			}
			assert.Equal(t, tt.want, Score(tt.tool, c))
		})
	}
}

func TestRankCandidatesOrdersByScoreSourceThenCostDescending(t *testing.T) {
	c := captureContext(TierA, 50_000, ToolPoke, ToolPremier, ToolQuick)
	c.Settings.Tiers[TierA] = []Tool{ToolPoke, ToolPremier, ToolGreat, GroupTimers}

	ranked := RankCandidates(c)
	require.Len(t, ranked, 4)

	assert.Equal(t, ToolCandidate{Tool: ToolQuick, Score: 90, Source: SourceInventory, Cost: 2000}, ranked[0])
	assert.Equal(t, ToolCandidate{Tool: ToolGreat, Score: 55, Source: SourceShop, Cost: 600}, ranked[1])
	assert.Equal(t, ToolPremier, ranked[2].Tool)
	assert.Equal(t, ToolPoke, ranked[3].Tool)
}

func TestRankedBeforePrefersInventoryOverCost(t *testing.T) {
	held := ToolCandidate{Tool: ToolPoke, Score: 55, Source: SourceInventory, Cost: 300}
	bought := ToolCandidate{Tool: ToolGreat, Score: 55, Source: SourceShop, Cost: 600}

	assert.True(t, rankedBefore(held, bought))
	assert.False(t, rankedBefore(bought, held))
}

func TestRankCandidatesIsDeterministic(t *testing.T) {
	c := captureContext(TierS, 50_000, ToolPremier, ToolCherish, ToolFriend, ToolNet)
	first := RankCandidates(c)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RankCandidates(c))
	}
}

func TestRankCandidatesEqualScoreAndSourceUsesHigherCost(t *testing.T) {
	c := captureContext(TierS, 0, ToolPoke, ToolCherish)
	c.Settings.Tiers[TierS] = []Tool{ToolPoke, ToolCherish}

	ranked := RankCandidates(c)
	require.Len(t, ranked, 2)
	assert.Equal(t, ToolCherish, ranked[0].Tool)
	assert.Equal(t, ToolPoke, ranked[1].Tool)
}

func TestRankCandidatesDeduplicatesGroupMembers(t *testing.T) {
	c := captureContext(TierS, 0, ToolQuick)
	c.Settings.Tiers[TierS] = []Tool{ToolQuick, GroupTimers, ToolQuick}

	ranked := RankCandidates(c)
	require.Len(t, ranked, 1)
	assert.Equal(t, ToolQuick, ranked[0].Tool)
}
