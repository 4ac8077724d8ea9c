package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func maxRandom(n int64) int64 { return n - 1 }

func TestPurchaserBuysByCashThreshold(t *testing.T) {
	tests := []struct {
		name     string
		cash     int
		want     bool
		wantSent []string
	}{
		{name: "bulk above buy_ten", cash: 7000, want: true, wantSent: []string{"!pokeshop great ball 10"}},
		{name: "single above buy_one", cash: 1500, want: true, wantSent: []string{"!pokeshop great ball"}},
		{name: "nothing at buy_one", cash: 1000, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &recordingChat{}
			sleeper := &recordingSleeper{}
			settings := domain.DefaultCatchSettings()
			settings.Shop[domain.ToolGreat] = domain.ShopRule{BuyOnMissing: true, BuyOne: 1000, BuyTen: 6000}

			got := NewPurchaser(chat, sleeper, maxRandom, zerolog.Nop()).Purchase(context.Background(), domain.ToolGreat, tt.cash, settings)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSent, chat.Sent())
			sleeps := sleeper.Sleeps()
			assert.Equal(t, 10*time.Second, sleeps[0], "human delay upper bound")
			if tt.want {
				assert.Equal(t, []time.Duration{10 * time.Second, 6 * time.Second}, sleeps)
			} else {
				assert.Len(t, sleeps, 1)
			}
		})
	}
}

func TestPurchaserDelayStaysInWindow(t *testing.T) {
	settings := domain.DefaultCatchSettings()
	settings.Shop[domain.ToolPoke] = domain.ShopRule{BuyOnMissing: true, BuyOne: 300, BuyTen: 3000}

	for i := 0; i < 50; i++ {
		sleeper := &recordingSleeper{}
		NewPurchaser(&recordingChat{}, sleeper, nil, zerolog.Nop()).Purchase(context.Background(), domain.ToolPoke, 0, settings)
		delay := sleeper.Sleeps()[0]
		assert.GreaterOrEqual(t, delay, 5*time.Second)
		assert.LessOrEqual(t, delay, 10*time.Second)
	}
}

func TestPurchaserSkipsWithoutDelayWhenDisabled(t *testing.T) {
	settings := domain.DefaultCatchSettings()
	settings.Shop[domain.ToolGreat] = domain.ShopRule{BuyOnMissing: false, BuyOne: 1000, BuyTen: 6000}
	delete(settings.Shop, domain.ToolUltra)

	for _, tool := range []domain.Tool{domain.ToolGreat, domain.ToolUltra} {
		chat := &recordingChat{}
		sleeper := &recordingSleeper{}
		assert.False(t, NewPurchaser(chat, sleeper, maxRandom, zerolog.Nop()).Purchase(context.Background(), tool, 100_000, settings))
		assert.Empty(t, chat.Sent())
		assert.Empty(t, sleeper.Sleeps())
	}
}

func TestPurchaserSendFailure(t *testing.T) {
	chat := &recordingChat{err: domain.ErrChatNotConnected}
	sleeper := &recordingSleeper{}
	settings := domain.DefaultCatchSettings()
	settings.Shop[domain.ToolPoke] = domain.ShopRule{BuyOnMissing: true, BuyOne: 300, BuyTen: 3000}

	assert.False(t, NewPurchaser(chat, sleeper, maxRandom, zerolog.Nop()).Purchase(context.Background(), domain.ToolPoke, 5000, settings))
	assert.Len(t, sleeper.Sleeps(), 1, "no cooldown after a failed purchase")
}

func TestPurchaserHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chat := &recordingChat{}
	settings := domain.DefaultCatchSettings()
	settings.Shop[domain.ToolPoke] = domain.ShopRule{BuyOnMissing: true, BuyOne: 300, BuyTen: 3000}

	assert.False(t, NewPurchaser(chat, &recordingSleeper{}, maxRandom, zerolog.Nop()).Purchase(ctx, domain.ToolPoke, 5000, settings))
	assert.Empty(t, chat.Sent())
}

func TestDecisionEngineUsesInventoryWithoutPurchase(t *testing.T) {
	chat := &recordingChat{}
	engine := NewDecisionEngine(NewPurchaser(chat, &recordingSleeper{}, maxRandom, zerolog.Nop()), zerolog.Nop())

	c := domain.CaptureContext{
		Creature:  domain.CreatureFacts{ID: 7, Name: "Squirtle", Types: []string{"water"}, Tier: domain.TierA},
		Inventory: domain.Inventory{Cash: 0, Items: []domain.InventoryItem{{Tool: domain.ToolNet, Quantity: 1}, {Tool: domain.ToolPoke, Quantity: 4}}},
		Settings:  domain.DefaultCatchSettings(),
	}
	choice, ok := engine.Choose(context.Background(), c)
	assert.True(t, ok)
	assert.Equal(t, domain.ToolNet, choice.Tool)
	assert.Empty(t, chat.Sent())
}

func TestDecisionEngineBuysShopWinner(t *testing.T) {
	chat := &recordingChat{}
	engine := NewDecisionEngine(NewPurchaser(chat, &recordingSleeper{}, maxRandom, zerolog.Nop()), zerolog.Nop())

	settings := domain.DefaultCatchSettings()
	settings.Tiers[domain.TierA] = []domain.Tool{domain.ToolPoke, domain.ToolUltra}
	settings.Shop[domain.ToolUltra] = domain.ShopRule{BuyOnMissing: true, BuyOne: 1000, BuyTen: 10000}
	c := domain.CaptureContext{
		Creature:  domain.CreatureFacts{ID: 7, Name: "Squirtle", Types: []string{"water"}, Tier: domain.TierA},
		Inventory: domain.Inventory{Cash: 4000, Items: []domain.InventoryItem{{Tool: domain.ToolPoke, Quantity: 4}}},
		Settings:  settings,
	}

	choice, ok := engine.Choose(context.Background(), c)
	assert.True(t, ok)
	assert.Equal(t, domain.ToolUltra, choice.Tool)
	assert.Equal(t, []string{"!pokeshop ultra ball"}, chat.Sent())
}

func TestDecisionEngineFallsBackOnceAfterFailedPurchase(t *testing.T) {
	chat := &recordingChat{}
	engine := NewDecisionEngine(NewPurchaser(chat, &recordingSleeper{}, maxRandom, zerolog.Nop()), zerolog.Nop())

	settings := domain.DefaultCatchSettings()
	settings.Tiers[domain.TierA] = []domain.Tool{domain.ToolPoke, domain.ToolUltra}
	settings.Shop[domain.ToolUltra] = domain.ShopRule{BuyOnMissing: false, BuyOne: 1000, BuyTen: 10000}
	c := domain.CaptureContext{
		Creature:  domain.CreatureFacts{ID: 7, Name: "Squirtle", Types: []string{"water"}, Tier: domain.TierA},
		Inventory: domain.Inventory{Cash: 4000, Items: []domain.InventoryItem{{Tool: domain.ToolPoke, Quantity: 4}}},
		Settings:  settings,
	}

	choice, ok := engine.Choose(context.Background(), c)
	assert.True(t, ok)
	assert.Equal(t, domain.ToolPoke, choice.Tool)
	assert.Equal(t, domain.SourceInventory, choice.Source)
	assert.Empty(t, chat.Sent())
}

func TestDecisionEngineDeclinesAfterSecondFailure(t *testing.T) {
	chat := &recordingChat{err: errors.New("socket closed")}
	engine := NewDecisionEngine(NewPurchaser(chat, &recordingSleeper{}, maxRandom, zerolog.Nop()), zerolog.Nop())

	settings := domain.DefaultCatchSettings()
	settings.Tiers[domain.TierA] = []domain.Tool{domain.ToolPoke, domain.ToolGreat, domain.ToolUltra}
	settings.Shop[domain.ToolUltra] = domain.ShopRule{BuyOnMissing: true, BuyOne: 1000, BuyTen: 10000}
	settings.Shop[domain.ToolGreat] = domain.ShopRule{BuyOnMissing: true, BuyOne: 600, BuyTen: 6000}
	settings.Shop[domain.ToolPoke] = domain.ShopRule{BuyOnMissing: true, BuyOne: 300, BuyTen: 3000}
	c := domain.CaptureContext{
		Creature:  domain.CreatureFacts{ID: 7, Name: "Squirtle", Types: []string{"water"}, Tier: domain.TierA},
		Inventory: domain.Inventory{Cash: 4000},
		Settings:  settings,
	}

	_, ok := engine.Choose(context.Background(), c)
	assert.False(t, ok, "poke ball is third and never tried")
}

func TestDecisionEngineNoCandidates(t *testing.T) {
	engine := NewDecisionEngine(nil, zerolog.Nop())
	_, ok := engine.Choose(context.Background(), domain.CaptureContext{
		Creature: domain.CreatureFacts{Tier: domain.TierC},
		Settings: domain.DefaultCatchSettings(),
	})
	assert.False(t, ok)
}

func TestThrowerWaitsThenSendsCatchCommand(t *testing.T) {
	clock := newManualClock(testNow.Add(20 * time.Second))
	sleeper := &recordingSleeper{clock: clock}
	chat := &recordingChat{}
	thrower := NewThrower(chat, clock, sleeper, maxRandom, zerolog.Nop())

	err := thrower.Throw(context.Background(), domain.ToolTimer, testNow)
	assert.NoError(t, err)
	assert.Equal(t, []time.Duration{60 * time.Second}, sleeper.Sleeps())
	assert.Equal(t, []string{"!pokecatch timer ball"}, chat.Sent())

	err = thrower.Throw(context.Background(), domain.ToolPoke, testNow)
	assert.NoError(t, err)
	assert.Equal(t, "!pokecatch", chat.Sent()[1])
}
