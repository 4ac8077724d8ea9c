package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatureFromChatLastMatchWins(t *testing.T) {
	dex := Dex{Entries: []DexEntry{
		{Name: "Pikachu", ID: 25},
		{Name: "Raichu", ID: 26},
		{Name: "Bulbasaur", ID: 1},
	}}

	id, ok := CreatureFromChat("look, a Pikachu and a Raichu!", dex)
	assert.True(t, ok)
	assert.Equal(t, 26, id)
}

func TestCreatureFromChatIsCaseInsensitive(t *testing.T) {
	dex := Dex{Entries: []DexEntry{{Name: "Mr. Mime", ID: 122}}}

	id, ok := CreatureFromChat("A wild MR. MIME appears!", dex)
	assert.True(t, ok)
	assert.Equal(t, 122, id)
}

func TestCreatureFromChatNoMatch(t *testing.T) {
	_, ok := CreatureFromChat("nothing here", Dex{Entries: []DexEntry{{Name: "Eevee", ID: 133}, {Name: "", ID: 0}}})
	assert.False(t, ok)
}

func TestCatchAndShopCommands(t *testing.T) {
	assert.Equal(t, "!pokecatch", CatchCommand(ToolPoke))
	assert.Equal(t, "!pokecatch ultra ball", CatchCommand(ToolUltra))
	assert.Equal(t, "!pokecatch great cherish ball", CatchCommand(ToolGreatCherish))
	assert.Equal(t, "!pokeshop great ball", ShopCommand(ToolGreat, false))
	assert.Equal(t, "!pokeshop poke ball 10", ShopCommand(ToolPoke, true))
}

func TestIsCatchPrompt(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		text   string
		want   bool
	}{
		{name: "game bot prompt", sender: "PokemonCommunityGame", text: "TwitchLit A wild Eevee appears TwitchLit Catch it using !pokecatch (winners revealed in 90s)", want: true},
		{name: "other sender", sender: "viewer", text: "!pokecatch 90", want: false},
		{name: "missing verb", sender: GameBotSender, text: "Eevee fled after 90s", want: false},
		{name: "missing rate", sender: GameBotSender, text: "use !pokecatch now", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCatchPrompt(tt.sender, tt.text))
		})
	}
}
