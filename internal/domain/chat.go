package domain

import (
	"strconv"
	"strings"
)

const (
	GameBotSender = "pokemoncommunitygame"

	catchVerb        = "!pokecatch"
	shopVerb         = "!pokeshop"
	catchPromptRate  = "90"
	BulkPurchaseSize = 10
)

func CatchCommand(tool Tool) string {
	if tool == ToolPoke {
		return catchVerb
	}
	return catchVerb + " " + tool.ChatName()
}

func ShopCommand(tool Tool, bulk bool) string {
	command := shopVerb + " " + tool.ChatName()
	if bulk {
		return command + " " + strconv.Itoa(BulkPurchaseSize)
	}
	return command
}

// IsCatchPrompt reports whether a chat line is the game bot announcing a
// catchable spawn.
func IsCatchPrompt(sender, text string) bool {
	return strings.EqualFold(sender, GameBotSender) &&
		strings.Contains(text, catchVerb) &&
		strings.Contains(text, catchPromptRate)
}

// CreatureFromChat finds the dex entry named in a chat message. When several
// names appear, the last dex entry found wins.
func CreatureFromChat(text string, dex Dex) (int, bool) {
	lowered := strings.ToLower(text)
	id, found := 0, false
	for _, entry := range dex.Entries {
		if entry.Name == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(entry.Name)) {
			id, found = entry.ID, true
		}
	}
	return id, found
}
