package domain

import (
	"fmt"
	"strings"
)

// Tool is a capture tool (ball) identified by its inventory sprite name.
type Tool string

const (
	ToolPoke         Tool = "poke_ball"
	ToolGreat        Tool = "great_ball"
	ToolUltra        Tool = "ultra_ball"
	ToolMaster       Tool = "master_ball"
	ToolPremier      Tool = "premier_ball"
	ToolCherish      Tool = "cherish_ball"
	ToolGreatCherish Tool = "great_cherish_ball"
	ToolUltraCherish Tool = "ultra_cherish_ball"
	ToolHeavy        Tool = "heavy_ball"
	ToolFeather      Tool = "feather_ball"
	ToolNet          Tool = "net_ball"
	ToolPhantom      Tool = "phantom_ball"
	ToolNight        Tool = "night_ball"
	ToolFrozen       Tool = "frozen_ball"
	ToolCipher       Tool = "cipher_ball"
	ToolMagnet       Tool = "magnet_ball"
	ToolFantasy      Tool = "fantasy_ball"
	ToolGeo          Tool = "geo_ball"
	ToolHeal         Tool = "heal_ball"
	ToolFast         Tool = "fast_ball"
	ToolQuick        Tool = "quick_ball"
	ToolTimer        Tool = "timer_ball"
	ToolRepeat       Tool = "repeat_ball"
	ToolFriend       Tool = "friend_ball"
	ToolBuddy        Tool = "buddy_ball"
	ToolLevel        Tool = "level_ball"
	ToolStone        Tool = "stone_ball"
	ToolClone        Tool = "clone_ball"
	ToolLure         Tool = "lure_ball"
	ToolMoon         Tool = "moon_ball"
	ToolLove         Tool = "love_ball"
	ToolDive         Tool = "dive_ball"
	ToolNest         Tool = "nest_ball"
	ToolDusk         Tool = "dusk_ball"
	ToolLuxury       Tool = "luxury_ball"

	GroupTypes  Tool = "types_ball"
	GroupStats  Tool = "stats_ball"
	GroupTimers Tool = "timers_ball"
)

var toolGroups = map[Tool][]Tool{
	GroupTypes:  {ToolNet, ToolPhantom, ToolNight, ToolFrozen, ToolCipher, ToolMagnet, ToolFantasy, ToolGeo},
	GroupStats:  {ToolHeavy, ToolFeather, ToolHeal, ToolFast},
	GroupTimers: {ToolQuick, ToolTimer},
}

var restrictedTools = map[Tool]struct{}{
	ToolUltra: {}, ToolQuick: {}, ToolTimer: {}, ToolHeavy: {}, ToolFeather: {},
	ToolNet: {}, ToolPhantom: {}, ToolNight: {}, ToolFrozen: {}, ToolCipher: {},
	ToolMagnet: {}, ToolFantasy: {}, ToolGeo: {}, ToolHeal: {}, ToolFast: {},
}

// KnownTools lists every concrete tool accepted in catch settings.
var KnownTools = []Tool{
	ToolPoke, ToolGreat, ToolUltra, ToolMaster, ToolPremier, ToolCherish, ToolGreatCherish,
	ToolUltraCherish, ToolHeavy, ToolFeather, ToolNet, ToolPhantom, ToolNight, ToolFrozen,
	ToolCipher, ToolMagnet, ToolFantasy, ToolGeo, ToolHeal, ToolFast, ToolQuick, ToolTimer,
	ToolRepeat, ToolFriend, ToolBuddy, ToolLevel, ToolStone, ToolClone, ToolLure, ToolMoon,
	ToolLove, ToolDive, ToolNest, ToolDusk, ToolLuxury,
}

func (t Tool) Restricted() bool {
	_, ok := restrictedTools[t]
	return ok
}

func (t Tool) Group() bool {
	_, ok := toolGroups[t]
	return ok
}

func (t Tool) Known() bool {
	if t.Group() {
		return true
	}
	for _, known := range KnownTools {
		if t == known {
			return true
		}
	}
	return false
}

// Cost is the shop price used for tie-breaking.
func (t Tool) Cost() int {
	switch t {
	case ToolPoke:
		return 300
	case ToolGreat:
		return 600
	case ToolUltra:
		return 1000
	default:
		return 2000
	}
}

// Purchasable reports whether the shop sells the tool on demand.
func (t Tool) Purchasable() bool {
	return t == ToolPoke || t == ToolGreat || t == ToolUltra
}

// ChatName is the tool name as typed in chat.
func (t Tool) ChatName() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// ExpandTools resolves group aliases into concrete tools, keeping the
// configured order and dropping duplicates.
func ExpandTools(configured []Tool) []Tool {
	tools := make([]Tool, 0, len(configured))
	seen := make(map[Tool]struct{}, len(configured))
	add := func(tool Tool) {
		if _, ok := seen[tool]; ok {
			return
		}
		seen[tool] = struct{}{}
		tools = append(tools, tool)
	}

	for _, entry := range configured {
		if members, ok := toolGroups[entry]; ok {
			for _, member := range members {
				add(member)
			}
			continue
		}
		add(entry)
	}
	return tools
}

func ParseTool(raw string) (Tool, error) {
	tool := Tool(strings.ToLower(strings.TrimSpace(raw)))
	if !tool.Known() {
		return "", fmt.Errorf("unknown tool %q", raw)
	}
	return tool, nil
}
