package status

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
}

func renderSnapshotView(snapshot domain.GameSnapshot, opts RenderOptions, s styles) string {
	header := fmt.Sprintf("version %d", snapshot.Version)
	if !snapshot.UpdatedAt.IsZero() {
		header += ", updated " + formatAge(snapshot.UpdatedAt, opts.Now)
	}
	lines := []string{
		s.title.Render("Game Snapshot"),
		s.header.Render(header),
	}

	if snapshot.Version == 0 {
		lines = append(lines, s.empty.Render("No game data loaded yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	if stale(snapshot.UpdatedAt, opts) {
		lines[1] += " " + s.warning.Render("[stale]")
	}

	lines = append(lines,
		s.section.Render(renderCaptured(snapshot, s)),
		s.section.Render(renderInventory(snapshot.Inventory, s)),
		s.section.Render(renderMissions(snapshot.Missions, s)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCaptured(snapshot domain.GameSnapshot, s styles) string {
	captured := snapshot.Captured
	parts := []string{
		s.key.Render("Collection"),
		s.detail.Render(fmt.Sprintf("caught: %d (%d unique, %d shiny)", captured.TotalCount, len(captured.UniqueIDs), captured.ShinyCount)),
	}
	if len(captured.CompanionTypes) > 0 {
		parts = append(parts, s.detail.Render("companion: "+strings.Join(captured.CompanionTypes, "/")))
	}
	if dex := snapshot.Dex; dex.TotalCount > 0 {
		parts = append(parts, progressLine("dex", dex.TotalProgress, dex.TotalCount, s))
	}
	if dex := snapshot.Dex; dex.SpawnCount > 0 {
		parts = append(parts, progressLine("spawnable", dex.SpawnProgress, dex.SpawnCount, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderInventory(inventory domain.Inventory, s styles) string {
	parts := []string{
		s.key.Render("Inventory"),
		s.detail.Render(fmt.Sprintf("cash: $%d", inventory.Cash)),
	}
	if len(inventory.Items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("no capture tools"))...)
	}
	for _, item := range inventory.Items {
		label := item.Name
		if item.Tool != "" {
			label = string(item.Tool)
		}
		quantity := s.detail.Render(fmt.Sprintf("%4d", item.Quantity))
		if item.Quantity == 0 {
			quantity = s.warning.Render(fmt.Sprintf("%4d", item.Quantity))
		}
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, quantity, " ", s.detail.Render(label)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderMissions(missions domain.Missions, s styles) string {
	title := "Missions"
	if missions.EndDate != "" {
		title += " " + s.meta.Render("(until "+missions.EndDate+")")
	}
	parts := []string{s.key.Render(title)}
	if len(missions.Active) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("no active missions"))...)
	}
	for _, mission := range missions.Active {
		parts = append(parts, progressLine(mission.Name, mission.Progress, mission.Goal, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func progressLine(label string, progress, goal int, s styles) string {
	percent := 0.0
	if goal > 0 {
		percent = clampPercent(float64(progress) / float64(goal) * 100)
	}
	meta := lipgloss.NewStyle().Foreground(interpolateColor(percent, 0, 100)).
		Render(fmt.Sprintf("%d/%d", progress, goal))
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		renderProgressBar(percent, barWidth, s), " ", meta, " ", s.detail.Render(label))
	if goal > 0 && progress >= goal {
		line += " " + s.good.Render("done")
	}
	return line
}

func renderSettingsView(settings domain.CatchSettings, s styles) string {
	lines := []string{
		s.title.Render("Catch Settings"),
		s.header.Render(fmt.Sprintf("channel: %s", settings.Channel)),
		s.header.Render(fmt.Sprintf("treat uncaptured as captured: %t", settings.TreatUncapturedAsCaptured)),
	}

	tiers := []string{s.key.Render("Tiers")}
	for _, tier := range domain.AllTiers() {
		tools := settings.ToolsFor(tier)
		value := s.empty.Render("none")
		if len(tools) > 0 {
			value = s.detail.Render(joinTools(tools))
		}
		tiers = append(tiers, lipgloss.JoinHorizontal(lipgloss.Top, s.meta.Render(fmt.Sprintf("%-9s", tier)), " ", value))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, tiers...)))

	shop := []string{s.key.Render("Shop")}
	for _, tool := range slices.Sorted(maps.Keys(settings.Shop)) {
		rule := settings.Shop[tool]
		shop = append(shop, s.detail.Render(fmt.Sprintf("%-10s buy on missing: %-5t one above $%d, ten above $%d",
			tool, rule.BuyOnMissing, rule.BuyOne, rule.BuyTen)))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, shop...)))

	stats := settings.Stats
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.key.Render("Stat thresholds"),
		s.detail.Render(fmt.Sprintf("heavy >= %d  feather <= %d  heal >= %d  fast >= %d",
			stats.Heavy, stats.Feather, stats.Heal, stats.Fast)),
	)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderJournalView(entries []domain.JournalEntry, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Spawn History"),
		s.header.Render(fmt.Sprintf("entries: %d", len(entries))),
	}
	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("No spawns recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, entry := range entries {
		outcome := s.empty.Render("skipped")
		if entry.Engaged {
			outcome = s.good.Render("threw " + string(entry.Tool))
		}
		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("#%d", entry.CreatureID)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.timestamp.Render(formatAge(entry.ArrivedAt, opts.Now)),
			" ",
			s.creature.Render(name),
			" ",
			s.meta.Render(fmt.Sprintf("[%s via %s]", tierLabel(entry.Tier), entry.Source)),
			" ",
			outcome,
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func joinTools(tools []domain.Tool) string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, string(tool))
	}
	return strings.Join(names, ", ")
}

func tierLabel(tier domain.Tier) string {
	if tier == "" {
		return "?"
	}
	return string(tier)
}

func stale(at time.Time, opts RenderOptions) bool {
	if opts.Now.IsZero() || opts.StaleAfter <= 0 || at.IsZero() {
		return false
	}
	return opts.Now.Sub(at) > opts.StaleAfter
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatAge(at, now time.Time) string {
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}
	elapsed := now.Sub(at)
	switch {
	case elapsed < 0:
		return at.Format("15:04")
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return at.Format("15:04 on 02 Jan")
	}
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// 240 (faded grey) up to 255 (white) on the 256-colour greyscale ramp.
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
