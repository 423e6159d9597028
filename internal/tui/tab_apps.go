package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lookout/internal/cli"
	"github.com/theirongolddev/lookout/internal/tui/components"
	"github.com/theirongolddev/lookout/internal/tui/theme"
)

func (a App) renderAppsTab(cw int) string {
	t := theme.Active

	if len(a.apps) == 0 {
		empty := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("no app usage recorded today")
		return components.ContentCard("Apps Today", empty, cw)
	}

	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	gapStyle := lipgloss.NewStyle().Background(t.Surface)

	nameW := innerW - 48
	if nameW < 12 {
		nameW = 12
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %8s %10s %7s %8s %12s",
		nameW, "App", "Time", "Avg Mem", "CPU", "Launches", "Share")))

	var maxSecs int64
	for _, app := range a.apps {
		if app.TotalSecs > maxSecs {
			maxSecs = app.TotalSecs
		}
	}
	if maxSecs == 0 {
		maxSecs = 1
	}

	limit := len(a.apps)
	if limit > 20 {
		limit = 20
	}
	for _, app := range a.apps[:limit] {
		b.WriteString("\n")

		mem := "-"
		if app.AvgMemory > 0 {
			mem = cli.FormatBytes(uint64(app.AvgMemory))
		}
		cpu := "-"
		if app.AvgCPU > 0 {
			cpu = fmt.Sprintf("%.1f%%", app.AvgCPU)
		}

		barLen := int(float64(app.TotalSecs) / float64(maxSecs) * 12)
		bar := strings.Repeat("▆", barLen)

		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(app.App, nameW))))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %8s", cli.FormatDuration(app.TotalSecs))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %10s %7s %8d ", mem, cpu, app.LaunchCount)))
		b.WriteString(gapStyle.Render(""))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(bar))
	}

	return components.ContentCard("Apps Today", b.String(), cw)
}
