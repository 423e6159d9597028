package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lookout/internal/cli"
	"github.com/theirongolddev/lookout/internal/tui/components"
	"github.com/theirongolddev/lookout/internal/tui/theme"
)

func (a App) renderSessionsTab(cw, contentH int) string {
	t := theme.Active

	if len(a.sessions) == 0 {
		empty := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("no sessions recorded yet")
		return components.ContentCard("Recent Sessions", empty, cw)
	}

	innerW := components.CardInnerWidth(cw)
	visible := contentH - 5 // card border + title
	if visible < 3 {
		visible = 3
	}

	// Keep the cursor in view.
	offset := 0
	if a.sessCursor >= visible {
		offset = a.sessCursor - visible + 1
	}
	end := offset + visible
	if end > len(a.sessions) {
		end = len(a.sessions)
	}

	timeW := 11
	appW := 16
	durW := 7
	catW := 13
	titleW := innerW - timeW - appW - durW - catW - 5
	if titleW < 10 {
		titleW = 10
	}

	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %*s %-*s",
		timeW, "Start", appW, "App", titleW, "Title", durW, "Dur", catW, "Category")))

	for i := offset; i < end; i++ {
		s := a.sessions[i]
		b.WriteString("\n")

		line := fmt.Sprintf("%-*s %-*s %-*s %*s ",
			timeW, s.StartTime.Local().Format("Jan 2 15:04"),
			appW, truncStr(s.App, appW),
			titleW, truncStr(s.Title, titleW),
			durW, cli.FormatDuration(s.DurationSec))

		catStyle := lipgloss.NewStyle().Foreground(categoryThemeColor(s.Category)).Background(t.Surface)
		if i == a.sessCursor {
			b.WriteString(selStyle.Render("▸" + line[1:]))
			b.WriteString(lipgloss.NewStyle().Foreground(categoryThemeColor(s.Category)).Background(t.SurfaceHover).
				Render(fmt.Sprintf("%-*s", catW, s.Category)))
		} else {
			b.WriteString(rowStyle.Render(line))
			b.WriteString(catStyle.Render(fmt.Sprintf("%-*s", catW, s.Category)))
		}
	}

	title := fmt.Sprintf("Recent Sessions (%d)", len(a.sessions))
	return components.ContentCard(title, b.String(), cw)
}
