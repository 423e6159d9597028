package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lookout/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. live reports whether
// the tracker daemon is reachable.
func RenderStatusBar(width int, dataAge string, live bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	liveStyle := lipgloss.NewStyle().Foreground(t.Green)
	deadStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	left := " [?]help  [r]efresh  [q]uit"

	right := ""
	if live {
		right = liveStyle.Render("● tracker") + "  "
	} else {
		right = deadStyle.Render("○ tracker offline") + "  "
	}
	if dataAge != "" {
		right += fmt.Sprintf("Data: %s ", dataAge)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
