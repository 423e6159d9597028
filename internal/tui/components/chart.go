package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lookout/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// DurationBars renders per-day tracked seconds as a vertical bar chart
// with an hour-based y-axis. labels go under the bars, one per value.
func DurationBars(secs []int64, labels []string, height int) string {
	if len(secs) == 0 || height < 2 {
		return ""
	}
	t := theme.Active

	var peak int64
	for _, v := range secs {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 3600
	}
	// Round the ceiling up to a whole hour.
	ceilHours := (peak + 3599) / 3600
	ceiling := float64(ceilHours * 3600)

	const barW = 3
	const gap = 1
	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	gapStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(height)
		rowBottom := ceiling * float64(row-1) / float64(height)

		yLabel := ""
		if row == height {
			yLabel = fmt.Sprintf("%dh", ceilHours)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%4s│", yLabel)))

		for i, v := range secs {
			if i > 0 {
				b.WriteString(gapStyle.Render(strings.Repeat(" ", gap)))
			}
			fv := float64(v)
			switch {
			case fv >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case fv > rowBottom:
				frac := (fv - rowBottom) / (rowTop - rowBottom)
				idx := int(frac * 8)
				if idx < 1 {
					idx = 1
				}
				if idx > 8 {
					idx = 8
				}
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(gapStyle.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := len(secs)*barW + (len(secs)-1)*gap
	b.WriteString(axisStyle.Render("  0h└" + strings.Repeat("─", axisLen)))

	if len(labels) == len(secs) {
		b.WriteString("\n")
		b.WriteString(gapStyle.Render("     "))
		labelStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		for i, lbl := range labels {
			if i > 0 {
				b.WriteString(gapStyle.Render(strings.Repeat(" ", gap)))
			}
			if len(lbl) > barW {
				lbl = lbl[:barW]
			}
			b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", barW, lbl)))
		}
	}

	return b.String()
}
