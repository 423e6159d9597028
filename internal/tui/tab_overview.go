package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lookout/internal/cli"
	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/tui/components"
	"github.com/theirongolddev/lookout/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active

	productivePct := ""
	if a.daily.TotalSecs > 0 {
		productivePct = cli.FormatPercent(float64(a.daily.ProductiveSecs) / float64(a.daily.TotalSecs))
	}

	cards := []struct{ Label, Value, Detail string }{
		{"Tracked Today", cli.FormatDuration(a.daily.TotalSecs), fmt.Sprintf("%d sessions", a.daily.SessionCount)},
		{"Productive", cli.FormatDuration(a.daily.ProductiveSecs), productivePct},
		{"Distraction", cli.FormatDuration(a.daily.DistractionSecs), ""},
		{"Top App", truncStr(a.daily.TopApp, 18), string(a.daily.TopCategory)},
	}
	row := components.MetricCardRow(cards, cw)

	var sections []string
	sections = append(sections, row)

	if len(a.categories) > 0 {
		sections = append(sections, components.ContentCard("Categories",
			a.renderCategoryRows(components.CardInnerWidth(cw)), cw))
	}

	if len(a.history) > 0 {
		chart := components.DurationBars(a.history, a.histLabels, 6)
		sections = append(sections, components.ContentCard(
			fmt.Sprintf("Last %d Days", historyDays), chart, cw))
	}

	// Live window line from the daemon, when it's up.
	if a.live && a.status.Tracker.App != "" {
		liveStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		appStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
		line := liveStyle.Render("now: ") +
			appStyle.Render(a.status.Tracker.App) +
			liveStyle.Render("  "+truncStr(a.status.Tracker.Title, 60))
		sections = append(sections, components.ContentCard("Live", line, cw))
	}

	return strings.Join(sections, "\n")
}

// renderCategoryRows draws one proportional bar per category.
func (a App) renderCategoryRows(innerW int) string {
	t := theme.Active

	var total int64
	for _, c := range a.categories {
		total += c.Secs
	}
	if total == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("no activity yet")
	}

	nameW := 14
	durW := 8
	barW := innerW - nameW - durW - 4
	if barW < 10 {
		barW = 10
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	durStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	gapStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, c := range a.categories {
		if i > 0 {
			b.WriteString("\n")
		}
		fill := int(float64(c.Secs) / float64(total) * float64(barW))
		if fill < 1 {
			fill = 1
		}
		barStyle := lipgloss.NewStyle().Foreground(categoryThemeColor(c.Category)).Background(t.Surface)
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(string(c.Category), nameW))))
		b.WriteString(gapStyle.Render(" "))
		b.WriteString(barStyle.Render(strings.Repeat("█", fill)))
		b.WriteString(gapStyle.Render(strings.Repeat(" ", barW-fill+1)))
		b.WriteString(durStyle.Render(fmt.Sprintf("%*s", durW, cli.FormatDuration(c.Secs))))
	}
	return b.String()
}

// categoryThemeColor maps a category onto the active theme's palette.
func categoryThemeColor(c model.Category) lipgloss.Color {
	t := theme.Active
	switch c {
	case model.CategoryDevelopment:
		return t.Green
	case model.CategoryResearch:
		return t.Blue
	case model.CategoryProductivity:
		return t.Accent
	case model.CategoryCommunication:
		return t.Magenta
	case model.CategoryBrowsing:
		return t.Yellow
	case model.CategoryDistraction:
		return t.Red
	default:
		return t.TextMuted
	}
}
