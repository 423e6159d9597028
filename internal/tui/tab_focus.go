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

func (a App) renderFocusTab(cw int) string {
	var sections []string

	if a.live && a.status.Focus != nil {
		sections = append(sections, a.renderLiveFocus(*a.status.Focus, cw))
	} else {
		t := theme.Active
		idle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("no focus session running — start one with `lookout focus` or `lookout pomodoro`")
		sections = append(sections, components.ContentCard("Focus", idle, cw))
	}

	if len(a.focusHist) > 0 {
		sections = append(sections, a.renderFocusHistory(cw))
	}

	return strings.Join(sections, "\n")
}

func (a App) renderLiveFocus(fs model.FocusSnapshot, cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	var statusStyle lipgloss.Style
	switch fs.Status {
	case model.FocusFocused:
		statusStyle = lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	case model.FocusDistracted:
		statusStyle = lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	case model.FocusWaiting:
		statusStyle = lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
	default:
		statusStyle = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	}

	var b strings.Builder
	b.WriteString(statusStyle.Render(string(fs.Status)))
	if fs.Phase != "" {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %s · cycle %d", fs.Phase, fs.Cycle)))
	}
	b.WriteString("\n\n")

	if fs.Goal != "" && fs.Goal != "pomodoro" {
		b.WriteString(labelStyle.Render("Goal      "))
		b.WriteString(valueStyle.Render(fs.Goal))
		b.WriteString("\n")
	}
	if fs.LockedApp != "" {
		b.WriteString(labelStyle.Render("Locked to "))
		b.WriteString(valueStyle.Render(fs.LockedApp))
		b.WriteString(labelStyle.Render("  " + truncStr(fs.LockedTitle, 48)))
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("Focused   "))
	b.WriteString(valueStyle.Render(cli.FormatDuration(fs.FocusSeconds)))
	b.WriteString(labelStyle.Render("   Distracted "))
	b.WriteString(valueStyle.Render(cli.FormatDuration(fs.DistractionSecs)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("   Interruptions %d", fs.Interruptions)))
	b.WriteString("\n")

	scoreStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(components.ColorForScore(fs.Score))).
		Background(t.Surface).Bold(true)
	b.WriteString(labelStyle.Render("Score     "))
	b.WriteString(scoreStyle.Render(cli.FormatScore(fs.Score)))
	b.WriteString("\n\n")

	if fs.TargetMinutes > 0 {
		target := int64(fs.TargetMinutes) * 60
		pct := float64(fs.FocusSeconds) / float64(target)
		remaining := target - fs.FocusSeconds
		trailing := cli.FormatClock(remaining) + " left"
		if remaining <= 0 {
			trailing = "done"
		}
		barW := innerW - 28
		if barW < 12 {
			barW = 12
		}
		b.WriteString(components.GoalBar("Target", pct, trailing, 8, barW))
	}

	return components.ContentCard("Focus Session", b.String(), cw)
}

func (a App) renderFocusHistory(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	goalW := innerW - 48
	if goalW < 10 {
		goalW = 10
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-12s %8s %8s %6s %7s  %-*s",
		"When", "Focused", "Distr", "Intr", "Score", goalW, "Goal")))

	limit := len(a.focusHist)
	if limit > 10 {
		limit = 10
	}
	for _, fs := range a.focusHist[:limit] {
		b.WriteString("\n")
		scoreStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(components.ColorForScore(fs.Score))).
			Background(t.Surface)
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-12s %8s %8s %6d ",
			fs.StartTime.Local().Format("Jan 2 15:04"),
			cli.FormatDuration(fs.FocusSeconds),
			cli.FormatDuration(fs.DistractionSecs),
			fs.Interruptions)))
		b.WriteString(scoreStyle.Render(fmt.Sprintf("%7s", cli.FormatScore(fs.Score))))
		b.WriteString(rowStyle.Render(fmt.Sprintf("  %-*s", goalW, truncStr(fs.Goal, goalW))))
	}

	return components.ContentCard("Past Focus Sessions", b.String(), cw)
}
