// Package tui provides the interactive Bubble Tea dashboard for lookout.
package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/lookout/internal/daemon"
	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/store"
	"github.com/theirongolddev/lookout/internal/tui/components"
	"github.com/theirongolddev/lookout/internal/tui/theme"
)

const historyDays = 14

// DataLoadedMsg is sent when a database refresh finishes.
type DataLoadedMsg struct {
	Daily      model.DailyAggregate
	Categories []model.CategoryTotal
	Apps       []model.AppUsageAggregate
	Sessions   []model.Session
	Focus      []model.FocusSession
	History    []int64 // oldest first, historyDays entries
	Labels     []string
	LoadTime   time.Duration
}

// StatusMsg carries the daemon's live status, or Live=false when the
// daemon is unreachable.
type StatusMsg struct {
	Live   bool
	Status daemon.Status
}

// App is the root Bubble Tea model.
type App struct {
	db        *store.Store
	statusURL string

	// Loaded data
	daily      model.DailyAggregate
	categories []model.CategoryTotal
	apps       []model.AppUsageAggregate
	sessions   []model.Session
	focusHist  []model.FocusSession
	history    []int64
	histLabels []string

	loaded      bool
	loadTime    time.Duration
	lastRefresh time.Time
	refreshing  bool

	// Live daemon state
	live   bool
	status daemon.Status

	// UI state
	width      int
	height     int
	activeTab  int
	showHelp   bool
	sessCursor int

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	minContentHeight = 5

	statusPollEvery = 2 * time.Second
	dataReloadEvery = 30 * time.Second
)

// NewApp creates a new TUI app model. statusURL points at the running
// tracker daemon, e.g. "http://127.0.0.1:8790".
func NewApp(db *store.Store, statusURL string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		db:        db,
		statusURL: statusURL,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.db),
		fetchStatusCmd(a.statusURL),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.daily = msg.Daily
		a.categories = msg.Categories
		a.apps = msg.Apps
		a.sessions = msg.Sessions
		a.focusHist = msg.Focus
		a.history = msg.History
		a.histLabels = msg.Labels
		a.loadTime = msg.LoadTime
		a.loaded = true
		a.refreshing = false
		a.lastRefresh = time.Now()
		if a.sessCursor >= len(a.sessions) {
			a.sessCursor = len(a.sessions) - 1
		}
		if a.sessCursor < 0 {
			a.sessCursor = 0
		}
		return a, nil

	case StatusMsg:
		a.live = msg.Live
		a.status = msg.Status
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(), fetchStatusCmd(a.statusURL)}
		if a.loaded && !a.refreshing && time.Since(a.lastRefresh) >= dataReloadEvery {
			a.refreshing = true
			cmds = append(cmds, loadDataCmd(a.db))
		}
		return a, tea.Batch(cmds...)
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if key == "r" && !a.refreshing {
		a.refreshing = true
		return a, loadDataCmd(a.db)
	}

	// Sessions tab list navigation
	if a.activeTab == 2 {
		switch key {
		case "j", "down":
			if a.sessCursor < len(a.sessions)-1 {
				a.sessCursor++
			}
			return a, nil
		case "k", "up":
			if a.sessCursor > 0 {
				a.sessCursor--
			}
			return a, nil
		case "g":
			a.sessCursor = 0
			return a, nil
		case "G":
			if len(a.sessions) > 0 {
				a.sessCursor = len(a.sessions) - 1
			}
			return a, nil
		}
	}

	switch key {
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  lookout needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ lookout"))
	b.WriteString(subtitleStyle.Render(" · Activity Tracker"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading activity data..."))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"o a s f", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate session list"},
		{"g G", "Jump to top / bottom"},
		{"r", "Refresh data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	dataAge := fmt.Sprintf("%ds ago", int(time.Since(a.lastRefresh).Seconds()))
	statusBar := components.RenderStatusBar(w, dataAge, a.live)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderOverviewTab(cw)
	case 1:
		content = a.renderAppsTab(cw)
	case 2:
		content = a.renderSessionsTab(cw, contentH)
	case 3:
		content = a.renderFocusTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(statusPollEvery, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd recomputes today's aggregates and loads recent activity.
func loadDataCmd(db *store.Store) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		today := time.Now()

		msg := DataLoadedMsg{}
		if daily, err := db.RecomputeDaily(today); err == nil {
			msg.Daily = daily
		}
		if apps, err := db.RecomputeAppUsage(today); err == nil {
			msg.Apps = apps
		}
		if cats, err := db.CategoryTotals(today); err == nil {
			msg.Categories = cats
		}
		if sessions, err := db.RecentSessions(200); err == nil {
			msg.Sessions = sessions
		}
		if focus, err := db.RecentFocusSessions(20); err == nil {
			msg.Focus = focus
		}

		msg.History = make([]int64, 0, historyDays)
		msg.Labels = make([]string, 0, historyDays)
		for i := historyDays - 1; i >= 0; i-- {
			day := today.AddDate(0, 0, -i)
			var secs int64
			if i == 0 {
				secs = msg.Daily.TotalSecs
			} else if agg, ok, err := db.DailyAggregate(day); err == nil && ok {
				secs = agg.TotalSecs
			}
			msg.History = append(msg.History, secs)
			msg.Labels = append(msg.Labels, fmt.Sprintf("%d", day.Day()))
		}

		msg.LoadTime = time.Since(start)
		return msg
	}
}

// fetchStatusCmd probes the tracker daemon's status endpoint.
func fetchStatusCmd(statusURL string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 1500 * time.Millisecond}
		resp, err := client.Get(statusURL + "/v1/status")
		if err != nil {
			return StatusMsg{}
		}
		defer func() { _ = resp.Body.Close() }()

		var st daemon.Status
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			return StatusMsg{}
		}
		return StatusMsg{Live: true, Status: st}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color
// so gaps between cards and empty lines render with proper fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
