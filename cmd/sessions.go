package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/cli"
	"github.com/theirongolddev/lookout/internal/store"
)

var (
	flagSessionsCount int
	flagSessionsFocus bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent activity sessions",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVarP(&flagSessionsCount, "count", "n", 25, "Number of sessions to show")
	sessionsCmd.Flags().BoolVar(&flagSessionsFocus, "focus", false, "Show focus sessions instead of activity sessions")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if flagSessionsFocus {
		return listFocusSessions(db)
	}

	sessions, err := db.RecentSessions(flagSessionsCount)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("  No sessions recorded.")
		return nil
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.StartTime.Local().Format("Jan 2 15:04"),
			s.App,
			cli.TruncateTitle(s.Title, 44),
			cli.FormatDuration(s.DurationSec),
			string(s.Category),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent Sessions",
		Headers: []string{"Start", "App", "Title", "Dur", "Category"},
		Rows:    rows,
	}))
	return nil
}

func listFocusSessions(db *store.Store) error {
	sessions, err := db.RecentFocusSessions(flagSessionsCount)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("  No focus sessions recorded.")
		return nil
	}

	rows := make([][]string, 0, len(sessions))
	for _, fs := range sessions {
		goal := fs.Goal
		if goal == "" {
			goal = "-"
		}
		rows = append(rows, []string{
			fs.StartTime.Local().Format("Jan 2 15:04"),
			goal,
			cli.FormatDuration(fs.FocusSeconds),
			cli.FormatDuration(fs.DistractionSecs),
			cli.FormatNumber(int64(fs.Interruptions)),
			cli.FormatScore(fs.Score),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Focus Sessions",
		Headers: []string{"Start", "Goal", "Focused", "Distracted", "Intr", "Score"},
		Rows:    rows,
	}))
	return nil
}
