package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/cli"
)

var flagAppsDate string

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Show per-app usage for a day",
	RunE:  runApps,
}

func init() {
	appsCmd.Flags().StringVar(&flagAppsDate, "date", "", "Day to report on (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(appsCmd)
}

func runApps(_ *cobra.Command, _ []string) error {
	date, err := parseDateFlag(flagAppsDate)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	apps, err := db.RecomputeAppUsage(date)
	if err != nil {
		return fmt.Errorf("computing app usage: %w", err)
	}
	if len(apps) == 0 {
		fmt.Println("  No app usage recorded.")
		return nil
	}

	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		mem := "-"
		if a.AvgMemory > 0 {
			mem = cli.FormatBytes(uint64(a.AvgMemory))
		}
		cpu := "-"
		if a.AvgCPU > 0 {
			cpu = fmt.Sprintf("%.1f%%", a.AvgCPU)
		}
		rows = append(rows, []string{
			a.App,
			cli.FormatDuration(a.TotalSecs),
			mem,
			cpu,
			cli.FormatNumber(int64(a.LaunchCount)),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Apps · " + date.Format("Jan 2, 2006"),
		Headers: []string{"App", "Time", "Avg Mem", "Avg CPU", "Launches"},
		Rows:    rows,
	}))
	return nil
}
