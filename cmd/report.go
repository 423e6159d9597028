package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/cli"
)

var (
	flagReportDate string
	flagReportDays int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Recompute and show the daily activity report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&flagReportDate, "date", "", "Day to report on (YYYY-MM-DD, default today)")
	reportCmd.Flags().IntVarP(&flagReportDays, "days", "n", 7, "Days of history in the trend line")
	rootCmd.AddCommand(reportCmd)
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func runReport(_ *cobra.Command, _ []string) error {
	date, err := parseDateFlag(flagReportDate)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	agg, err := db.RecomputeDaily(date)
	if err != nil {
		return fmt.Errorf("computing daily aggregate: %w", err)
	}

	fmt.Println(cli.RenderTitle("lookout · " + date.Format("Mon Jan 2, 2006")))
	fmt.Println()

	if agg.TotalSecs == 0 {
		fmt.Println("  No activity recorded.")
		return nil
	}

	productivePct := float64(agg.ProductiveSecs) / float64(agg.TotalSecs)
	rows := [][]string{
		{"Tracked", cli.FormatDuration(agg.TotalSecs)},
		{"Productive", fmt.Sprintf("%s (%s)", cli.FormatDuration(agg.ProductiveSecs), cli.FormatPercent(productivePct))},
		{"Distraction", cli.FormatDuration(agg.DistractionSecs)},
		{"Sessions", cli.FormatNumber(int64(agg.SessionCount))},
		{"Top app", agg.TopApp},
		{"Top category", string(agg.TopCategory)},
	}
	fmt.Print(cli.RenderTable(cli.Table{Rows: rows}))

	cats, err := db.CategoryTotals(date)
	if err == nil && len(cats) > 0 {
		fmt.Println()
		fmt.Println(indentLines(cli.RenderCategoryBar(cats, 50)))
	}

	// Trend: productive seconds over the trailing window.
	if flagReportDays > 1 {
		values := make([]float64, 0, flagReportDays)
		for i := flagReportDays - 1; i >= 0; i-- {
			day := date.AddDate(0, 0, -i)
			if i == 0 {
				values = append(values, float64(agg.ProductiveSecs))
				continue
			}
			past, ok, err := db.DailyAggregate(day)
			if err != nil || !ok {
				values = append(values, 0)
				continue
			}
			values = append(values, float64(past.ProductiveSecs))
		}
		fmt.Println()
		fmt.Printf("  Productive, last %d days: %s\n", flagReportDays, cli.RenderSparkline(values))
	}

	return nil
}

func indentLines(s string) string {
	out := "  "
	for _, r := range s {
		out += string(r)
		if r == '\n' {
			out += "  "
		}
	}
	return out
}
