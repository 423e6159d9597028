package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/cli"
	"github.com/theirongolddev/lookout/internal/daemon"
)

var flagStatusAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running tracker's status endpoint",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&flagStatusAddr, "addr", "", "Tracker address (default from config)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	addr := flagStatusAddr
	if addr == "" {
		addr = trackerAddr(loadConfig())
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status")
	if err != nil {
		fmt.Printf("  Tracker at %s: unreachable (%v)\n", addr, err)
		fmt.Println("  Start it with: lookout track --detach")
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tracker returned HTTP %d", resp.StatusCode)
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return fmt.Errorf("malformed status response: %w", err)
	}

	printDaemonStatus(st)
	return nil
}

func printDaemonStatus(st daemon.Status) {
	fmt.Printf("  Up since: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)

	if st.Tracker.App != "" {
		fmt.Printf("  Current window: %s — %s\n", st.Tracker.App, cli.TruncateTitle(st.Tracker.Title, 60))
		fmt.Printf("  Category: %s\n", st.Tracker.Category)
		if !st.Tracker.OpenSince.IsZero() {
			fmt.Printf("  Open for: %s\n", cli.FormatDuration(int64(time.Since(st.Tracker.OpenSince).Seconds())))
		}
	}
	fmt.Printf("  Sessions logged: %s\n", cli.FormatNumber(st.Tracker.TotalLogged))
	fmt.Printf("  Window switches: %s\n", cli.FormatNumber(st.Tracker.TotalSwitches))

	if st.Focus != nil {
		fmt.Println()
		fmt.Printf("  Focus: %s\n", st.Focus.Status)
		if st.Focus.LockedApp != "" {
			fmt.Printf("  Locked to: %s\n", st.Focus.LockedApp)
		}
		fmt.Printf("  Focused %s / distracted %s, score %s\n",
			cli.FormatDuration(st.Focus.FocusSeconds),
			cli.FormatDuration(st.Focus.DistractionSecs),
			cli.FormatScore(st.Focus.Score))
	}
}
