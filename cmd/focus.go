package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/cli"
	"github.com/theirongolddev/lookout/internal/config"
	"github.com/theirongolddev/lookout/internal/focus"
	"github.com/theirongolddev/lookout/internal/guard"
	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/observe"
	"github.com/theirongolddev/lookout/internal/oracle"
)

var (
	flagFocusGoal    string
	flagFocusMinutes int
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run a focus session locked to your first work context",
	Long: "Locks onto the first non-whitelisted window and scores the session: " +
		"time on the locked app counts as focus, other apps as distraction. " +
		"Browser titles are checked against the goal by the relevance oracle.",
	RunE: runFocus,
}

func init() {
	focusCmd.Flags().StringVarP(&flagFocusGoal, "goal", "g", "", "What you intend to work on")
	focusCmd.Flags().IntVarP(&flagFocusMinutes, "minutes", "m", 50, "Focus target in minutes")
	rootCmd.AddCommand(focusCmd)
}

func runFocus(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	windowCmd := cfg.Tracker.WindowCommand
	if windowCmd == "" {
		windowCmd = defaultWindowCommand
	}

	engine := focus.NewEngine(focus.Config{
		Observer:       observe.NewExecObserver(windowCmd),
		Oracle:         oracle.NewClient(config.APIKey(cfg), cfg.AI.Model, cfg.AI.BaseURL),
		Guard:          guard.NewFileGuard(focusGuardPath()),
		Sink:           db,
		Goal:           flagFocusGoal,
		TargetMinutes:  flagFocusMinutes,
		Interval:       cfg.PollInterval(),
		ExtraWhitelist: cfg.Focus.ExtraWhitelist,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer removeFocusState()

	if flagFocusGoal != "" {
		fmt.Printf("  Focus session started: %q (%d min target)\n", flagFocusGoal, flagFocusMinutes)
	} else {
		fmt.Printf("  Focus session started (%d min target)\n", flagFocusMinutes)
	}
	fmt.Println("  Ctrl-C to stop early.")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			engine.Stop()
			printFocusResult(engine.Snapshot())
			return nil
		case <-engine.Done():
			engine.Stop()
			fmt.Println("\n  Target reached!")
			printFocusResult(engine.Snapshot())
			return nil
		case <-ticker.C:
			writeFocusState(engine.Snapshot())
		}
	}
}

func printFocusResult(snap model.FocusSnapshot) {
	fmt.Println()
	fmt.Printf("  Focused:       %s\n", cli.FormatDuration(snap.FocusSeconds))
	fmt.Printf("  Distracted:    %s\n", cli.FormatDuration(snap.DistractionSecs))
	fmt.Printf("  Interruptions: %d\n", snap.Interruptions)
	fmt.Printf("  Score:         %s\n", cli.FormatScore(snap.Score))
}

func focusGuardPath() string {
	return filepath.Join(config.DataDir(), "focus.lock")
}

// focusStatePath is where a running focus process publishes its live
// snapshot so the tracker daemon and TUI can serve it.
func focusStatePath() string {
	return filepath.Join(config.DataDir(), "focus_state.json")
}

func writeFocusState(snap model.FocusSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = os.WriteFile(focusStatePath(), data, 0o600)
}

func removeFocusState() {
	_ = os.Remove(focusStatePath())
}

// readFocusState returns the live focus snapshot published by a running
// focus or pomodoro process, false when none is active. Snapshots older
// than 10s are treated as leftovers from a crashed run.
func readFocusState() (model.FocusSnapshot, bool) {
	data, err := os.ReadFile(focusStatePath())
	if err != nil {
		return model.FocusSnapshot{}, false
	}
	var snap model.FocusSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.FocusSnapshot{}, false
	}
	if time.Since(snap.At) > 10*time.Second {
		return model.FocusSnapshot{}, false
	}
	return snap, true
}
