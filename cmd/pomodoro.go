package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/cli"
	"github.com/theirongolddev/lookout/internal/config"
	"github.com/theirongolddev/lookout/internal/focus"
	"github.com/theirongolddev/lookout/internal/guard"
	"github.com/theirongolddev/lookout/internal/observe"
	"github.com/theirongolddev/lookout/internal/oracle"
)

var (
	flagPomoWork      int
	flagPomoBreak     int
	flagPomoLongBreak int
)

var pomodoroCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Run focus work/break cycles with a long break every 4th cycle",
	RunE:  runPomodoro,
}

func init() {
	pomodoroCmd.Flags().IntVar(&flagPomoWork, "work", 0, "Work phase minutes (default from config)")
	pomodoroCmd.Flags().IntVar(&flagPomoBreak, "break", 0, "Break phase minutes (default from config)")
	pomodoroCmd.Flags().IntVar(&flagPomoLongBreak, "long-break", 0, "Long break minutes (default from config)")
	rootCmd.AddCommand(pomodoroCmd)
}

func runPomodoro(_ *cobra.Command, _ []string) error {
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

	work := flagPomoWork
	if work <= 0 {
		work = cfg.Focus.WorkMinutes
	}
	brk := flagPomoBreak
	if brk <= 0 {
		brk = cfg.Focus.BreakMinutes
	}
	longBrk := flagPomoLongBreak
	if longBrk <= 0 {
		longBrk = cfg.Focus.LongBreakMin
	}

	pomo := focus.NewPomodoro(focus.PomodoroConfig{
		Observer:       observe.NewExecObserver(windowCmd),
		Oracle:         oracle.NewClient(config.APIKey(cfg), cfg.AI.Model, cfg.AI.BaseURL),
		Guard:          guard.NewFileGuard(focusGuardPath()),
		Sink:           db,
		WorkMinutes:    work,
		BreakMinutes:   brk,
		LongBreakMin:   longBrk,
		Interval:       cfg.PollInterval(),
		ExtraWhitelist: cfg.Focus.ExtraWhitelist,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := pomo.Start(ctx); err != nil {
		return err
	}
	defer removeFocusState()

	fmt.Printf("  Pomodoro started: %dm work / %dm break, %dm long break every 4th cycle\n",
		work, brk, longBrk)
	fmt.Println("  Ctrl-C to stop.")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	lastPhase := focus.PhaseWork
	for {
		select {
		case <-ctx.Done():
			cycle := pomo.Snapshot().Cycle
			pomo.Stop()
			fmt.Println()
			fmt.Printf("  Cycles completed: %d\n", cycle-1)
			// The persisted row carries the run totals across all phases.
			if recs, err := db.RecentFocusSessions(1); err == nil && len(recs) > 0 {
				fmt.Printf("  Focused:          %s\n", cli.FormatDuration(recs[0].FocusSeconds))
				fmt.Printf("  Distracted:       %s\n", cli.FormatDuration(recs[0].DistractionSecs))
				fmt.Printf("  Score:            %s\n", cli.FormatScore(recs[0].Score))
			}
			return nil
		case <-ticker.C:
			snap := pomo.Snapshot()
			writeFocusState(snap)
			if snap.Phase != lastPhase {
				lastPhase = snap.Phase
				if snap.Phase == focus.PhaseBreak {
					fmt.Printf("  Break time (cycle %d done)\n", snap.Cycle)
				} else {
					fmt.Printf("  Back to work (cycle %d)\n", snap.Cycle)
				}
			}
		}
	}
}
