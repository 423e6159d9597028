package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/config"
	"github.com/theirongolddev/lookout/internal/store"
)

var (
	flagDBPath string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "lookout",
	Short: "Personal activity and focus tracker",
	Long:  "Track foreground window activity, run focus sessions, and report on where your time goes.",
	RunE:  runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database path (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig loads the config file, falling back to defaults so every
// command works before `lookout setup` has run.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Config unreadable (%v), using defaults\n", err)
		}
		return config.DefaultConfig()
	}
	return cfg
}

// openStore opens the session database, honoring --db.
func openStore() (*store.Store, error) {
	path := flagDBPath
	if path == "" {
		path = config.DatabasePath()
	}
	return store.Open(path)
}
