package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/autostart"
	"github.com/theirongolddev/lookout/internal/config"
	"github.com/theirongolddev/lookout/internal/history"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	windowCmd := cfg.Tracker.WindowCommand
	apiKey := cfg.AI.APIKey
	themeName := cfg.Appearance.Theme
	if themeName == "" {
		themeName = "flexoki-dark"
	}
	historySync := cfg.History.Enabled
	installAutostart := false

	historyNote := "No Chromium history database found."
	if p := history.DefaultDBPath(); p != "" {
		historyNote = "Found: " + p
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Window command").
				Description("Shell command printing \"app<TAB>title<TAB>pid\" for the foreground window. Leave empty for the xdotool default.").
				Value(&windowCmd),
			huh.NewInput().
				Title("Anthropic API key").
				Description("Used by focus sessions to judge browser-tab relevance. Optional; LOOKOUT_API_KEY also works.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Flexoki Dark", "flexoki-dark"),
					huh.NewOption("Terminal (ANSI)", "terminal"),
				).
				Value(&themeName),
			huh.NewConfirm().
				Title("Import browser history?").
				Description(historyNote).
				Value(&historySync),
			huh.NewConfirm().
				Title("Start the tracker at login?").
				Value(&installAutostart),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing written.")
			return nil
		}
		return err
	}

	cfg.Tracker.WindowCommand = windowCmd
	cfg.AI.APIKey = apiKey
	cfg.Appearance.Theme = themeName
	cfg.History.Enabled = historySync

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("  Config written to %s\n", config.ConfigPath())

	if installAutostart {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
		path, err := autostart.Install(exe)
		if err != nil {
			return fmt.Errorf("installing login service: %w", err)
		}
		fmt.Printf("  Login service written to %s\n", path)
		printAutostartHint()
	}

	fmt.Println("  Run `lookout track --detach` to start tracking.")
	return nil
}
