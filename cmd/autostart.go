package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/autostart"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage the tracker as an OS login service",
}

var autostartInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the tracker to start at login",
	RunE: func(_ *cobra.Command, _ []string) error {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
		path, err := autostart.Install(exe)
		if err != nil {
			return err
		}
		fmt.Printf("  Login service written to %s\n", path)
		printAutostartHint()
		return nil
	},
}

var autostartUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the login service",
	RunE: func(_ *cobra.Command, _ []string) error {
		path, err := autostart.Uninstall()
		if err != nil {
			return err
		}
		fmt.Printf("  Removed %s\n", path)
		return nil
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the login service is installed",
	RunE: func(_ *cobra.Command, _ []string) error {
		ok, err := autostart.Installed()
		if err != nil {
			return err
		}
		path, _ := autostart.Path()
		if ok {
			fmt.Printf("  Installed: %s\n", path)
		} else {
			fmt.Printf("  Not installed (would live at %s)\n", path)
		}
		return nil
	},
}

func init() {
	autostartCmd.AddCommand(autostartInstallCmd)
	autostartCmd.AddCommand(autostartUninstallCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
	rootCmd.AddCommand(autostartCmd)
}

func printAutostartHint() {
	if runtime.GOOS == "linux" {
		fmt.Println("  Enable with: systemctl --user enable --now lookout")
	}
}
