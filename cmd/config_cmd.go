package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE:  runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(config.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	if config.Exists() {
		fmt.Printf("# %s\n\n", config.ConfigPath())
	} else {
		fmt.Printf("# %s (not written yet — showing defaults)\n\n", config.ConfigPath())
	}

	// Never print the API key.
	if cfg.AI.APIKey != "" {
		cfg.AI.APIKey = "****"
	}

	enc := toml.NewEncoder(os.Stdout)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
