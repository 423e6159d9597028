// Package config loads and saves lookout configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all lookout configuration.
type Config struct {
	Tracker    TrackerConfig     `toml:"tracker"`
	Sampler    SamplerConfig     `toml:"sampler"`
	History    HistoryConfig     `toml:"history"`
	Focus      FocusConfig       `toml:"focus"`
	AI         AIConfig          `toml:"ai"`
	Appearance AppearanceConfig  `toml:"appearance"`
	Categories CategoryOverrides `toml:"categories"`
}

// TrackerConfig controls the session tracker loop.
type TrackerConfig struct {
	PollIntervalMS int    `toml:"poll_interval_ms"`
	MinDurationSec int    `toml:"min_duration_sec"`
	WindowCommand  string `toml:"window_command,omitempty"`
	Addr           string `toml:"addr,omitempty"`
}

// SamplerConfig controls process telemetry sampling.
type SamplerConfig struct {
	IntervalSec int `toml:"interval_sec"`
	TopN        int `toml:"top_n"`
}

// HistoryConfig controls the optional browser-history sync.
type HistoryConfig struct {
	Enabled     bool   `toml:"enabled"`
	IntervalMin int    `toml:"interval_min"`
	DBPath      string `toml:"db_path,omitempty"`
}

// FocusConfig controls focus/pomodoro runs.
type FocusConfig struct {
	ExtraWhitelist []string `toml:"extra_whitelist,omitempty"`
	WorkMinutes    int      `toml:"work_minutes"`
	BreakMinutes   int      `toml:"break_minutes"`
	LongBreakMin   int      `toml:"long_break_minutes"`
}

// AIConfig holds relevance-oracle settings.
type AIConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	Model   string `toml:"model,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// CategoryOverrides maps app-name substrings to category names, applied
// before the built-in rule table.
type CategoryOverrides struct {
	Apps map[string]string `toml:"apps,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Tracker: TrackerConfig{
			PollIntervalMS: 1000,
			MinDurationSec: 2,
			Addr:           "127.0.0.1:8790",
		},
		Sampler: SamplerConfig{
			IntervalSec: 30,
			TopN:        10,
		},
		History: HistoryConfig{
			IntervalMin: 5,
		},
		Focus: FocusConfig{
			WorkMinutes:  25,
			BreakMinutes: 5,
			LongBreakMin: 15,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// PollInterval returns the tracker poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	if c.Tracker.PollIntervalMS <= 0 {
		return time.Second
	}
	return time.Duration(c.Tracker.PollIntervalMS) * time.Millisecond
}

// MinDuration returns the shortest session worth persisting.
func (c Config) MinDuration() time.Duration {
	if c.Tracker.MinDurationSec < 0 {
		return 0
	}
	return time.Duration(c.Tracker.MinDurationSec) * time.Second
}

// SampleInterval returns the telemetry sampling cadence.
func (c Config) SampleInterval() time.Duration {
	if c.Sampler.IntervalSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Sampler.IntervalSec) * time.Second
}

// HistoryInterval returns the browser-history sync cadence.
func (c Config) HistoryInterval() time.Duration {
	if c.History.IntervalMin <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.History.IntervalMin) * time.Minute
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lookout")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lookout")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database,
// pid files, and the focus lock.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "lookout")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "lookout")
}

// DatabasePath returns the default SQLite database path.
func DatabasePath() string {
	return filepath.Join(DataDir(), "lookout.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// APIKey returns the oracle API key from env var or config, in that order.
func APIKey(cfg Config) string {
	if key := os.Getenv("LOOKOUT_API_KEY"); key != "" {
		return key
	}
	return cfg.AI.APIKey
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
