package config

import (
	"testing"
	"time"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Tracker.WindowCommand = "echo test"
	cfg.Focus.ExtraWhitelist = []string{"spotify"}
	cfg.Categories.Apps = map[string]string{"blender": "Productivity"}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("config file missing after Save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Tracker.WindowCommand != "echo test" {
		t.Errorf("WindowCommand = %q", loaded.Tracker.WindowCommand)
	}
	if len(loaded.Focus.ExtraWhitelist) != 1 || loaded.Focus.ExtraWhitelist[0] != "spotify" {
		t.Errorf("ExtraWhitelist = %v", loaded.Focus.ExtraWhitelist)
	}
	if loaded.Categories.Apps["blender"] != "Productivity" {
		t.Errorf("Categories.Apps = %v", loaded.Categories.Apps)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tracker.PollIntervalMS != 1000 {
		t.Errorf("PollIntervalMS = %d, want default 1000", cfg.Tracker.PollIntervalMS)
	}
	if cfg.Focus.WorkMinutes != 25 {
		t.Errorf("WorkMinutes = %d, want default 25", cfg.Focus.WorkMinutes)
	}
}

func TestIntervalClamps(t *testing.T) {
	var cfg Config // all zero

	if got := cfg.PollInterval(); got != time.Second {
		t.Errorf("PollInterval zero = %v, want 1s", got)
	}
	if got := cfg.SampleInterval(); got != 30*time.Second {
		t.Errorf("SampleInterval zero = %v, want 30s", got)
	}
	if got := cfg.HistoryInterval(); got != 5*time.Minute {
		t.Errorf("HistoryInterval zero = %v, want 5m", got)
	}
	if got := cfg.MinDuration(); got != 0 {
		t.Errorf("MinDuration zero = %v, want 0", got)
	}
}

func TestAPIKeyEnvWins(t *testing.T) {
	cfg := Config{}
	cfg.AI.APIKey = "from-config"

	t.Setenv("LOOKOUT_API_KEY", "from-env")
	if got := APIKey(cfg); got != "from-env" {
		t.Errorf("APIKey = %q, want env value", got)
	}

	t.Setenv("LOOKOUT_API_KEY", "")
	if got := APIKey(cfg); got != "from-config" {
		t.Errorf("APIKey = %q, want config value", got)
	}
}
