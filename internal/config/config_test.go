package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"deck-cli/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Transition.Type != "horizontal" || cfg.Transition.DurationMS != 500 {
		t.Errorf("expected horizontal 500ms default transition, got %q %d", cfg.Transition.Type, cfg.Transition.DurationMS)
	}
	if !cfg.Navigation.Keyboard || !cfg.Navigation.Touch || cfg.Navigation.Loop {
		t.Errorf("unexpected navigation defaults %+v", cfg.Navigation)
	}
	if !cfg.CenterContent.Vertical || !cfg.CenterContent.Horizontal {
		t.Errorf("expected centering on both axes by default")
	}
	if !cfg.URLHash || cfg.ShowHelpOnStart {
		t.Errorf("expected url_hash on and show_help_on_start off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deck.yml")

	original := DefaultConfig()
	original.Theme = "dracula"
	original.ContentPath = "talk.md"
	original.Navigation.Loop = true
	original.Transition.Type = "fade"
	original.Transition.DurationMS = 250
	original.Transition.Overlap = "queue"
	original.CenterContent.Horizontal = false
	original.Overview.Columns = 3
	original.Session.Backend = "sqlite"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Theme != "dracula" || loaded.ContentPath != "talk.md" {
		t.Errorf("theme/content_path: got %q %q", loaded.Theme, loaded.ContentPath)
	}
	if !loaded.Navigation.Loop {
		t.Errorf("navigation.loop: expected true")
	}
	if loaded.Transition != original.Transition {
		t.Errorf("transition: got %+v, want %+v", loaded.Transition, original.Transition)
	}
	if loaded.CenterContent.Horizontal || !loaded.CenterContent.Vertical {
		t.Errorf("center_content: got %+v", loaded.CenterContent)
	}
	if loaded.Overview.Columns != 3 || loaded.Session.Backend != "sqlite" {
		t.Errorf("overview/session: got %d %q", loaded.Overview.Columns, loaded.Session.Backend)
	}
	if !loaded.Plugins["progress"].Enabled {
		t.Errorf("expected plugin settings to round-trip")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if cfg.Theme != DefaultConfig().Theme {
		t.Errorf("expected defaults, got theme %q", cfg.Theme)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yml")
	body := "transition:\n  type: vertical\nplugins:\n  timer:\n    enabled: true\n    options:\n      minutes: 20\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Transition.Type != "vertical" || cfg.Transition.DurationMS != 500 {
		t.Errorf("expected vertical with the default duration, got %+v", cfg.Transition)
	}
	if !cfg.Plugins["timer"].Enabled || !cfg.Plugins["progress"].Enabled {
		t.Errorf("expected file plugins merged over defaults, got %+v", cfg.Plugins)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DECK_THEME", "light")
	t.Setenv("DECK_TRANSITION__DURATION_MS", "120")
	t.Setenv("DECK_CENTER_CONTENT__VERTICAL", "false")
	t.Setenv("DECK_CONFIG", "/ignored.yml")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("theme: got %q", cfg.Theme)
	}
	if cfg.Transition.DurationMS != 120 {
		t.Errorf("transition.duration_ms: got %d", cfg.Transition.DurationMS)
	}
	if cfg.CenterContent.Vertical {
		t.Errorf("center_content.vertical: expected false")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"transition type", func(c *Config) { c.Transition.Type = "spin" }},
		{"overlap", func(c *Config) { c.Transition.Overlap = "merge" }},
		{"duration", func(c *Config) { c.Transition.DurationMS = -1 }},
		{"columns", func(c *Config) { c.Overview.Columns = -2 }},
		{"session backend", func(c *Config) { c.Session.Backend = "redis" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transition.Type = "slide"
	cfg.Transition.DurationMS = 300
	cfg.Transition.Overlap = "ignore"
	cfg.Navigation.Loop = true

	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("EngineOptions: %v", err)
	}
	want := model.TransitionSpec{Type: model.TransitionSlide, Duration: 300 * time.Millisecond, Overlap: model.OverlapIgnore}
	if opts.Transition != want {
		t.Errorf("transition: got %+v, want %+v", opts.Transition, want)
	}
	if !opts.Navigation.Loop || !opts.URLHash || opts.OverviewColumns != 4 {
		t.Errorf("unexpected options %+v", opts)
	}

	cfg.Transition.Type = "spin"
	if _, err := cfg.EngineOptions(); err == nil {
		t.Errorf("expected invalid config to be rejected")
	}
}
