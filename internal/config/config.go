// Package config loads deck settings from YAML and DECK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"deck-cli/internal/deck"
	"deck-cli/internal/model"
	"deck-cli/internal/session"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "DECK_"

// Load reads configuration from the given YAML file, then overlays environment variable
// overrides (DECK_THEME, DECK_TRANSITION__TYPE, ...). A missing file yields defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// A double underscore marks nesting so keys that contain "_" stay intact:
	// DECK_CENTER_CONTENT__VERTICAL -> center_content.vertical.
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	switch s {
	// Owned by the CLI flags, not config keys.
	case "config", "data_dir", "color_profile", "theme_mode":
		return ""
	}
	return strings.ReplaceAll(s, "__", ".")
}

// DefaultPath is deck.yml under the user config directory.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "deck.yml"
	}
	return filepath.Join(base, "deck", "deck.yml")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validSessionBackends = map[string]bool{
	session.BackendFile:   true,
	session.BackendSQLite: true,
	session.BackendMemory: true,
	session.BackendNone:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if _, ok := model.ParseTransitionType(c.Transition.Type); c.Transition.Type != "" && !ok {
		return fmt.Errorf("invalid transition.type %q: must be one of horizontal, vertical, fade, slide", c.Transition.Type)
	}
	if _, ok := model.ParseOverlapPolicy(c.Transition.Overlap); !ok {
		return fmt.Errorf("invalid transition.overlap %q: must be one of restart, queue, ignore", c.Transition.Overlap)
	}
	if c.Transition.DurationMS < 0 {
		return fmt.Errorf("transition.duration_ms must be non-negative")
	}
	if c.Overview.Columns < 0 {
		return fmt.Errorf("overview.columns must be non-negative")
	}
	if b := strings.ToLower(c.Session.Backend); b != "" && !validSessionBackends[b] {
		return fmt.Errorf("invalid session.backend %q: must be one of file, sqlite, memory, none", c.Session.Backend)
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	return nil
}

// EngineOptions maps the config onto engine options. Host-side fields (document, scheduler,
// location, session, logger, registry) are left for the caller.
func (c *Config) EngineOptions() (deck.Options, error) {
	if err := c.Validate(); err != nil {
		return deck.Options{}, err
	}
	typ, _ := model.ParseTransitionType(c.Transition.Type)
	overlap, _ := model.ParseOverlapPolicy(c.Transition.Overlap)

	return deck.Options{
		Theme:       c.Theme,
		Content:     c.Content,
		ContentPath: c.ContentPath,
		HeaderPath:  c.HeaderPath,
		FooterPath:  c.FooterPath,
		Navigation: model.NavigationConfig{
			Keyboard: c.Navigation.Keyboard,
			Touch:    c.Navigation.Touch,
			Loop:     c.Navigation.Loop,
		},
		Transition: model.TransitionSpec{
			Type:     typ,
			Duration: time.Duration(c.Transition.DurationMS) * time.Millisecond,
			Easing:   c.Transition.Easing,
			Overlap:  overlap,
		},
		CenterContent: model.CenterContentConfig{
			Vertical:   c.CenterContent.Vertical,
			Horizontal: c.CenterContent.Horizontal,
		},
		URLHash:         c.URLHash,
		ShowHelpOnStart: c.ShowHelpOnStart,
		OverviewColumns: c.Overview.Columns,
		Plugins:         c.Plugins,
	}, nil
}
