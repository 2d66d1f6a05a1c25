package config

import (
	"deck-cli/internal/model"
	"deck-cli/internal/plugin"
	"deck-cli/internal/session"
)

const DefaultRemoteAddr = "127.0.0.1:7077"

// DefaultConfig returns a Config with the engine's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme: "dark",
		Navigation: NavigationConfig{
			Keyboard: true,
			Touch:    true,
			Loop:     false,
		},
		Transition: TransitionConfig{
			Type:       string(model.TransitionHorizontal),
			DurationMS: int(model.DefaultTransitionDuration.Milliseconds()),
			Overlap:    string(model.OverlapRestart),
		},
		CenterContent: CenterContentConfig{
			Vertical:   true,
			Horizontal: true,
		},
		URLHash:         true,
		ShowHelpOnStart: false,
		Overview:        OverviewConfig{Columns: 4},
		Plugins: map[string]plugin.Config{
			"progress": {Enabled: true},
			"counter":  {Enabled: true},
		},
		Session: SessionConfig{Backend: session.BackendFile},
		Remote:  RemoteConfig{Addr: DefaultRemoteAddr},
		Log:     LogConfig{Level: "info"},
	}
}
