package config

import "deck-cli/internal/plugin"

// Config is the top-level deck configuration, corresponding to deck.yml.
type Config struct {
	Theme           string                   `yaml:"theme" koanf:"theme"`
	Content         string                   `yaml:"content,omitempty" koanf:"content"`
	ContentPath     string                   `yaml:"content_path,omitempty" koanf:"content_path"`
	HeaderPath      string                   `yaml:"header_path,omitempty" koanf:"header_path"`
	FooterPath      string                   `yaml:"footer_path,omitempty" koanf:"footer_path"`
	Navigation      NavigationConfig         `yaml:"navigation" koanf:"navigation"`
	Transition      TransitionConfig         `yaml:"transition" koanf:"transition"`
	CenterContent   CenterContentConfig      `yaml:"center_content" koanf:"center_content"`
	URLHash         bool                     `yaml:"url_hash" koanf:"url_hash"`
	ShowHelpOnStart bool                     `yaml:"show_help_on_start" koanf:"show_help_on_start"`
	Overview        OverviewConfig           `yaml:"overview" koanf:"overview"`
	Plugins         map[string]plugin.Config `yaml:"plugins,omitempty" koanf:"plugins"`
	Session         SessionConfig            `yaml:"session" koanf:"session"`
	Remote          RemoteConfig             `yaml:"remote" koanf:"remote"`
	Log             LogConfig                `yaml:"log" koanf:"log"`
}

type NavigationConfig struct {
	Keyboard bool `yaml:"keyboard" koanf:"keyboard"`
	Touch    bool `yaml:"touch" koanf:"touch"`
	Loop     bool `yaml:"loop" koanf:"loop"`
}

// TransitionConfig describes slide changes. Overlap is one of restart, queue or ignore.
type TransitionConfig struct {
	Type       string `yaml:"type" koanf:"type"`
	DurationMS int    `yaml:"duration_ms" koanf:"duration_ms"`
	Easing     string `yaml:"easing,omitempty" koanf:"easing"`
	Overlap    string `yaml:"overlap" koanf:"overlap"`
}

type CenterContentConfig struct {
	Vertical   bool `yaml:"vertical" koanf:"vertical"`
	Horizontal bool `yaml:"horizontal" koanf:"horizontal"`
}

type OverviewConfig struct {
	Columns int `yaml:"columns" koanf:"columns"`
}

// SessionConfig selects where the last viewed slide is remembered: file, sqlite, memory or none.
type SessionConfig struct {
	Backend string `yaml:"backend" koanf:"backend"`
	Path    string `yaml:"path,omitempty" koanf:"path"`
}

type RemoteConfig struct {
	Addr string `yaml:"addr" koanf:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file,omitempty" koanf:"file"`
}
