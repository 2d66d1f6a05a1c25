// Package plugin defines the lifecycle contract between the deck engine and plugins,
// plus an explicit registry. Plugins are registered by the host application; nothing is
// discovered from the filesystem.
package plugin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"deck-cli/internal/dom"
	"deck-cli/internal/model"
	"deck-cli/internal/sched"

	"github.com/sirupsen/logrus"
)

// Host is the engine surface handed to plugins.
type Host interface {
	GoToSlide(i int)
	NextSlide()
	PreviousSlide()
	ToggleOverview()

	CurrentSlide() int
	TotalSlides() int
	Slides() []model.Slide
	Container() *dom.Element

	On(event string, fn model.Listener)
	Emit(event string, ev model.Event)

	Scheduler() sched.Scheduler
	Logger() logrus.FieldLogger
}

type Config struct {
	Enabled bool           `yaml:"enabled" koanf:"enabled"`
	Options map[string]any `yaml:"options" koanf:"options"`
}

// String returns option key as a string, or def.
func (c Config) String(key, def string) string {
	if v, ok := c.Options[key]; ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}

// Bool returns option key as a bool, or def.
func (c Config) Bool(key string, def bool) bool {
	if v, ok := c.Options[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns option key as an int, or def. YAML numbers and numeric strings from the
// environment are both accepted.
func (c Config) Int(key string, def int) int {
	v, ok := c.Options[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

type Plugin interface {
	Name() string
	Init(h Host, cfg Config) error
}

// Destroyer is implemented by plugins that hold resources.
type Destroyer interface {
	Destroy()
}

// Toggler is implemented by plugins that can be paused at runtime.
type Toggler interface {
	SetEnabled(on bool)
	IsEnabled() bool
}

type Factory func() (Plugin, error)

type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory. Registering the same name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("plugin: empty name")
	}
	if f == nil {
		return fmt.Errorf("plugin %s: nil factory", name)
	}
	if _, ok := r.factories[name]; ok {
		return errDuplicate(name)
	}
	r.factories[name] = f
	return nil
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.factories))
	for n := range r.factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// New constructs the named plugin. A panicking factory is reported as an error.
func (r *Registry) New(name string) (p Plugin, err error) {
	if r == nil {
		return nil, errUnknown(name)
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, errUnknown(name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = fmt.Errorf("plugin %s: constructor panicked: %v", name, rec)
		}
	}()
	p, err = f()
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", name, err)
	}
	if p == nil {
		return nil, fmt.Errorf("plugin %s: factory returned nil", name)
	}
	return p, nil
}

// SafeInit calls p.Init, turning a panic into an error.
func SafeInit(p Plugin, h Host, cfg Config) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plugin %s: init panicked: %v", p.Name(), rec)
		}
	}()
	if err := p.Init(h, cfg); err != nil {
		return fmt.Errorf("plugin %s: %w", p.Name(), err)
	}
	return nil
}

// SafeDestroy calls Destroy when p implements it, swallowing panics.
func SafeDestroy(p Plugin, log logrus.FieldLogger) {
	d, ok := p.(Destroyer)
	if !ok {
		return
	}
	defer func() {
		if rec := recover(); rec != nil && log != nil {
			log.WithField("plugin", p.Name()).Errorf("destroy panicked: %v", rec)
		}
	}()
	d.Destroy()
}
