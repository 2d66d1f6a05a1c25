// Package builtin holds the plugins shipped with the deck binary.
package builtin

import (
	"deck-cli/internal/plugin"
)

// RegisterAll adds every builtin plugin to reg.
func RegisterAll(reg *plugin.Registry) error {
	for name, f := range map[string]plugin.Factory{
		ProgressName: func() (plugin.Plugin, error) { return &Progress{}, nil },
		CounterName:  func() (plugin.Plugin, error) { return &Counter{}, nil },
		TimerName:    func() (plugin.Plugin, error) { return &Timer{}, nil },
	} {
		if err := reg.Register(name, f); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns a fresh registry holding the builtins.
func Registry() *plugin.Registry {
	reg := plugin.NewRegistry()
	// Names are distinct constants; registration cannot collide on a new registry.
	_ = RegisterAll(reg)
	return reg
}
