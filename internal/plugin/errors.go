package plugin

import "fmt"

type unknownPluginError struct {
	name string
}

func (e unknownPluginError) Error() string {
	return fmt.Sprintf("plugin not registered: %s", e.name)
}

func errUnknown(name string) error {
	return unknownPluginError{name: name}
}

type duplicatePluginError struct {
	name string
}

func (e duplicatePluginError) Error() string {
	return fmt.Sprintf("plugin already registered: %s", e.name)
}

func errDuplicate(name string) error {
	return duplicatePluginError{name: name}
}

// IsUnknown reports whether err came from looking up an unregistered plugin.
func IsUnknown(err error) bool {
	_, ok := err.(unknownPluginError)
	return ok
}
