package cli

import "fmt"

type noDeckError struct{}

func (noDeckError) Error() string {
	return "no deck given: pass a markdown path or set content_path in the config"
}

func errNoDeck() error { return noDeckError{} }

type invalidConfigError struct {
	path string
	err  error
}

func (e invalidConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.path, e.err)
}

func (e invalidConfigError) Unwrap() error { return e.err }

func errInvalidConfig(path string, err error) error {
	return invalidConfigError{path: path, err: err}
}

type configExistsError struct{ path string }

func (e configExistsError) Error() string {
	return fmt.Sprintf("config already exists: %s (use --force to overwrite)", e.path)
}

func errConfigExists(path string) error { return configExistsError{path: path} }
