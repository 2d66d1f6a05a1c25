package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"deck-cli/internal/config"

	"github.com/sirupsen/logrus"
)

// newLogger builds the process logger. The presenter owns the terminal, so without a log file
// everything is discarded.
func newLogger(c config.LogConfig) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	level := logrus.InfoLevel
	if s := strings.TrimSpace(c.Level); s != "" {
		l, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, nil, err
		}
		level = l
	}
	log.SetLevel(level)

	path := strings.TrimSpace(c.File)
	if path == "" {
		log.SetOutput(io.Discard)
		return log, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	log.SetOutput(f)
	return log, func() { _ = f.Close() }, nil
}
