// Package session remembers the last viewed slide per deck across runs.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store persists one slide index per deck key.
type Store interface {
	Load(ctx context.Context, key string) (index int, ok bool, err error)
	Save(ctx context.Context, key string, index int) error
	Close() error
}

// Open returns the store for backend. path is a file for "file" and a database for "sqlite";
// an empty path resolves under DataDir.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		if path == "" {
			dir, err := DataDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, sessionsFileName)
		}
		return &FileStore{Path: path}, nil
	case BackendSQLite:
		if path == "" {
			dir, err := DataDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "sessions.sqlite")
		}
		st, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendNone:
		return nil, nil
	default:
		return nil, errUnknownBackend(backend)
	}
}

// DataDir is where stores keep their files. DECK_DATA_DIR overrides it.
func DataDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("DECK_DATA_DIR")); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "deck"), nil
}

// Key derives a stable identity for a deck source. Local paths are made absolute first so
// the same file resumes regardless of the working directory.
func Key(source string) string {
	source = strings.TrimSpace(source)
	if source != "" && !strings.Contains(source, "://") {
		if abs, err := filepath.Abs(source); err == nil {
			source = abs
		}
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source)).String()
}

// Memory keeps indices for the lifetime of the process.
type Memory struct {
	mu      sync.Mutex
	indices map[string]int
}

func NewMemory() *Memory { return &Memory{indices: map[string]int{}} }

func (m *Memory) Load(_ context.Context, key string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.indices[key]
	return i, ok, nil
}

func (m *Memory) Save(_ context.Context, key string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indices[key] = index
	return nil
}

func (m *Memory) Close() error { return nil }

// Handle binds a store to one deck. It is the engine's view of the session: reads and writes
// are best effort and failures are only logged.
type Handle struct {
	store Store
	key   string
	ctx   context.Context
	log   logrus.FieldLogger
}

func NewHandle(ctx context.Context, store Store, key string, log logrus.FieldLogger) *Handle {
	if log == nil {
		l := logrus.New()
		l.SetOutput(discard{})
		log = l
	}
	return &Handle{store: store, key: key, ctx: ctx, log: log.WithField("session", key)}
}

func (h *Handle) LastSlide() (int, bool) {
	if h == nil || h.store == nil {
		return 0, false
	}
	i, ok, err := h.store.Load(h.ctx, h.key)
	if err != nil {
		h.log.WithError(err).Warn("load session")
		return 0, false
	}
	if !ok || i < 0 {
		return 0, false
	}
	return i, true
}

func (h *Handle) SetLastSlide(i int) {
	if h == nil || h.store == nil {
		return
	}
	if err := h.store.Save(h.ctx, h.key, i); err != nil {
		h.log.WithError(err).WithField("index", i).Warn("save session")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

type unknownBackendError struct{ backend string }

func (e unknownBackendError) Error() string {
	return fmt.Sprintf("unknown session backend %q (expected file, sqlite, memory or none)", e.backend)
}

func errUnknownBackend(b string) error { return unknownBackendError{backend: b} }
