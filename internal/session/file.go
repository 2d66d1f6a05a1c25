package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const sessionsFileName = "sessions.json"

type fileState struct {
	Version int                  `json:"version"`
	Decks   map[string]fileEntry `json:"decks,omitempty"`
}

type fileEntry struct {
	Slide     int   `json:"slide"`
	UpdatedAt int64 `json:"updatedAtUnixMs"`
}

// FileStore keeps every deck's position in one JSON file. It is best effort: a missing or
// corrupted file reads as empty.
type FileStore struct {
	Path string

	mu sync.Mutex
}

func (s *FileStore) Load(_ context.Context, key string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.read()
	if err != nil {
		return 0, false, err
	}
	e, ok := st.Decks[key]
	return e.Slide, ok, nil
}

func (s *FileStore) Save(_ context.Context, key string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(s.Path) == "" {
		return nil
	}
	st, err := s.read()
	if err != nil {
		return err
	}
	if cur, ok := st.Decks[key]; ok && cur.Slide == index {
		return nil
	}
	st.Decks[key] = fileEntry{Slide: index, UpdatedAt: time.Now().UnixMilli()}
	return s.write(st)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (*fileState, error) {
	empty := &fileState{Version: 1, Decks: map[string]fileEntry{}}
	if strings.TrimSpace(s.Path) == "" {
		return empty, nil
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return nil, err
	}
	var st fileState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted; start over.
		return empty, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	if st.Decks == nil {
		st.Decks = map[string]fileEntry{}
	}
	return &st, nil
}

func (s *FileStore) write(st *fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
