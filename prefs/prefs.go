// Package prefs persists the user voice-control preferences between runs.
package prefs

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

const muteKey = "voice-control-muted"

// Store keeps each preference as its own file holding a plain value,
// boolean-as-string for the mute flag. Last writer wins.
type Store struct {
	fs  afero.Fs
	dir string
	mu  sync.RWMutex
}

func New(dir string) *Store {
	return NewWithFs(afero.NewOsFs(), dir)
}

func NewWithFs(fs afero.Fs, dir string) *Store {
	return &Store{
		fs:  fs,
		dir: dir,
	}
}

// Muted reads the persisted mute flag. A missing or unreadable value means
// listening is enabled, the first-run default.
func (s *Store) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := afero.ReadFile(s.fs, s.path(muteKey))
	if err != nil {
		return false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(string(b)))
	if err != nil {
		return false
	}
	return v
}

// SetMuted writes the mute flag, creating the store directory on first use.
func (s *Store) SetMuted(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path(muteKey), []byte(strconv.FormatBool(v)), 0o644)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key)
}
