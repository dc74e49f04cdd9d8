// Package mode persists the YOLO/SAFE selection in a one-line file in the
// user's home directory.
package mode

import (
	"os"
	"path/filepath"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/logging"
	"claude-yolo/internal/model"
)

// StateFileEnv relocates the state file.
const StateFileEnv = "CLAUDE_YOLO_STATE_FILE"

const stateFileName = ".claude_yolo_state"

// DefaultPath returns ~/.claude_yolo_state unless StateFileEnv is set.
func DefaultPath() string {
	if p := os.Getenv(StateFileEnv); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return stateFileName
	}
	return filepath.Join(home, stateFileName)
}

// Store reads and writes the mode file. There is no locking; the last
// writer wins.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Get returns the persisted mode, or model.DefaultMode when the file is
// missing, unreadable or holds anything else.
func (s *Store) Get() model.Mode {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.DefaultMode
	}
	m, ok := model.ParseMode(string(data))
	if !ok {
		logger := logging.GetLogger("mode")
		logger.Debug().Str("path", s.path).Str("content", string(data)).Msg("Unrecognised mode, using default")
		return model.DefaultMode
	}
	return m
}

// Set persists m.
func (s *Store) Set(m model.Mode) error {
	if err := os.WriteFile(s.path, []byte(m.String()), 0644); err != nil {
		return apperr.Wrapf(err, apperr.ErrFileWrite, "save mode to %s", s.path)
	}
	return nil
}
