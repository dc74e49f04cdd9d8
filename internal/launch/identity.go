package launch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"text/template"
	"time"

	"claude-yolo/internal/logging"
)

const (
	// FakeUID is reported instead of 0 during the override window.
	FakeUID = 1000
	// OverrideWindow is how long the fake identity stays in place after the
	// wrapped program starts.
	OverrideWindow = 100 * time.Millisecond

	shimName = ".claude-yolo-uid.cjs"
)

var shimTemplate = template.Must(template.New("shim").Parse(`'use strict';
if (typeof process.getuid === 'function') {
  const originalGetuid = process.getuid;
  process.getuid = () => {{.UID}};
  setTimeout(() => { process.getuid = originalGetuid; }, {{.WindowMS}}).unref();
}
`))

// IdentityScope makes the wrapped program see a non-root uid for a short
// window after startup. It works by preloading a shim into node; Release
// removes the shim and is safe to call more than once.
type IdentityScope struct {
	path    string
	once    sync.Once
	release error
}

// RenderShim returns the preload script for uid and window.
func RenderShim(uid int, window time.Duration) ([]byte, error) {
	var buf bytes.Buffer
	err := shimTemplate.Execute(&buf, struct {
		UID      int
		WindowMS int64
	}{uid, window.Milliseconds()})
	if err != nil {
		return nil, fmt.Errorf("render identity shim: %w", err)
	}
	return buf.Bytes(), nil
}

// BeginIdentityOverride writes the shim into dir.
func BeginIdentityOverride(dir string, uid int, window time.Duration) (*IdentityScope, error) {
	data, err := RenderShim(uid, window)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, shimName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("write identity shim: %w", err)
	}
	logger := logging.GetLogger("launch")
	logger.Debug().Str("path", path).Int("uid", uid).Dur("window", window).Msg("Identity override armed")
	return &IdentityScope{path: path}, nil
}

// NodeArgs are the interpreter options that load the shim.
func (s *IdentityScope) NodeArgs() []string {
	if s == nil {
		return nil
	}
	return []string{"--require", s.path}
}

// Path returns the shim location.
func (s *IdentityScope) Path() string { return s.path }

// Release removes the shim.
func (s *IdentityScope) Release() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			s.release = err
		}
	})
	return s.release
}
