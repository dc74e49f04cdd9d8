package consent

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/model"
)

type scripted struct {
	answer string
	err    error
	asked  int
}

func (s *scripted) Ask(string) (string, error) {
	s.asked++
	return s.answer, s.err
}

func installation(t *testing.T) model.Installation {
	t.Helper()
	dir := t.TempDir()
	return model.Installation{
		Dir:           dir,
		Entry:         filepath.Join(dir, "cli.js"),
		Patched:       filepath.Join(dir, "cli-yolo.js"),
		ConsentMarker: filepath.Join(dir, ".claude-yolo-consent"),
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, a := range []string{"yes", "y", "YES", " Y\n", "Yes\r\n"} {
		assert.True(t, IsAffirmative(a), "%q", a)
	}
	for _, a := range []string{"", "no", "n", "yep", "yess", "sure"} {
		assert.False(t, IsAffirmative(a), "%q", a)
	}
}

func TestNeeded(t *testing.T) {
	inst := installation(t)
	assert.True(t, Needed(inst))

	require.NoError(t, os.WriteFile(inst.ConsentMarker, []byte("consent-given"), 0644))
	assert.True(t, Needed(inst), "patched file still missing")

	require.NoError(t, os.WriteFile(inst.Patched, []byte("x"), 0644))
	assert.False(t, Needed(inst))

	require.NoError(t, os.Remove(inst.ConsentMarker))
	assert.True(t, Needed(inst))
}

func TestEnsureAccept(t *testing.T) {
	inst := installation(t)
	p := &scripted{answer: "y\n"}
	var out bytes.Buffer

	require.NoError(t, (&Gate{Prompter: p, Out: &out}).Ensure(inst))
	assert.Equal(t, 1, p.asked)
	assert.Contains(t, out.String(), "CONSENT REQUIRED")
	assert.Contains(t, out.String(), "YOLO MODE APPROVED")

	data, err := os.ReadFile(inst.ConsentMarker)
	require.NoError(t, err)
	assert.Equal(t, "consent-given", string(data))
}

func TestEnsureDecline(t *testing.T) {
	inst := installation(t)
	var out bytes.Buffer

	err := (&Gate{Prompter: &scripted{answer: "nope"}, Out: &out}).Ensure(inst)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.ErrConsentDeclined))
	assert.Equal(t, 1, apperr.ExitCode(err))
	assert.Contains(t, out.String(), "Aborted. YOLO mode not activated.")
	assert.False(t, model.Exists(inst.ConsentMarker))
	assert.False(t, model.Exists(inst.Patched))
}

func TestEnsureSkipsWhenRecorded(t *testing.T) {
	inst := installation(t)
	require.NoError(t, os.WriteFile(inst.ConsentMarker, []byte("consent-given"), 0644))
	require.NoError(t, os.WriteFile(inst.Patched, []byte("x"), 0644))

	p := &scripted{answer: "no"}
	var out bytes.Buffer
	require.NoError(t, (&Gate{Prompter: p, Out: &out}).Ensure(inst))
	assert.Zero(t, p.asked)
	assert.Empty(t, out.String())
}

func TestEnsureMarkerWriteFailureIsIgnored(t *testing.T) {
	inst := installation(t)
	inst.ConsentMarker = filepath.Join(inst.Dir, "missing", ".claude-yolo-consent")

	err := (&Gate{Prompter: &scripted{answer: "yes"}, Out: &bytes.Buffer{}}).Ensure(inst)
	assert.NoError(t, err)
}

func TestEnsurePromptError(t *testing.T) {
	inst := installation(t)
	err := (&Gate{Prompter: &scripted{err: errors.New("tty gone")}, Out: &bytes.Buffer{}}).Ensure(inst)
	require.Error(t, err)
	assert.False(t, apperr.HasCode(err, apperr.ErrConsentDeclined))
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := &LinePrompter{In: strings.NewReader("yes\nignored\n"), Out: &out}
	answer, err := p.Ask("continue? ")
	require.NoError(t, err)
	assert.Equal(t, "yes\n", answer)
	assert.Contains(t, out.String(), "continue? ")

	// EOF without a newline still returns what was typed.
	p = &LinePrompter{In: strings.NewReader("y"), Out: &out}
	answer, err = p.Ask("again? ")
	require.NoError(t, err)
	assert.Equal(t, "y", answer)
}

func TestNewPrompterWithoutTTY(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, ok := NewPrompter(r, w).(*LinePrompter)
	assert.True(t, ok)
}
