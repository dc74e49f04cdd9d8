// Package consent implements the one-time confirmation required before the
// first YOLO launch of an installation.
package consent

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/logging"
	"claude-yolo/internal/model"
	"claude-yolo/internal/tui"
)

const markerContent = "consent-given"

// Prompter asks a question and blocks until it is answered.
type Prompter interface {
	Ask(question string) (string, error)
}

// LinePrompter reads one line from In. EOF counts as an empty answer.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *LinePrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.Out, tui.WarnStyle.Render(question))
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}

// TUIPrompter asks through an inline bubbletea program.
type TUIPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *TUIPrompter) Ask(question string) (string, error) {
	return tui.Ask(p.In, p.Out, question)
}

// NewPrompter picks the bubbletea prompt when both streams are terminals and
// the line reader otherwise.
func NewPrompter(in, out *os.File) Prompter {
	if isTerminal(in) && isTerminal(out) {
		return &TUIPrompter{In: in, Out: out}
	}
	return &LinePrompter{In: in, Out: out}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsAffirmative accepts "yes" or "y" in any case.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	}
	return false
}

// Gate asks for consent when an installation has none on record.
type Gate struct {
	Prompter Prompter
	Out      io.Writer
}

// Needed reports whether the prompt must be shown: the patched file or the
// consent marker is missing.
func Needed(inst model.Installation) bool {
	return !model.Exists(inst.Patched) || !model.Exists(inst.ConsentMarker)
}

// Ensure prompts if Needed and records the answer. A refusal returns an
// ErrConsentDeclined error and leaves the installation untouched. Failure to
// write the marker is logged and otherwise ignored.
func (g *Gate) Ensure(inst model.Installation) error {
	logger := logging.GetLogger("consent")
	if !Needed(inst) {
		logger.Debug().Str("marker", inst.ConsentMarker).Msg("Consent already given")
		return nil
	}

	tui.WriteConsentBanner(g.Out)
	answer, err := g.Prompter.Ask(tui.ConsentQuestion)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal, "read consent answer")
	}

	if !IsAffirmative(answer) {
		fmt.Fprintf(g.Out, "\n%s\n", tui.InfoStyle.Render("Aborted. YOLO mode not activated."))
		fmt.Fprintln(g.Out, "If you want the official Claude CLI with normal safety features, run:")
		fmt.Fprintln(g.Out, "claude")
		return apperr.New(apperr.ErrConsentDeclined, "consent declined")
	}
	fmt.Fprintf(g.Out, "\n%s\n", tui.WarnStyle.Render(model.IconFire+" YOLO MODE APPROVED "+model.IconFire))

	if err := os.WriteFile(inst.ConsentMarker, []byte(markerContent), 0644); err != nil {
		logger.Debug().Err(err).Str("marker", inst.ConsentMarker).Msg("Error creating consent flag file")
	} else {
		logger.Debug().Str("marker", inst.ConsentMarker).Msg("Created consent flag file")
	}
	return nil
}
