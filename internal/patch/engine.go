// Package patch rewrites the wrapped CLI's entry file. Output is always
// regenerated from the pristine entry; the original is never modified.
package patch

import (
	"math/rand/v2"
	"os"

	"github.com/rs/zerolog"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/logging"
	"claude-yolo/internal/model"
)

// Outcome records what a single rule did.
type Outcome struct {
	Rule         string
	Applied      bool
	Replacements int
	Skipped      string // reason when not applied
}

// Report lists rule outcomes in application order.
type Report []Outcome

// Applied returns the names of the rules that changed the text.
func (r Report) Applied() []string {
	var names []string
	for _, o := range r {
		if o.Applied {
			names = append(names, o.Rule)
		}
	}
	return names
}

// Outcome returns the outcome for the named rule.
func (r Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r {
		if o.Rule == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Engine applies an ordered rule list.
type Engine struct {
	Rules []Rule
	// Local enables LocalOnly rules.
	Local bool
	// Rand picks loading-message suffixes. Nil means a fresh random source.
	Rand *rand.Rand
}

// NewEngine returns an Engine with the default rules.
func NewEngine(local bool) *Engine {
	return &Engine{Rules: DefaultRules(), Local: local}
}

func (e *Engine) logger() *zerolog.Logger {
	l := logging.GetLogger("patch")
	return &l
}

func (e *Engine) intn(n int) int {
	if e.Rand != nil {
		return e.Rand.IntN(n)
	}
	return rand.IntN(n)
}

// Patch applies every rule to src in order.
func (e *Engine) Patch(src string) (string, Report) {
	log := e.logger()
	report := make(Report, 0, len(e.Rules))

	for _, r := range e.Rules {
		o := Outcome{Rule: r.Name}
		if r.LocalOnly && !e.Local {
			o.Skipped = "not a local installation"
			report = append(report, o)
			continue
		}

		var n int
		src, n = r.Apply(src, e)
		o.Replacements = n
		o.Applied = n > 0
		switch {
		case o.Applied:
			log.Debug().Str("rule", r.Name).Int("replacements", n).Msg("Applied patch rule")
		case r.Anchored:
			o.Skipped = "anchor not found"
			log.Warn().Str("rule", r.Name).Msg("Could not find target string, rule skipped")
		default:
			o.Skipped = "no matches"
			log.Debug().Str("rule", r.Name).Msg("Patch rule matched nothing")
		}
		report = append(report, o)
	}
	return src, report
}

// WriteFile reads the pristine entry of inst, patches it and writes the
// result to inst.Patched.
func (e *Engine) WriteFile(inst model.Installation) (Report, error) {
	done := logging.LogOperationStart(*e.logger(), "patch")
	defer done()

	data, err := os.ReadFile(inst.Entry)
	if err != nil {
		return nil, apperr.Wrapf(err, apperr.ErrFileRead, "read %s", inst.Entry)
	}
	out, report := e.Patch(string(data))
	if err := model.WriteFileAtomic(inst.Patched, []byte(out), 0644); err != nil {
		return report, apperr.Wrapf(err, apperr.ErrFileWrite, "write %s", inst.Patched)
	}
	e.logger().Debug().Str("path", inst.Patched).Strs("applied", report.Applied()).Msg("Created modified CLI")
	return report, nil
}
