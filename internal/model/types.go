package model

import "strings"

// Version of the wrapper. Overridden at build time via
// -ldflags "-X claude-yolo/internal/model.Version=x.y.z".
var Version = "0.4.0"

// Mode selects how the wrapped CLI is launched.
type Mode string

const (
	ModeYOLO Mode = "YOLO" // patched entry file, permission prompts bypassed
	ModeSAFE Mode = "SAFE" // pristine entry file, untouched safety checks
)

// DefaultMode is used whenever no valid mode has been persisted.
const DefaultMode = ModeYOLO

// ParseMode maps user or file input onto a Mode. It is case-insensitive and
// ignores surrounding whitespace.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ModeYOLO):
		return ModeYOLO, true
	case string(ModeSAFE):
		return ModeSAFE, true
	}
	return "", false
}

func (m Mode) String() string { return string(m) }

// Installation describes a resolved copy of the wrapped CLI package.
type Installation struct {
	Root          string // Directory holding the wrapper's package.json
	Dir           string // Directory of the wrapped package (node_modules/...)
	Entry         string // Pristine entry file (cli.js or cli.mjs)
	Patched       string // Patched sibling written in YOLO mode
	ConsentMarker string // Presence records one-time consent for this Dir
	Variant       string // ".js" or ".mjs"
	Local         bool   // Dir lives under Root rather than the global prefix
}

// Scope reports where the installation came from, for diagnostics.
func (i Installation) Scope() string {
	if i.Local {
		return "LOCAL"
	}
	return "GLOBAL"
}
