// Package update keeps the locally installed wrapped package in step with
// the registry before each launch.
package update

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"github.com/tcnksm/go-latest"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/logging"
)

// LatestTag is the pinned value meaning "always reinstall".
const LatestTag = "latest"

// Installer reinstalls the dependencies of an install root.
type Installer interface {
	Install(ctx context.Context, dir string) error
}

// Action is what a check decided to do.
type Action int

const (
	ActionNone      Action = iota // pinned version is current
	ActionUpgrade                 // manifest rewritten, dependencies reinstalled
	ActionRefresh                 // pinned to "latest", dependencies reinstalled
	ActionFailed                  // check failed; installation left as is
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionUpgrade:
		return "upgrade"
	case ActionRefresh:
		return "refresh"
	case ActionFailed:
		return "failed"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Result summarises a check.
type Result struct {
	Action Action
	Pinned string
	Latest string
	Global string
	Err    error
}

// Checker compares the pinned dependency version with the registry.
type Checker struct {
	Package   string
	Root      string // directory holding package.json
	GlobalDir string // optional, diagnostics only
	Source    latest.Source
	Installer Installer
	Out       io.Writer // user-facing notices
	ErrOut    io.Writer // failure notice
}

// Check runs the update policy. It never returns an error: failures are
// reported on ErrOut and in Result.Err, and the launch carries on with the
// installation already present.
func (c *Checker) Check(ctx context.Context) Result {
	logger := logging.GetLogger("update")
	logger.Debug().Str("package", c.Package).Msg("Checking for package updates")

	res, err := c.check(ctx)
	if err != nil {
		res.Action = ActionFailed
		res.Err = err
		fmt.Fprintf(c.errOut(), "Error checking for updates: %v\n", err)
		logger.Debug().Err(err).Msgf("%+v", err)
	}
	return res
}

func (c *Checker) check(ctx context.Context) (Result, error) {
	logger := logging.GetLogger("update")
	var res Result

	latestVer, err := LatestVersion(c.Source)
	if err != nil {
		return res, apperr.Wrap(err, apperr.ErrUpdate, "query latest version")
	}
	res.Latest = latestVer
	logger.Debug().Str("version", latestVer).Msg("Latest version on registry")

	manifestPath := filepath.Join(c.Root, "package.json")
	manifest, err := readManifest(manifestPath)
	if err != nil {
		return res, err
	}
	res.Pinned = manifest.dependency(c.Package)
	logger.Debug().Str("version", res.Pinned).Msg("Version from package.json")

	res.Global = c.globalVersion(latestVer)

	switch {
	case res.Pinned == LatestTag:
		logger.Debug().Msg("Using 'latest' tag in package.json, reinstalling to pick up the newest version")
		if err := c.Installer.Install(ctx, c.Root); err != nil {
			return res, apperr.Wrap(err, apperr.ErrUpdate, "npm install")
		}
		res.Action = ActionRefresh
	case !sameVersion(res.Pinned, latestVer):
		from := res.Pinned
		if from == "" {
			from = "unknown"
		}
		fmt.Fprintf(c.out(), "Updating Claude package from %s to %s...\n", from, latestVer)

		if err := manifest.setDependency(c.Package, latestVer); err != nil {
			return res, err
		}
		if err := manifest.write(manifestPath); err != nil {
			return res, err
		}

		fmt.Fprintln(c.out(), "Running npm install to update dependencies...")
		if err := c.Installer.Install(ctx, c.Root); err != nil {
			return res, apperr.Wrap(err, apperr.ErrUpdate, "npm install")
		}
		fmt.Fprintln(c.out(), "Update complete!")
		res.Action = ActionUpgrade
	default:
		res.Action = ActionNone
	}
	return res, nil
}

// globalVersion reads the global installation's version for the debug log.
func (c *Checker) globalVersion(latestVer string) string {
	if c.GlobalDir == "" {
		return ""
	}
	logger := logging.GetLogger("update")

	m, err := readManifest(filepath.Join(c.GlobalDir, "package.json"))
	if err != nil {
		logger.Debug().Err(err).Msg("Error getting global version")
		return ""
	}
	v := m.stringField("version")
	switch {
	case v == "":
	case sameVersion(v, latestVer):
		logger.Debug().Str("version", v).Msg("Global installation is already the latest version")
	default:
		logger.Debug().Str("global", v).Str("latest", latestVer).Msg("Global installation differs from latest")
	}
	return v
}

// sameVersion compares semantically when both sides parse and falls back to
// string equality otherwise, so ranges like "^1.0.0" always count as stale.
func sameVersion(a, b string) bool {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return va.Equal(vb)
}

func (c *Checker) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Checker) errOut() io.Writer {
	if c.ErrOut == nil {
		return os.Stderr
	}
	return c.ErrOut
}
