// Package install finds the wrapper's install root and the wrapped CLI
// package inside it.
package install

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"claude-yolo/internal/apperr"
	"claude-yolo/internal/logging"
	"claude-yolo/internal/model"
	"claude-yolo/internal/npm"
)

const (
	ManifestName      = "package.json"
	ConsentMarkerName = ".claude-yolo-consent"
)

// entryVariants lists the entry file names in probe order with the name of
// the patched sibling for each.
var entryVariants = []struct {
	ext, entry, patched string
}{
	{".js", "cli.js", "cli-yolo.js"},
	{".mjs", "cli.mjs", "cli-yolo.mjs"},
}

// GlobalLocator answers where npm keeps global packages.
type GlobalLocator interface {
	GlobalRoot(ctx context.Context) (string, error)
}

// Locator resolves the Installation used for a run.
type Locator struct {
	Package string
	// Root, when set, is used as the install root as-is.
	Root string
	// Start is where the upward manifest search begins, usually the
	// directory of the running executable.
	Start string
	// Fallback is bootstrapped as install root when the search finds nothing.
	Fallback string
	Global   GlobalLocator
}

// WrapperName is the npm package name of the wrapper itself.
const WrapperName = "claude-yolo"

// FindRoot walks upward from start until it finds a package.json that
// belongs to the wrapper: one named claude-yolo or one that already depends
// on pkg. Unrelated manifests are skipped. It returns "" when the
// filesystem root is reached first.
func FindRoot(start, pkg string) string {
	dir := filepath.Clean(start)
	for {
		if ownsManifest(filepath.Join(dir, ManifestName), pkg) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func ownsManifest(path, pkg string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var m struct {
		Name                 string            `json:"name"`
		Dependencies         map[string]string `json:"dependencies"`
		DevDependencies      map[string]string `json:"devDependencies"`
		OptionalDependencies map[string]string `json:"optionalDependencies"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		logger := logging.GetLogger("install")
		logger.Debug().Err(err).Str("path", path).Msg("Skipping unreadable manifest")
		return false
	}
	if m.Name == WrapperName {
		return true
	}
	for _, deps := range []map[string]string{m.Dependencies, m.DevDependencies, m.OptionalDependencies} {
		if _, ok := deps[pkg]; ok {
			return true
		}
	}
	return false
}

// ResolveRoot picks the install root: the explicit Root, then the upward
// search from Start, then the bootstrapped Fallback.
func (l *Locator) ResolveRoot() (string, error) {
	logger := logging.GetLogger("install")

	if l.Root != "" {
		return filepath.Abs(l.Root)
	}
	if l.Start != "" {
		if root := FindRoot(l.Start, l.Package); root != "" {
			logger.Debug().Str("root", root).Msg("Found install root")
			return root, nil
		}
	}
	if l.Fallback == "" {
		return "", apperr.Newf(apperr.ErrNotFound, "no %s found above %s", ManifestName, l.Start)
	}
	if err := Bootstrap(l.Fallback, l.Package); err != nil {
		return "", err
	}
	logger.Debug().Str("root", l.Fallback).Msg("Using per-user install root")
	return l.Fallback, nil
}

// Bootstrap creates dir with a minimal manifest depending on pkg@latest,
// unless a manifest is already there.
func Bootstrap(dir, pkg string) error {
	manifest := filepath.Join(dir, ManifestName)
	if model.Exists(manifest) {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperr.Wrapf(err, apperr.ErrFileWrite, "create %s", dir)
	}
	data, err := json.MarshalIndent(map[string]any{
		"name":         "claude-yolo-home",
		"private":      true,
		"dependencies": map[string]string{pkg: "latest"},
	}, "", "  ")
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal, "encode manifest")
	}
	if err := os.WriteFile(manifest, append(data, '\n'), 0644); err != nil {
		return apperr.Wrapf(err, apperr.ErrFileWrite, "write %s", manifest)
	}
	return nil
}

// GlobalDir returns the wrapped package's global installation directory, or
// "" when there is none. Failures are logged and otherwise ignored.
func (l *Locator) GlobalDir(ctx context.Context) string {
	logger := logging.GetLogger("install")
	if l.Global == nil {
		return ""
	}
	root, err := l.Global.GlobalRoot(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("Error finding global installation")
		return ""
	}
	logger.Debug().Str("path", root).Msg("Global node_modules")

	dir := npm.PackageDir(root, l.Package)
	if !model.IsDir(dir) {
		return ""
	}
	logger.Debug().Str("path", dir).Msg("Found global installation")
	return dir
}

// Locate resolves the local installation under root. The local copy is
// always used, even when a global one exists, because the patch rules
// target the locally installed build.
func (l *Locator) Locate(root string) (model.Installation, error) {
	dir := npm.PackageDir(filepath.Join(root, "node_modules"), l.Package)
	inst, err := Resolve(dir)
	if err != nil {
		return inst, err
	}
	inst.Root = root
	inst.Local = true

	logger := logging.GetLogger("install")
	logger.Debug().
		Str("dir", inst.Dir).
		Str("entry", inst.Entry).
		Str("scope", inst.Scope()).
		Msg("Using installation")
	return inst, nil
}

// Resolve fills in the entry file paths for a package directory, preferring
// cli.js over cli.mjs.
func Resolve(dir string) (model.Installation, error) {
	for _, v := range entryVariants {
		entry := filepath.Join(dir, v.entry)
		if model.Exists(entry) {
			return model.Installation{
				Dir:           dir,
				Entry:         entry,
				Patched:       filepath.Join(dir, v.patched),
				ConsentMarker: filepath.Join(dir, ConsentMarkerName),
				Variant:       v.ext,
			}, nil
		}
	}
	return model.Installation{Dir: dir}, apperr.Newf(apperr.ErrNotFound,
		"Claude CLI not found in %s. Make sure the package is installed", dir)
}
