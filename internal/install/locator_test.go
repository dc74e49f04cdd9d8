package install

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claude-yolo/internal/apperr"
)

const pkg = "@anthropic-ai/claude-code"

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

type fakeGlobal struct {
	root string
	err  error
}

func (f fakeGlobal) GlobalRoot(context.Context) (string, error) { return f.root, f.err }

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "package.json"),
		`{"name":"home","dependencies":{"@anthropic-ai/claude-code":"latest"}}`)
	deep := filepath.Join(root, "node_modules", "claude-yolo", "bin")
	require.NoError(t, os.MkdirAll(deep, 0755))

	// Nested manifests win over outer ones.
	inner := filepath.Join(root, "node_modules", "claude-yolo")
	writeJSON(t, filepath.Join(inner, "package.json"), `{"name":"claude-yolo","version":"0.4.0"}`)

	assert.Equal(t, inner, FindRoot(deep, pkg))
	assert.Equal(t, root, FindRoot(filepath.Join(root, "node_modules"), pkg))
}

func TestFindRootSkipsUnrelatedManifests(t *testing.T) {
	home := t.TempDir()
	writeJSON(t, filepath.Join(home, "package.json"),
		`{"name":"my-app","scripts":{"build":"tsc"},"dependencies":{"react":"^18.0.0"}}`)
	bin := filepath.Join(home, "go", "bin")
	require.NoError(t, os.MkdirAll(bin, 0755))
	writeJSON(t, filepath.Join(home, "go", "package.json"), `not json`)

	assert.Equal(t, "", FindRoot(bin, pkg))

	fallback := filepath.Join(t.TempDir(), "claude-yolo")
	l := &Locator{Package: pkg, Start: bin, Fallback: fallback}
	root, err := l.ResolveRoot()
	require.NoError(t, err)
	assert.Equal(t, fallback, root)

	data, err := os.ReadFile(filepath.Join(home, "package.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), pkg)
}

func TestFindRootAcceptsDevDependency(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "package.json"),
		`{"name":"tools","devDependencies":{"@anthropic-ai/claude-code":"1.0.0"}}`)
	assert.Equal(t, root, FindRoot(filepath.Join(root, "bin"), pkg))
}

func TestFindRootNone(t *testing.T) {
	assert.Equal(t, "", FindRoot(filepath.Join(t.TempDir(), "a", "b"), pkg))
}

func TestResolvePrefersJS(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "cli.js"))
	touch(t, filepath.Join(dir, "cli.mjs"))

	inst, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cli.js"), inst.Entry)
	assert.Equal(t, filepath.Join(dir, "cli-yolo.js"), inst.Patched)
	assert.Equal(t, filepath.Join(dir, ".claude-yolo-consent"), inst.ConsentMarker)
	assert.Equal(t, ".js", inst.Variant)
}

func TestResolveFallsBackToMJS(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "cli.mjs"))

	inst, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cli.mjs"), inst.Entry)
	assert.Equal(t, filepath.Join(dir, "cli-yolo.mjs"), inst.Patched)
	assert.Equal(t, ".mjs", inst.Variant)
}

func TestResolveMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve(dir)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.ErrNotFound))
	assert.Contains(t, err.Error(), dir)
}

func TestLocateUsesLocalPackage(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "node_modules", "@anthropic-ai", "claude-code", "cli.js"))

	l := &Locator{Package: pkg}
	inst, err := l.Locate(root)
	require.NoError(t, err)
	assert.Equal(t, root, inst.Root)
	assert.True(t, inst.Local)
	assert.Equal(t, "LOCAL", inst.Scope())
}

func TestResolveRootOrder(t *testing.T) {
	explicit := t.TempDir()
	l := &Locator{Package: pkg, Root: explicit, Start: "/nonexistent"}
	root, err := l.ResolveRoot()
	require.NoError(t, err)
	assert.Equal(t, explicit, root)

	found := t.TempDir()
	writeJSON(t, filepath.Join(found, "package.json"), `{"name":"claude-yolo"}`)
	start := filepath.Join(found, "bin")
	require.NoError(t, os.MkdirAll(start, 0755))
	l = &Locator{Package: pkg, Start: start, Fallback: filepath.Join(t.TempDir(), "data")}
	root, err = l.ResolveRoot()
	require.NoError(t, err)
	assert.Equal(t, found, root)
}

func TestResolveRootBootstrapsFallback(t *testing.T) {
	fallback := filepath.Join(t.TempDir(), "claude-yolo")
	l := &Locator{Package: pkg, Start: t.TempDir(), Fallback: fallback}

	root, err := l.ResolveRoot()
	require.NoError(t, err)
	assert.Equal(t, fallback, root)

	data, err := os.ReadFile(filepath.Join(fallback, "package.json"))
	require.NoError(t, err)
	var manifest struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, "latest", manifest.Dependencies[pkg])
}

func TestBootstrapKeepsExistingManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{"dependencies":{}}`), 0644))

	require.NoError(t, Bootstrap(dir, pkg))
	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Equal(t, `{"dependencies":{}}`, string(data))
}

func TestResolveRootNothingFound(t *testing.T) {
	l := &Locator{Package: pkg, Start: t.TempDir()}
	_, err := l.ResolveRoot()
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.ErrNotFound))
}

func TestGlobalDir(t *testing.T) {
	ctx := context.Background()
	globalRoot := t.TempDir()

	l := &Locator{Package: pkg, Global: fakeGlobal{root: globalRoot}}
	assert.Equal(t, "", l.GlobalDir(ctx))

	dir := filepath.Join(globalRoot, "@anthropic-ai", "claude-code")
	require.NoError(t, os.MkdirAll(dir, 0755))
	assert.Equal(t, dir, l.GlobalDir(ctx))

	l.Global = fakeGlobal{err: errors.New("npm missing")}
	assert.Equal(t, "", l.GlobalDir(ctx))

	l.Global = nil
	assert.Equal(t, "", l.GlobalDir(ctx))
}
