package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claude-yolo/internal/apperr"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvPackage, EnvInstallRoot, EnvNodeBin, EnvNpmBin, EnvRegistry, EnvSkipUpdate, EnvConfigFile} {
		t.Setenv(k, "")
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `package: "@acme/cli"
install_root: /opt/yolo
node_bin: /usr/local/bin/node
registry_url: https://registry.example.com/
skip_update: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "@acme/cli", cfg.Package)
	assert.Equal(t, "/opt/yolo", cfg.InstallRoot)
	assert.Equal(t, "/usr/local/bin/node", cfg.NodeBin)
	assert.Equal(t, "npm", cfg.NpmBin)
	assert.Equal(t, "https://registry.example.com", cfg.RegistryURL)
	assert.True(t, cfg.SkipUpdate)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node_bin: node18\nskip_update: true\n"), 0644))

	t.Setenv(EnvNodeBin, "node22")
	t.Setenv(EnvSkipUpdate, "false")
	t.Setenv(EnvInstallRoot, "/srv/yolo")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "node22", cfg.NodeBin)
	assert.False(t, cfg.SkipUpdate)
	assert.Equal(t, "/srv/yolo", cfg.InstallRoot)
}

func TestBlankValuesFallBackToDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package: \"\"\nnpm_bin: \"\"\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPackage, cfg.Package)
	assert.Equal(t, "npm", cfg.NpmBin)
}

func TestInvalidInput(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skip_update: [oops\n"), 0644))
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.ErrConfig))

	t.Setenv(EnvSkipUpdate, "sometimes")
	_, err = LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.ErrConfig))
}

func TestFilePathEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigFile, "/etc/claude-yolo.yaml")
	assert.Equal(t, "/etc/claude-yolo.yaml", FilePath())
}
