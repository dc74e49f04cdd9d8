// Package config loads wrapper settings from an optional YAML file under the
// user's XDG config directory, then applies CLAUDE_YOLO_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"claude-yolo/internal/apperr"
)

const (
	AppName = "claude-yolo"

	// DefaultPackage is the npm package being wrapped.
	DefaultPackage = "@anthropic-ai/claude-code"
)

// Environment overrides.
const (
	EnvPackage     = "CLAUDE_YOLO_PACKAGE"
	EnvInstallRoot = "CLAUDE_YOLO_ROOT"
	EnvNodeBin     = "CLAUDE_YOLO_NODE"
	EnvNpmBin      = "CLAUDE_YOLO_NPM"
	EnvRegistry    = "CLAUDE_YOLO_REGISTRY"
	EnvSkipUpdate  = "CLAUDE_YOLO_SKIP_UPDATE"
	EnvConfigFile  = "CLAUDE_YOLO_CONFIG"
)

// Config holds the settings the pipeline needs.
type Config struct {
	Package     string `yaml:"package"`
	InstallRoot string `yaml:"install_root"`
	NodeBin     string `yaml:"node_bin"`
	NpmBin      string `yaml:"npm_bin"`
	RegistryURL string `yaml:"registry_url"`
	SkipUpdate  bool   `yaml:"skip_update"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Package: DefaultPackage,
		NodeBin: "node",
		NpmBin:  "npm",
	}
}

// FilePath returns the config file location. CLAUDE_YOLO_CONFIG wins;
// otherwise an existing file is searched for in the XDG config dirs, falling
// back to the path it would have under XDG_CONFIG_HOME.
func FilePath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	rel := filepath.Join(AppName, "config.yaml")
	if p, err := xdg.SearchConfigFile(rel); err == nil {
		return p
	}
	return filepath.Join(xdg.ConfigHome, rel)
}

// Load reads the config file (a missing file is fine) and applies the
// environment on top.
func Load() (*Config, error) {
	return LoadFile(FilePath())
}

// LoadFile is Load with an explicit file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperr.Wrapf(err, apperr.ErrConfig, "parse config %s", path)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, apperr.Wrapf(err, apperr.ErrConfig, "read config %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPackage); v != "" {
		c.Package = v
	}
	if v := os.Getenv(EnvInstallRoot); v != "" {
		c.InstallRoot = v
	}
	if v := os.Getenv(EnvNodeBin); v != "" {
		c.NodeBin = v
	}
	if v := os.Getenv(EnvNpmBin); v != "" {
		c.NpmBin = v
	}
	if v := os.Getenv(EnvRegistry); v != "" {
		c.RegistryURL = v
	}
	if v := os.Getenv(EnvSkipUpdate); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperr.Wrapf(err, apperr.ErrConfig, "invalid %s=%q", EnvSkipUpdate, v)
		}
		c.SkipUpdate = b
	}
	return nil
}

// fillDefaults restores defaults for keys a config file explicitly blanked.
func (c *Config) fillDefaults() {
	d := Default()
	if strings.TrimSpace(c.Package) == "" {
		c.Package = d.Package
	}
	if c.NodeBin == "" {
		c.NodeBin = d.NodeBin
	}
	if c.NpmBin == "" {
		c.NpmBin = d.NpmBin
	}
	c.RegistryURL = strings.TrimRight(c.RegistryURL, "/")
}

// DataDir is the per-user directory used as the install root when the
// wrapper is not itself sitting inside an npm package.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// String renders the config for debug logs.
func (c *Config) String() string {
	return fmt.Sprintf("package=%s root=%q node=%s npm=%s registry=%q skip_update=%t",
		c.Package, c.InstallRoot, c.NodeBin, c.NpmBin, c.RegistryURL, c.SkipUpdate)
}
