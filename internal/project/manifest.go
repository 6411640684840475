// Package project locates and decodes glimt.toml, the workspace manifest
// configuring how traces are checked.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded glimt.toml plus where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest file.
type Config struct {
	Check CheckConfig `toml:"check"`
	Cache CacheConfig `toml:"cache"`
}

type CheckConfig struct {
	// MaxDiagnostics bounds the bag per trace; 0 uses the default.
	MaxDiagnostics int `toml:"max_diagnostics"`
	// MaxDepth bounds template-to-template resolution; 0 uses the default.
	MaxDepth int `toml:"max_depth"`
	// Color is "auto", "always", or "never".
	Color string `toml:"color"`
}

type CacheConfig struct {
	Enabled *bool  `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DefaultMaxDiagnostics bounds the per-trace bag when the manifest does
// not say otherwise.
const DefaultMaxDiagnostics = 200

// CacheEnabled defaults to on.
func (c CacheConfig) CacheEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// FindManifest walks up from startDir to locate glimt.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "glimt.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load walks up from startDir and decodes the nearest manifest. A missing
// manifest is not an error; the zero Config applies.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := validate(path, cfg); err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func validate(path string, cfg Config) error {
	switch cfg.Check.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: [check].color must be auto, always, or never", path)
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("%s: [check].max_diagnostics must not be negative", path)
	}
	if cfg.Check.MaxDepth < 0 {
		return fmt.Errorf("%s: [check].max_depth must not be negative", path)
	}
	return nil
}

// MaxDiagnostics resolves the configured bag limit.
func (m *Manifest) MaxDiagnostics() int {
	if m == nil || m.Config.Check.MaxDiagnostics == 0 {
		return DefaultMaxDiagnostics
	}
	return m.Config.Check.MaxDiagnostics
}

// CacheDir resolves the signature cache location relative to the root.
func (m *Manifest) CacheDir() string {
	if m == nil {
		return ""
	}
	dir := m.Config.Cache.Dir
	if dir == "" {
		dir = ".glimt-cache"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, dir)
}
