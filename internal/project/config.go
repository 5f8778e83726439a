// Package project locates and loads the .obanlint.toml project
// configuration. Loading is lenient: a missing file means defaults, and
// unknown keys are reported but never fatal.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"obanlint/internal/check"
)

// ConfigFileName is the manifest searched for from the scan directory up.
const ConfigFileName = ".obanlint.toml"

// CheckConfig is the [check] section: the name tails and result tags the
// rule matches on. Empty fields fall back to the built-in defaults.
type CheckConfig struct {
	BuilderTail   string `toml:"builder_tail"`
	ExecutorTail  string `toml:"executor_tail"`
	FrameworkTail string `toml:"framework_tail"`
	FailureTag    string `toml:"failure_tag"`
	SuccessTag    string `toml:"success_tag"`
}

// ScanConfig is the [scan] section.
type ScanConfig struct {
	// Jobs bounds scan parallelism; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// Cache enables the per-file result cache.
	Cache bool `toml:"cache"`
	// CacheDir overrides the default cache location.
	CacheDir string `toml:"cache_dir"`
	// Format is the report format: "pretty" or "json".
	Format string `toml:"format"`
	// MaxDiagnostics caps reported diagnostics per scan; 0 means the
	// built-in cap.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// Config is the full manifest.
type Config struct {
	Check CheckConfig `toml:"check"`
	Scan  ScanConfig  `toml:"scan"`

	// Unknown lists unrecognized keys found while decoding, for warnings.
	Unknown []string `toml:"-"`
}

// Options converts the [check] section to rule options. Empty fields keep
// the rule's built-in defaults.
func (c CheckConfig) Options() check.Options {
	return check.Options{
		BuilderTail:   c.BuilderTail,
		ExecutorTail:  c.ExecutorTail,
		FrameworkTail: c.FrameworkTail,
		FailureTag:    c.FailureTag,
		SuccessTag:    c.SuccessTag,
	}
}

// DefaultConfig returns the configuration used when no manifest exists.
func DefaultConfig() Config {
	return Config{
		Scan: ScanConfig{Cache: true, Format: "pretty"},
	}
}

// FindConfig walks up from startDir to locate the manifest.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
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

// Load parses one manifest file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	if f := strings.TrimSpace(cfg.Scan.Format); f != "" && f != "pretty" && f != "json" {
		return Config{}, fmt.Errorf("%s: unknown scan.format %q", path, f)
	}
	return cfg, nil
}

// LoadFromDir finds and loads the manifest governing startDir. When none
// exists the defaults are returned with ok=false.
func LoadFromDir(startDir string) (cfg Config, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return DefaultConfig(), false, err
	}
	cfg, err = Load(path)
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}
