package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"obanlint/internal/project"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, project.ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadSections(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[check]
builder_tail = "Batch"
framework_tail = "Quantum"

[scan]
jobs = 4
cache = false
format = "json"
`)
	cfg, err := project.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Check.BuilderTail != "Batch" || cfg.Check.FrameworkTail != "Quantum" {
		t.Errorf("check section = %+v", cfg.Check)
	}
	if cfg.Check.ExecutorTail != "" {
		t.Errorf("unset key must stay empty, got %q", cfg.Check.ExecutorTail)
	}
	if cfg.Scan.Jobs != 4 || cfg.Scan.Cache || cfg.Scan.Format != "json" {
		t.Errorf("scan section = %+v", cfg.Scan)
	}

	opts := cfg.Check.Options()
	if opts.BuilderTail != "Batch" || opts.ExecutorTail != "" {
		t.Errorf("options bridge = %+v", opts)
	}
}

func TestLoadUnknownKeysCollected(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[check]
builder_tail = "Multi"
typo_key = true
`)
	cfg, err := project.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Unknown) != 1 || cfg.Unknown[0] != "check.typo_key" {
		t.Errorf("unknown keys = %v", cfg.Unknown)
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[scan]
format = "xml"
`)
	if _, err := project.Load(path); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[scan]\ncache = true\n")
	nested := filepath.Join(root, "lib", "my_app", "workers")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := project.FindConfig(nested)
	if err != nil || !ok {
		t.Fatalf("FindConfig: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Errorf("found %q, want file in %q", path, root)
	}
}

func TestLoadFromDirDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, ok, err := project.LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir: %v", err)
	}
	if ok {
		t.Fatal("no manifest exists, ok must be false")
	}
	if !cfg.Scan.Cache || cfg.Scan.Format != "pretty" {
		t.Errorf("defaults = %+v", cfg.Scan)
	}
}
