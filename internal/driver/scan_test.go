package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"obanlint/internal/check"
	"obanlint/internal/driver"
	"obanlint/internal/source"
	"obanlint/internal/token"
)

const flaggedWorker = `defmodule MyApp.FlaggedWorker do
  use Oban.Worker

  def perform(_job) do
    Ecto.Multi.new()
    |> Repo.transaction()
  end
end
`

const cleanWorker = `defmodule MyApp.CleanWorker do
  use Oban.Worker

  def perform(_job) do
    Ecto.Multi.new()
    |> Repo.transaction()
    |> case do
      {:ok, _} -> :ok
      {:error, _step, reason, _changes} -> {:error, reason}
    end
  end
end
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func TestListSourceFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"lib/a_worker.ex":          flaggedWorker,
		"lib/nested/b_worker.ex":   cleanWorker,
		"test/c_test.exs":          cleanWorker,
		"lib/readme.md":            "not elixir",
		"_build/dev/generated.ex":  flaggedWorker,
		"deps/oban/lib/worker.ex":  flaggedWorker,
		".elixir_ls/ignored.ex":    flaggedWorker,
		"node_modules/x/bundle.ex": flaggedWorker,
	})

	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		t.Fatalf("ListSourceFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %v", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Errorf("files not sorted: %v", files)
		}
	}
}

func TestScanDirFindsIssues(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"lib/bad_worker.ex":  flaggedWorker,
		"lib/good_worker.ex": cleanWorker,
	})

	fs, results, err := driver.ScanDir(context.Background(), dir, driver.ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if fs == nil || len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}

	// deterministic order: bad_worker.ex sorts first
	if len(results[0].Issues) != 1 {
		t.Errorf("bad worker issues = %v", results[0].Issues)
	}
	if len(results[1].Issues) != 0 {
		t.Errorf("good worker issues = %v", results[1].Issues)
	}
	if results[0].Bag.Len() != 1 || !results[0].Bag.HasWarnings() {
		t.Errorf("bad worker bag = %v", results[0].Bag.Items())
	}
}

func TestScanDirEmpty(t *testing.T) {
	dir := t.TempDir()
	_, results, err := driver.ScanDir(context.Background(), dir, driver.ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestScanDirCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"lib/w.ex": flaggedWorker})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := driver.ScanDir(ctx, dir, driver.ScanOptions{})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestScanFileCustomOptions(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.ex", []byte(flaggedWorker))

	res := driver.ScanFile(fs, id, driver.ScanOptions{
		Check: check.Options{FrameworkTail: "Quantum"},
	})
	if len(res.Issues) != 0 {
		t.Errorf("Quantum gate must skip an Oban worker, got %v", res.Issues)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("w.ex", []byte(flaggedWorker))
	opts := check.DefaultOptions()

	if _, ok := cache.Lookup(fs, id, opts); ok {
		t.Fatal("unexpected cache hit before store")
	}

	res := driver.ScanFile(fs, id, driver.ScanOptions{Check: opts})
	cache.Store(fs, id, opts, res)

	got, ok := cache.Lookup(fs, id, opts)
	if !ok {
		t.Fatal("expected cache hit after store")
	}
	if !got.FromCache {
		t.Error("FromCache not set")
	}
	if len(got.Issues) != 1 || got.Issues[0].Trigger != res.Issues[0].Trigger {
		t.Errorf("cached issues = %v, want %v", got.Issues, res.Issues)
	}
	if got.Issues[0].Span != res.Issues[0].Span {
		t.Errorf("cached span = %v, want %v", got.Issues[0].Span, res.Issues[0].Span)
	}
	if got.Bag.Len() != 1 {
		t.Errorf("cached bag len = %d", got.Bag.Len())
	}
}

func TestDiskCacheKeyDependsOnOptions(t *testing.T) {
	cache, err := driver.OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("w.ex", []byte(flaggedWorker))
	opts := check.DefaultOptions()

	res := driver.ScanFile(fs, id, driver.ScanOptions{Check: opts})
	cache.Store(fs, id, opts, res)

	other := opts
	other.BuilderTail = "Batch"
	if _, ok := cache.Lookup(fs, id, other); ok {
		t.Fatal("different options must not share cache entries")
	}
}

func TestDiskCacheSkipsFilesWithParseErrors(t *testing.T) {
	cache, err := driver.OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("broken.ex", []byte("defmodule M do\n  )\nend\n"))
	opts := check.DefaultOptions()

	res := driver.ScanFile(fs, id, driver.ScanOptions{Check: opts})
	if res.Bag.Len() == 0 {
		t.Fatal("expected parse diagnostics")
	}
	cache.Store(fs, id, opts, res)
	if _, ok := cache.Lookup(fs, id, opts); ok {
		t.Fatal("files with parse diagnostics must not be cached")
	}
}

func TestNilCacheIsNoOp(t *testing.T) {
	var cache *driver.DiskCache
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.ex", []byte(flaggedWorker))
	opts := check.DefaultOptions()

	if _, ok := cache.Lookup(fs, id, opts); ok {
		t.Fatal("nil cache must miss")
	}
	cache.Store(fs, id, opts, driver.FileResult{})
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll on nil cache: %v", err)
	}
}

func TestTokenizeFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.ex", []byte("defmodule M do\nend\n"))

	tokens, bag := driver.TokenizeFile(fs, id, 16)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		t.Fatalf("token stream must end with EOF, got %v", tokens)
	}
}
