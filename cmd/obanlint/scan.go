package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"obanlint/internal/diag"
	"obanlint/internal/diagfmt"
	"obanlint/internal/driver"
	"obanlint/internal/project"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [dir]",
	Short: "Scan a directory of Elixir sources for unhandled Multi errors",
	Long: `Scan walks a directory (default .), parses every *.ex and *.exs file
and reports Oban workers whose Repo.transaction result is never narrowed.
Configuration is read from the nearest .obanlint.toml, flags win.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("format", "", "output format (pretty|json), overrides config")
	scanCmd.Flags().Int("jobs", 0, "parallel workers, 0 means GOMAXPROCS")
	scanCmd.Flags().Bool("no-cache", false, "disable the scan result cache")
	scanCmd.Flags().Bool("notes", false, "show secondary notes in pretty output")
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, _, err := project.LoadFromDir(dir)
	if err != nil {
		return err
	}
	for _, key := range cfg.Unknown {
		fmt.Fprintf(os.Stderr, "warning: unknown config key %q\n", key)
	}

	format := cfg.Scan.Format
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format = f
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	jobs := cfg.Scan.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs, _ = cmd.Flags().GetInt("jobs")
	}

	maxDiags := maxDiagnostics(cmd)
	if cfg.Scan.MaxDiagnostics > 0 && !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		maxDiags = cfg.Scan.MaxDiagnostics
	}

	var cache *driver.DiskCache
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Scan.Cache && !noCache {
		cache, err = driver.OpenDiskCache(cfg.Scan.CacheDir)
		if err != nil {
			// a broken cache degrades to a full scan
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
			cache = nil
		}
	}

	fs, results, err := driver.ScanDir(cmd.Context(), dir, driver.ScanOptions{
		MaxDiagnostics: maxDiags,
		Jobs:           jobs,
		Check:          cfg.Check.Options(),
		Cache:          cache,
	})
	if err != nil {
		return err
	}

	bag := diag.NewBag(maxDiags)
	issueCount := 0
	for _, res := range results {
		bag.Merge(res.Bag)
		issueCount += len(res.Issues)
	}
	bag.Sort()

	switch format {
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			PathMode:         diagfmt.PathModeRelative,
		}); err != nil {
			return err
		}
	default:
		showNotes, _ := cmd.Flags().GetBool("notes")
		diagfmt.Pretty(os.Stdout, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stdout),
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: showNotes,
		})
		fmt.Printf("%d file(s) scanned, %d issue(s)\n", len(results), issueCount)
	}

	if issueCount > 0 || bag.HasErrors() {
		return fmt.Errorf("found %d issue(s)", issueCount)
	}
	return nil
}
