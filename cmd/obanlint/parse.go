package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"obanlint/internal/diagfmt"
	"obanlint/internal/driver"
	"obanlint/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.ex",
	Short: "Parse one Elixir source file and dump its tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	fs := source.NewFileSet()
	fileID, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	res := driver.ParseOne(fs, fileID, maxDiagnostics(cmd))
	if res.Bag.Len() > 0 {
		res.Bag.Sort()
		diagfmt.Pretty(os.Stderr, res.Bag, fs, diagfmt.PrettyOpts{
			Color: useColor(cmd, os.Stderr),
		})
	}

	return diagfmt.FormatAST(os.Stdout, res.File, fs)
}
