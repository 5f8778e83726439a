package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"obanlint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "obanlint",
	Short: "Linter for Oban workers that swallow Ecto.Multi errors",
	Long: `obanlint scans Elixir projects for Oban workers that run an Ecto.Multi
through Repo.transaction and return the four-element error tuple, which
Oban silently records as success unless it is narrowed to {:error, reason}.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the target stream.
func useColor(cmd *cobra.Command, out *os.File) bool {
	flag, _ := cmd.Root().PersistentFlags().GetString("color")
	return flag == "on" || (flag == "auto" && isTerminal(out))
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil || n <= 0 {
		return 100
	}
	return n
}
