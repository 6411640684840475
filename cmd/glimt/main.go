package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"glimt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "glimt",
	Short: "Template signature checker",
	Long:  `glimt checks invocation traces against inferred template signatures`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|always|never)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per trace (0 = configured default)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
