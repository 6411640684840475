package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glimt/internal/diagfmt"
	"glimt/internal/registry"
	"glimt/internal/source"
	"glimt/internal/types"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "List built-in primitives and their signatures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := types.NewInterner()
		strs := source.NewInterner()
		table := registry.Default(in, strs)

		out := cmd.OutOrStdout()
		for _, name := range table.Names() {
			entry, _ := table.Lookup(strs.Intern(name))
			if entry.Component {
				fmt.Fprintf(out, "%s\t(entity, ...named) -> wrapper, derived per call site\n", name)
				continue
			}
			for _, overload := range entry.Overloads {
				fmt.Fprintf(out, "%s\t%s\n", name, diagfmt.Signature(in, strs, overload))
			}
		}
		return nil
	},
}
