package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xraph/kickstart/lifecycle"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kickstart",
		Short:         "Inspect the bootstrap lifecycle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(catalogCmd(), runCmd())
	return root
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "catalog",
		Short:   "Print the lifecycle checkpoints in firing order",
		Args:    cobra.NoArgs,
		Example: "  kickstart catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeCatalog(cmd.OutOrStdout())
		},
	}
}

func writeCatalog(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCHECKPOINT\tPHASE\tPAYLOAD\tFIRES")
	for _, e := range lifecycle.Catalog() {
		fires := "always"
		if e.Conditional {
			fires = e.Condition
		}
		if e.Repeatable {
			fires += " (repeatable)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Checkpoint.Order(), e.Name, e.Phase, e.Payload, fires)
	}
	return tw.Flush()
}
