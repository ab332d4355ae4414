package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mpyw/ignorefile/internal/registry"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, e := range registry.Default().Entries() {
			def := ""
			if e.Default {
				def = "default"
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name(), def, e.Summary())
		}

		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
