package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [packages]",
	Short: "List the entities each rule is suppressed on",
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&flagTests, "tests", false, "Include test packages")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	r, err := newRunner(cmd)
	if err != nil {
		return err
	}

	res, err := r.Resolve(cmd.Context(), patternsOf(args))
	if err != nil {
		return err
	}

	for _, f := range res.Files {
		r.Logger.Debug("read ignore file", "file", f)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, rule := range res.Store.Rules() {
		for _, e := range res.Store.Entities(rule) {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", rule, e.Kind(), e.FullName())
		}
	}

	return tw.Flush()
}
