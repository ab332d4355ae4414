package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune [packages]",
	Short: "Comment out stale ignore entries using saved findings",
	Long: "Reads findings written by `check --json` from a run without the ignore file and comments out every " +
		"ignore entry that suppresses none of them.",
	RunE: runPrune,
}

var flagFindings string

func init() {
	pruneCmd.Flags().StringVarP(&flagFindings, "findings", "f", "", "Path to the findings JSON file, or - for stdin (required)")
	pruneCmd.Flags().BoolVar(&flagTests, "tests", false, "Include test packages")

	if err := pruneCmd.MarkFlagRequired("findings"); err != nil {
		panic(fmt.Sprintf("failed to mark findings flag as required: %v", err))
	}

	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	r, err := newRunner(cmd)
	if err != nil {
		return err
	}

	var data []byte
	if flagFindings == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(flagFindings)
	}
	if err != nil {
		return fmt.Errorf("failed to read findings: %w", err)
	}

	pruned, err := r.Prune(cmd.Context(), patternsOf(args), data)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(pruned))
	for f := range pruned {
		files = append(files, f)
	}
	slices.Sort(files)

	for _, f := range files {
		for _, line := range pruned[f] {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: commented out\n", f, line)
		}
	}

	return nil
}
