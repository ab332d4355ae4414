package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mpyw/ignorefile"
	"github.com/mpyw/ignorefile/internal/directives/inline"
	"github.com/mpyw/ignorefile/internal/findings"
)

// unusedRule is the rule name unused //ignorefile:ignore comments are
// reported under.
const unusedRule = "ignorefile"

var checkCmd = &cobra.Command{
	Use:   "check [packages]",
	Short: "Run rules and report unsuppressed findings",
	Long: "Runs the selected rules over the packages (default ./...) and prints every finding not suppressed " +
		"by the ignore file or an //ignorefile:ignore comment. With --auto-update, ignore entries that " +
		"suppress nothing are commented out first.",
	RunE: runCheck,
}

var (
	flagAutoUpdate   bool
	flagJSON         bool
	flagRules        []string
	flagTests        bool
	flagSequential   bool
	flagReportUnused bool
)

func init() {
	f := checkCmd.Flags()
	f.BoolVar(&flagAutoUpdate, "auto-update", false, "Comment out ignore entries that suppress no finding")
	f.BoolVar(&flagJSON, "json", false, "Print findings as JSON")
	f.StringSliceVar(&flagRules, "rules", nil, "Rules to run (default: the default rules)")
	f.BoolVar(&flagTests, "tests", false, "Include test packages")
	f.BoolVar(&flagSequential, "sequential", false, "Run analyzers one package at a time")
	f.BoolVar(&flagReportUnused, "report-unused", false, "Report //ignorefile:ignore comments that suppress nothing")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, err := newRunner(cmd)
	if err != nil {
		return err
	}

	report, err := r.Check(cmd.Context(), patternsOf(args))
	if err != nil {
		return err
	}

	out := slices.Concat(report.Findings, unusedFindings(report.Unused))

	if flagJSON {
		if err := findings.Encode(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	} else {
		printFindings(cmd.OutOrStdout(), out)
	}

	r.Logger.Debug("check summary",
		"total", report.Total,
		"suppressed", report.Suppressed(),
		"unused", len(report.Unused),
	)

	if len(out) > 0 {
		return errFindings
	}

	return nil
}

func unusedFindings(us []inline.Unused) []ignorefile.Finding {
	out := make([]ignorefile.Finding, 0, len(us))
	for _, u := range us {
		msg := "unused //ignorefile:ignore directive"
		if len(u.Rules) > 0 {
			msg = fmt.Sprintf("unused //ignorefile:ignore directive for %v", u.Rules)
		}

		out = append(out, ignorefile.Finding{
			Rule:     unusedRule,
			Target:   u.Entity,
			Location: u.Entity,
			Pos:      u.Pos,
			Message:  msg,
		})
	}

	return out
}

func printFindings(w io.Writer, fs []ignorefile.Finding) {
	for _, f := range fs {
		_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", f.Pos, f.Message, f.Rule)
	}
}
