// Package engine runs analyzers over a loaded program and turns their
// diagnostics into findings.
package engine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/checker"

	"github.com/mpyw/ignorefile"
	"github.com/mpyw/ignorefile/internal/corpus/goload"
)

// Options configures [Run].
type Options struct {
	Sequential bool // disable parallel analysis
	Logger     *slog.Logger
}

// Run applies analyzers to the root packages of prog. Findings are located
// in prog's corpus and sorted by position. Analyzer failures are returned
// together with the findings of the analyzers that succeeded.
func Run(ctx context.Context, prog *goload.Program, analyzers []*analysis.Analyzer, opts Options) ([]ignorefile.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	graph, err := checker.Analyze(analyzers, prog.Packages, &checker.Options{Sequential: opts.Sequential})
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	var (
		findings []ignorefile.Finding
		errs     []error
	)

	for _, act := range graph.Roots {
		if act.Err != nil {
			errs = append(errs, fmt.Errorf("%s on %s: %w", act.Analyzer.Name, act.Package.PkgPath, act.Err))

			continue
		}

		for _, d := range act.Diagnostics {
			e := prog.Locate(d.Pos)
			findings = append(findings, ignorefile.Finding{
				Rule:     act.Analyzer.Name,
				Target:   e,
				Location: e,
				Pos:      act.Package.Fset.Position(d.Pos),
				Message:  d.Message,
			})
		}
	}

	slices.SortFunc(findings, compareFindings)

	logger.Debug("analysis done", "analyzers", len(analyzers), "packages", len(prog.Packages), "findings", len(findings))

	return findings, errors.Join(errs...)
}

func compareFindings(a, b ignorefile.Finding) int {
	return cmp.Or(
		strings.Compare(a.Pos.Filename, b.Pos.Filename),
		cmp.Compare(a.Pos.Line, b.Pos.Line),
		cmp.Compare(a.Pos.Column, b.Pos.Column),
		strings.Compare(a.Rule, b.Rule),
		strings.Compare(a.Message, b.Message),
	)
}
