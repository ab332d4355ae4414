// Package runner wires loading, analysis and the ignore list together.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/tools/go/analysis"

	"github.com/mpyw/ignorefile"
	"github.com/mpyw/ignorefile/internal/config"
	"github.com/mpyw/ignorefile/internal/corpus/goload"
	"github.com/mpyw/ignorefile/internal/directives/inline"
	"github.com/mpyw/ignorefile/internal/engine"
	"github.com/mpyw/ignorefile/internal/findings"
	"github.com/mpyw/ignorefile/internal/registry"
	"github.com/mpyw/ignorefile/internal/suppress"
)

// ErrNoIgnoreFile is returned by operations that need a directive file
// when none is configured.
var ErrNoIgnoreFile = errors.New("no ignore file configured")

// Runner runs the rules selected by its configuration.
type Runner struct {
	Config   config.Config
	Registry *registry.Registry
	Dir      string // directory packages are loaded from
	Logger   *slog.Logger
}

// Report is the outcome of [Runner.Check].
type Report struct {
	Findings   []ignorefile.Finding // not suppressed
	Total      int                  // findings before suppression
	Pruned     map[string][]int     // directive lines commented out, per file
	Unused     []inline.Unused      // only with ReportUnused
	IgnoreList []string             // directive files read
}

// Suppressed returns the number of findings that were suppressed.
func (r *Report) Suppressed() int {
	return r.Total - len(r.Findings)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return r.Logger
}

func (r *Runner) registry() *registry.Registry {
	if r.Registry == nil {
		return registry.Default()
	}

	return r.Registry
}

func (r *Runner) load(ctx context.Context, patterns []string) (*goload.Program, error) {
	return goload.Load(ctx, patterns, goload.Options{
		Dir:    r.Dir,
		Tests:  r.Config.Tests,
		Logger: r.logger(),
	})
}

func (r *Runner) list(prog *goload.Program, autoUpdate bool, opts ...ignorefile.Option) (*ignorefile.List, error) {
	opts = append([]ignorefile.Option{
		ignorefile.WithAutoUpdate(autoUpdate),
		ignorefile.WithLogger(r.logger()),
		ignorefile.WithTempDir(r.Config.TempDir),
	}, opts...)

	return ignorefile.New(prog.Corpus, r.Config.IgnoreFile, opts...)
}

// Check analyzes the packages matching patterns and filters the findings
// through the ignore file and inline directives. With AutoUpdate, the
// ignore file is first pruned of lines that suppress none of the findings.
func (r *Runner) Check(ctx context.Context, patterns []string) (*Report, error) {
	analyzers, err := r.registry().Select(r.Config.Rules)
	if err != nil {
		return nil, err
	}

	prog, err := r.load(ctx, patterns)
	if err != nil {
		return nil, err
	}

	all, err := engine.Run(ctx, prog, analyzers, engine.Options{
		Sequential: r.Config.Sequential,
		Logger:     r.logger(),
	})
	if err != nil {
		return nil, err
	}

	report := &Report{Total: len(all)}

	if r.Config.AutoUpdate && r.Config.IgnoreFile != "" {
		r.logger().Info("auto update run", "file", r.Config.IgnoreFile, "findings", len(all))

		if report.Pruned, err = r.prune(prog, all); err != nil {
			return nil, err
		}
	}

	// the directive files are read again after pruning
	base := prog.Inline.Store()
	list, err := r.list(prog, false, ignorefile.WithBase(base))
	if err != nil {
		return nil, err
	}

	report.IgnoreList = list.Files()
	report.Findings = list.Filter(all)

	if r.Config.ReportUnused {
		report.Unused = unusedInline(prog.Inline, analyzers, all)
	}

	r.logger().Debug("check done",
		"total", report.Total,
		"suppressed", report.Suppressed(),
		"remaining", len(report.Findings),
	)

	return report, nil
}

func (r *Runner) prune(prog *goload.Program, all []ignorefile.Finding) (map[string][]int, error) {
	list, err := r.list(prog, true)
	if err != nil {
		return nil, err
	}

	list.MarkUsed(all)
	stale := list.Stale()

	if err := list.UpdateIgnores(all); err != nil {
		return nil, fmt.Errorf("update ignore file: %w", err)
	}

	return stale, nil
}

func unusedInline(set *inline.Set, analyzers []*analysis.Analyzer, all []ignorefile.Finding) []inline.Unused {
	enabled := make(map[string]bool, len(analyzers))
	for _, a := range analyzers {
		enabled[a.Name] = true
	}

	for _, f := range all {
		set.MarkUsed(f.Rule, f.Location)
		set.MarkUsed(f.Rule, f.Target)
	}

	return set.Unused(enabled)
}

// Prune comments out the directive lines that suppress none of the findings
// in data, a findings document from a run without suppressions. It returns
// the lines commented out, per file.
func (r *Runner) Prune(ctx context.Context, patterns []string, data []byte) (map[string][]int, error) {
	if r.Config.IgnoreFile == "" {
		return nil, ErrNoIgnoreFile
	}

	prog, err := r.load(ctx, patterns)
	if err != nil {
		return nil, err
	}

	all, err := findings.Decode(data, prog.Corpus)
	if err != nil {
		return nil, err
	}

	return r.prune(prog, all)
}

// Resolution is the outcome of [Runner.Resolve].
type Resolution struct {
	Store *suppress.Store
	Files []string
}

// Resolve returns every suppression the ignore file and inline directives
// resolve to for the packages matching patterns.
func (r *Runner) Resolve(ctx context.Context, patterns []string) (*Resolution, error) {
	prog, err := r.load(ctx, patterns)
	if err != nil {
		return nil, err
	}

	list, err := r.list(prog, false, ignorefile.WithBase(prog.Inline.Store()))
	if err != nil {
		return nil, err
	}

	return &Resolution{Store: list.Store(), Files: list.Files()}, nil
}
