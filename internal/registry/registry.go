package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// ErrUnknownRule is returned when a rule name is not registered.
var ErrUnknownRule = errors.New("unknown rule")

// Entry is a registered rule.
type Entry struct {
	Analyzer *analysis.Analyzer

	// Default rules run when no rule is selected explicitly.
	Default bool
}

// Name returns the rule name, which is the analyzer name.
func (e Entry) Name() string {
	return e.Analyzer.Name
}

// Summary returns the first line of the analyzer documentation.
func (e Entry) Summary() string {
	doc, _, _ := strings.Cut(e.Analyzer.Doc, "\n")

	return doc
}

// Registry holds the rules available to a run.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds entries. Registering a name again replaces the earlier entry.
func (r *Registry) Register(entries ...Entry) {
	for _, e := range entries {
		if i, ok := r.byName[e.Name()]; ok {
			r.entries[i] = e

			continue
		}

		r.byName[e.Name()] = len(r.entries)
		r.entries = append(r.entries, e)
	}
}

// Entries returns all registered entries sorted by name.
func (r *Registry) Entries() []Entry {
	out := slices.Clone(r.entries)
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name(), b.Name()) })

	return out
}

// Lookup returns the entry named name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}

	return r.entries[i], true
}

// Select returns the analyzers of the named rules, in the order given.
// With no names, the default rules are returned, sorted by name.
func (r *Registry) Select(names []string) ([]*analysis.Analyzer, error) {
	var out []*analysis.Analyzer

	if len(names) == 0 {
		for _, e := range r.Entries() {
			if e.Default {
				out = append(out, e.Analyzer)
			}
		}

		return out, nil
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		e, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
		}

		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, e.Analyzer)
	}

	return out, nil
}
