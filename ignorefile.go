package ignorefile

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"

	"github.com/mpyw/ignorefile/internal/corpus"
	"github.com/mpyw/ignorefile/internal/directive"
	"github.com/mpyw/ignorefile/internal/index"
	"github.com/mpyw/ignorefile/internal/provenance"
	"github.com/mpyw/ignorefile/internal/resolve"
	"github.com/mpyw/ignorefile/internal/rewrite"
	"github.com/mpyw/ignorefile/internal/suppress"
	"github.com/mpyw/ignorefile/internal/wildcard"
)

var (
	// ErrNoCorpus is returned by [New] when no corpus is given.
	ErrNoCorpus = errors.New("ignorefile: corpus is required")

	// ErrAutoUpdateDisabled is returned by [List.UpdateIgnores] on a list
	// built without [WithAutoUpdate].
	ErrAutoUpdateDisabled = errors.New("ignorefile: auto update is disabled")
)

// Finding is a diagnostic reported by a rule.
type Finding struct {
	Rule     string
	Target   corpus.Entity // what the finding is about
	Location corpus.Entity // where it was found; often equal to Target
	Pos      token.Position
	Message  string
}

// Option configures [New].
type Option func(*List)

// WithAutoUpdate enables provenance tracking so [List.UpdateIgnores] can
// comment out stale directive lines.
func WithAutoUpdate(enabled bool) Option {
	return func(l *List) { l.autoUpdate = enabled }
}

// WithBase seeds the list with suppressions that exist independently of the
// directive file, such as inline source comments.
func WithBase(base *suppress.Store) Option {
	return func(l *List) { l.store.Merge(base) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTempDir sets where working copies are kept while a directive file is
// rewritten.
func WithTempDir(dir string) Option {
	return func(l *List) { l.rewriter.TempDir = dir }
}

// List is a parsed and resolved directive file. It is not safe for
// concurrent use.
type List struct {
	corpus     *corpus.Corpus
	store      *suppress.Store
	logger     *slog.Logger
	autoUpdate bool
	rewriter   rewrite.Rewriter

	declared   *provenance.Table
	resolved   *provenance.Table
	candidates *provenance.LineSet
	files      []string
}

// New reads the directive file at path, including every file it includes,
// and binds its targets to the entities of c. A missing file yields an
// empty list.
func New(c *corpus.Corpus, path string, opts ...Option) (*List, error) {
	if c == nil {
		return nil, ErrNoCorpus
	}

	l := &List{
		corpus:     c,
		store:      suppress.New(),
		logger:     slog.New(slog.DiscardHandler),
		declared:   provenance.NewTable(),
		resolved:   provenance.NewTable(),
		candidates: provenance.NewLineSet(),
	}
	for _, opt := range opts {
		opt(l)
	}

	idx := index.New(wildcard.NewCompiler())

	l.files = directive.Parse(path, func(d directive.Directive) {
		l.add(idx, d)
	}, directive.WithLogger(l.logger))

	if l.autoUpdate {
		for _, f := range l.files {
			l.candidates.Touch(f)
		}
	}

	targets, patterns := idx.Len(), idx.Patterns()
	st := resolve.Resolve(c, idx, resolve.RegistrarFunc(l.register))

	l.logger.Debug("resolved ignore list",
		"files", len(l.files),
		"targets", targets,
		"wildcards", patterns,
		"assemblies", st.Assemblies,
		"types", st.Types,
		"methods", st.Methods,
	)

	return l, nil
}

func (l *List) add(idx *index.Index, d directive.Directive) {
	src := provenance.Source{File: d.File, Line: d.Line}

	switch d.Kind {
	case directive.AssemblyTarget:
		if d.Pattern != directive.AllAssemblies {
			idx.AddAssembly(d.Rule, d.Pattern)
			l.declare(d.Rule, d.Pattern, src)

			return
		}

		for _, a := range l.corpus.Assemblies {
			idx.AddAssembly(d.Rule, a.QualifiedName)
			l.declare(d.Rule, a.QualifiedName, src)
		}

	case directive.TypeTarget:
		idx.AddType(d.Rule, d.Pattern)
		l.declare(d.Rule, d.Pattern, src)

	case directive.MethodTarget:
		sig := wildcard.Unescape(d.Pattern)
		idx.AddMethod(d.Rule, sig)
		l.declare(d.Rule, sig, src)

	case directive.MethodWildcardTarget:
		if err := idx.AddMethodWildcard(d.Rule, d.Pattern); err != nil {
			l.logger.Warn("bad method pattern", "file", d.File, "line", d.Line, "pattern", d.Pattern, "error", err)

			return
		}
		l.declare(d.Rule, d.Pattern, src)

	case directive.NamespaceTarget:
		ns := l.corpus.Namespace(d.Pattern)
		l.store.Add(d.Rule, ns)
		if l.autoUpdate {
			l.resolved.Add(provenance.Key{Rule: d.Rule, Target: ns.FullName()}, src)
			l.candidates.Add(src.File, src.Line)
		}
	}
}

func (l *List) declare(rule, target string, src provenance.Source) {
	if !l.autoUpdate {
		return
	}

	l.declared.Add(provenance.Key{Rule: rule, Target: target}, src)
	l.candidates.Add(src.File, src.Line)
}

func (l *List) register(rule string, e corpus.Entity, declared string) {
	l.store.Add(rule, e)

	if !l.autoUpdate {
		return
	}

	key := provenance.Key{Rule: rule, Target: e.FullName()}
	for _, src := range l.declared.Lookup(provenance.Key{Rule: rule, Target: declared}) {
		l.resolved.Add(key, src)
	}
}

// IsIgnored reports whether rule is suppressed for e or one of its
// ancestors.
func (l *List) IsIgnored(rule string, e corpus.Entity) bool {
	return l.store.IsIgnored(rule, e)
}

// Suppressed reports whether f is ignored through its location or its
// target.
func (l *List) Suppressed(f Finding) bool {
	return l.IsIgnored(f.Rule, f.Location) || l.IsIgnored(f.Rule, f.Target)
}

// Filter returns the findings that are not suppressed, in order.
func (l *List) Filter(fs []Finding) []Finding {
	var out []Finding
	for _, f := range fs {
		if !l.Suppressed(f) {
			out = append(out, f)
		}
	}

	return out
}

// Store returns the suppressions the list resolved to.
func (l *List) Store() *suppress.Store {
	return l.store
}

// Files returns the directive files that were read, in reading order.
func (l *List) Files() []string {
	return l.files
}

// MarkUsed removes from the stale candidates every directive line that
// suppresses one of fs.
func (l *List) MarkUsed(fs []Finding) {
	for _, f := range fs {
		for _, e := range []corpus.Entity{f.Location, f.Target} {
			for _, m := range l.store.Matches(f.Rule, e) {
				key := provenance.Key{Rule: m.Rule, Target: m.Entity.FullName()}
				for _, src := range l.resolved.Lookup(key) {
					l.candidates.Remove(src.File, src.Line)
				}
			}
		}
	}
}

// Stale returns, per directive file, the lines that have not suppressed
// any finding passed to [List.MarkUsed] so far. Files without stale lines
// are omitted.
func (l *List) Stale() map[string][]int {
	out := make(map[string][]int)
	for _, f := range l.candidates.Files() {
		if lines := l.candidates.Lines(f); len(lines) > 0 {
			out[f] = lines
		}
	}

	return out
}

// UpdateIgnores comments out every directive line that suppresses none of
// fs. fs should come from a run without suppressions. Rewritten lines are
// forgotten, so a second call with the same findings is a no-op.
func (l *List) UpdateIgnores(fs []Finding) error {
	if !l.autoUpdate {
		return ErrAutoUpdateDisabled
	}

	l.MarkUsed(fs)

	var errs []error
	for _, file := range l.candidates.Files() {
		lines := l.candidates.Lines(file)
		if len(lines) == 0 {
			continue
		}

		if err := l.rewriter.CommentOut(file, lines); err != nil {
			errs = append(errs, fmt.Errorf("update %s: %w", file, err))

			continue
		}
		l.candidates.Reset(file)

		l.logger.Info("commented out stale ignore entries", "file", file, "lines", lines)
	}

	return errors.Join(errs...)
}
