// Package goload fills a corpus from Go packages.
package goload

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"path"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"github.com/mpyw/ignorefile/internal/corpus"
	"github.com/mpyw/ignorefile/internal/directives/inline"
	"github.com/mpyw/ignorefile/internal/funcspec"
)

// ErrPackages is returned when loaded packages have errors.
var ErrPackages = errors.New("packages contain errors")

// LoadMode is the go/packages mode needed by both the corpus and the
// analyzers run on it.
const LoadMode = packages.LoadAllSyntax | packages.NeedModule

// Options configures [Load].
type Options struct {
	Dir    string   // working directory; empty means the current one
	Tests  bool     // include test packages
	Env    []string // environment for the build system; nil means os.Environ
	Logger *slog.Logger
}

// Program is the loaded packages and the corpus built from them.
type Program struct {
	Corpus   *corpus.Corpus
	Packages []*packages.Package // root packages, in load order
	Inline   *inline.Set

	decls []span // sorted by pos
	files []span // sorted by pos
}

type span struct {
	pos, end token.Pos
	entity   corpus.Entity
}

// built is the per-package result produced concurrently.
type built struct {
	module *corpus.Module
	decls  []span
	files  []span
	inline []binding
}

type binding struct {
	entry  *inline.Entry
	entity corpus.Entity
}

// Load loads the packages matching patterns and builds a corpus with one
// assembly per Go module and one module per package.
func Load(ctx context.Context, patterns []string, opts Options) (*Program, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     opts.Dir,
		Env:     opts.Env,
		Tests:   opts.Tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	if err := packageErrors(pkgs); err != nil {
		return nil, err
	}

	slots := make([]*built, len(pkgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			slots[i] = buildPackage(pkg)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	prog := &Program{
		Corpus:   corpus.New(),
		Packages: pkgs,
		Inline:   inline.NewSet(),
	}

	assemblies := make(map[string]*corpus.Assembly)
	for i, b := range slots {
		a := assemblyFor(prog.Corpus, assemblies, pkgs[i])
		prog.Corpus.Attach(a, b.module)

		prog.decls = append(prog.decls, b.decls...)
		prog.files = append(prog.files, b.files...)
		for _, bnd := range b.inline {
			prog.Inline.Bind(bnd.entry, bnd.entity)
		}
	}

	byPos := func(a, b span) int { return int(a.pos) - int(b.pos) }
	slices.SortFunc(prog.decls, byPos)
	slices.SortFunc(prog.files, byPos)

	logger.Debug("loaded corpus",
		"packages", len(pkgs),
		"assemblies", len(prog.Corpus.Assemblies),
		"inline", prog.Inline.Len(),
	)

	return prog, nil
}

func packageErrors(pkgs []*packages.Package) error {
	var msgs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			msgs = append(msgs, e.Error())
		}
	})

	if len(msgs) == 0 {
		return nil
	}

	return fmt.Errorf("%w:\n%s", ErrPackages, strings.Join(msgs, "\n"))
}

func assemblyFor(c *corpus.Corpus, seen map[string]*corpus.Assembly, pkg *packages.Package) *corpus.Assembly {
	name, full := pkg.PkgPath, pkg.PkgPath
	if m := pkg.Module; m != nil {
		name, full = path.Base(m.Path), m.Path
		if !m.Main && m.Version != "" {
			full = m.Path + "@" + m.Version
		}
	}

	if a, ok := seen[full]; ok {
		return a
	}

	a := c.AddAssembly(name, full)
	seen[full] = a

	return a
}

func buildPackage(pkg *packages.Package) *built {
	b := &built{module: corpus.NewModule(pkg.PkgPath)}

	typesByName := make(map[string]*corpus.Type)
	var methods []*ast.FuncDecl

	lines := make(map[*ast.File]inline.Lines, len(pkg.Syntax))
	for _, f := range pkg.Syntax {
		l := inline.Scan(pkg.Fset, f)
		lines[f] = l

		b.files = append(b.files, span{pos: f.FileStart, end: f.FileEnd, entity: b.module})
		if f.Doc != nil {
			b.bind(l, pkg.Fset, f.Doc.Pos(), f.Package, b.module)
		}
	}

	insp := inspector.New(pkg.Syntax)

	// top-level declarations only; local types and closures are not entities
	insp.WithStack([]ast.Node{(*ast.GenDecl)(nil), (*ast.FuncDecl)(nil)}, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return false
		}

		file, _ := stack[0].(*ast.File)

		switch decl := n.(type) {
		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				return false
			}

			for _, spec := range decl.Specs {
				ts := spec.(*ast.TypeSpec)
				t := b.module.AddType(ts.Name.Name)
				typesByName[ts.Name.Name] = t

				// a lone spec owns the whole declaration and its doc comment
				start, doc := ts.Pos(), ts.Doc
				if len(decl.Specs) == 1 {
					start = decl.Pos()
					if doc == nil {
						doc = decl.Doc
					}
				}
				b.decls = append(b.decls, span{pos: start, end: ts.End(), entity: t})
				b.bindDoc(lines[file], pkg.Fset, doc, start, t)
			}

		case *ast.FuncDecl:
			if decl.Recv != nil {
				methods = append(methods, decl)

				return false
			}

			if fn := b.addFunc(pkg, decl, nil); fn != nil {
				b.decls = append(b.decls, span{pos: decl.Pos(), end: decl.End(), entity: fn})
				b.bindDoc(lines[file], pkg.Fset, decl.Doc, decl.Pos(), fn)
			}
		}

		return false
	})

	for _, decl := range methods {
		file := fileOf(pkg.Syntax, decl.Pos())

		if m := b.addFunc(pkg, decl, typesByName); m != nil {
			b.decls = append(b.decls, span{pos: decl.Pos(), end: decl.End(), entity: m})
			b.bindDoc(lines[file], pkg.Fset, decl.Doc, decl.Pos(), m)
		}
	}

	return b
}

// addFunc adds decl as a function of the module, or as a method of its
// receiver type when owners is not nil.
func (b *built) addFunc(pkg *packages.Package, decl *ast.FuncDecl, owners map[string]*corpus.Type) *corpus.Method {
	fn := funcObj(pkg, decl)
	if fn == nil {
		return nil
	}

	spec, ok := funcspec.FromFunc(fn)
	if !ok {
		return nil
	}

	if owners == nil {
		return b.module.AddFunc(spec.FuncName, spec.Params...)
	}

	t, ok := owners[spec.TypeName]
	if !ok {
		return nil
	}

	return t.AddMethod(spec.FuncName, spec.Params...)
}

func funcObj(pkg *packages.Package, decl *ast.FuncDecl) *types.Func {
	if pkg.TypesInfo == nil {
		return nil
	}

	fn, _ := pkg.TypesInfo.Defs[decl.Name].(*types.Func)

	return fn
}

// bindDoc binds the inline directives found in doc, or on the first line of
// the declaration itself, to e.
func (b *built) bindDoc(lines inline.Lines, fset *token.FileSet, doc *ast.CommentGroup, start token.Pos, e corpus.Entity) {
	from := start
	if doc != nil {
		from = doc.Pos()
	}

	b.bind(lines, fset, from, start, e)
}

func (b *built) bind(lines inline.Lines, fset *token.FileSet, from, to token.Pos, e corpus.Entity) {
	for _, entry := range lines.Between(fset.Position(from).Line, fset.Position(to).Line) {
		b.inline = append(b.inline, binding{entry: entry, entity: e})
	}
}

func fileOf(files []*ast.File, pos token.Pos) *ast.File {
	for _, f := range files {
		if f.FileStart <= pos && pos <= f.FileEnd {
			return f
		}
	}

	return nil
}

// Locate returns the innermost entity declared at pos: a method, function
// or type, else the module of the file containing pos. It returns nil when
// pos lies outside every loaded file.
func (p *Program) Locate(pos token.Pos) corpus.Entity {
	if e := find(p.decls, pos); e != nil {
		return e
	}

	return find(p.files, pos)
}

func find(spans []span, pos token.Pos) corpus.Entity {
	// last span starting at or before pos
	i, found := slices.BinarySearchFunc(spans, pos, func(s span, p token.Pos) int {
		return int(s.pos) - int(p)
	})
	if !found {
		i--
	}

	if i < 0 || i >= len(spans) {
		return nil
	}

	if s := spans[i]; pos >= s.pos && pos <= s.end {
		return s.entity
	}

	return nil
}
