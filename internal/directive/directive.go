package directive

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpyw/ignorefile/internal/suppress"
	"github.com/mpyw/ignorefile/internal/wildcard"
)

// Kind is the kind of a directive line.
type Kind int

const (
	Comment Kind = iota
	RuleDeclaration
	AssemblyTarget
	TypeTarget
	MethodTarget
	MethodWildcardTarget
	NamespaceTarget
	Include
	Malformed
)

var kindNames = [...]string{
	Comment:              "comment",
	RuleDeclaration:      "rule",
	AssemblyTarget:       "assembly",
	TypeTarget:           "type",
	MethodTarget:         "method",
	MethodWildcardTarget: "method-wildcard",
	NamespaceTarget:      "namespace",
	Include:              "include",
	Malformed:            "malformed",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// IsTarget reports whether directives of this kind register a suppression.
func (k Kind) IsTarget() bool {
	switch k {
	case AssemblyTarget, TypeTarget, MethodTarget, MethodWildcardTarget, NamespaceTarget:
		return true
	default:
		return false
	}
}

// AllAssemblies is the assembly target standing for every loaded assembly.
const AllAssemblies = "*"

// Directive is one parsed line.
type Directive struct {
	Kind    Kind
	Rule    string // rule in effect; for RuleDeclaration the declared rule
	Pattern string // target text, include path, or the raw line when Malformed
	File    string
	Line    int // 1-based
}

// maxLineSize bounds a single directive line.
const maxLineSize = 1 << 20

// byteOrderMark is dropped from the first line of every file.
const byteOrderMark = "\uFEFF"

// Option configures [Parse].
type Option func(*parser)

// WithLogger sets the logger receiving malformed-line warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *parser) {
		if l != nil {
			p.logger = l
		}
	}
}

type parser struct {
	logger  *slog.Logger
	visit   func(Directive)
	rule    string
	stack   []string
	visited map[string]struct{}
	files   []string
}

// Parse reads root and every file it includes, calling visit for each
// non-empty line in parse order. It returns the files that were read, in
// the order they were read.
func Parse(root string, visit func(Directive), opts ...Option) []string {
	p := &parser{
		logger:  slog.New(slog.DiscardHandler),
		visit:   visit,
		visited: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if root != "" {
		p.push(filepath.Clean(root))
	}

	for len(p.stack) > 0 {
		file := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

		if _, seen := p.visited[file]; seen {
			continue
		}
		p.visited[file] = struct{}{}

		p.parseFile(file)
	}

	return p.files
}

func (p *parser) push(file string) {
	p.stack = append(p.stack, file)
}

func (p *parser) parseFile(file string) {
	f, err := os.Open(file)
	if err != nil {
		p.logger.Debug("skipping ignore file", "file", file, "error", err)
		return
	}
	defer f.Close()

	p.files = append(p.files, file)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if line == 1 {
			text = strings.TrimPrefix(text, byteOrderMark)
		}
		if text == "" {
			continue
		}

		d := ParseLine(text, p.rule)
		d.File = file
		d.Line = line

		switch {
		case d.Kind == RuleDeclaration:
			p.rule = d.Rule
		case d.Kind == Include:
			p.push(resolveInclude(file, d.Pattern))
		case d.Kind.IsTarget() && d.Rule == "":
			p.logger.Warn("ignore entry before any rule", "file", file, "line", line, "entry", text)
			d = Directive{Kind: Malformed, Pattern: text, File: file, Line: line}
		case d.Kind == Malformed:
			p.logger.Warn("bad ignore entry", "file", file, "line", line, "entry", text)
			if text[0] == 'R' {
				// targets below a bad rule line belong to no rule
				p.rule = ""
			}
		}

		p.visit(d)
	}

	if err := sc.Err(); err != nil {
		p.logger.Warn("stopped reading ignore file", "file", file, "line", line+1, "error", err)
	}
}

func resolveInclude(from, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(filepath.Dir(from), path)
}

// ParseLine parses a single non-empty line with rule as the rule in effect.
// File and Line are left zero.
func ParseLine(line, rule string) Directive {
	switch line[0] {
	case '#':
		return Directive{Kind: Comment, Rule: rule, Pattern: line}

	case 'R':
		name, ok := afterLastSpace(line)
		if !ok || name == suppress.AnyRule {
			return malformed(line)
		}

		return Directive{Kind: RuleDeclaration, Rule: name}

	case 'A':
		return target(AssemblyTarget, line, rule, payload)

	case 'T':
		// type names contain no spaces
		return target(TypeTarget, line, rule, afterLastSpace)

	case 'M':
		d := target(MethodTarget, line, rule, payload)
		if d.Kind == MethodTarget && wildcard.HasWildcard(d.Pattern) {
			d.Kind = MethodWildcardTarget
		}

		return d

	case 'N':
		return target(NamespaceTarget, line, rule, payload)

	case '@':
		path, ok := payload(line)
		if !ok {
			return malformed(line)
		}

		return Directive{Kind: Include, Rule: rule, Pattern: path}

	default:
		return malformed(line)
	}
}

func target(kind Kind, line, rule string, extract func(string) (string, bool)) Directive {
	text, ok := extract(line)
	if !ok {
		return malformed(line)
	}

	return Directive{Kind: kind, Rule: rule, Pattern: text}
}

func malformed(line string) Directive {
	return Directive{Kind: Malformed, Pattern: line}
}

// payload is everything after the kind character and its separator.
func payload(line string) (string, bool) {
	if len(line) < 2 {
		return "", false
	}

	text := strings.TrimSpace(line[2:])

	return text, text != ""
}

func afterLastSpace(line string) (string, bool) {
	line = strings.TrimRight(line, " \t")
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return "", false
	}

	text := strings.TrimSpace(line[i+1:])

	return text, text != ""
}
