// Package index maps directive targets to the rules that ignore them.
package index

import (
	"regexp"
	"slices"

	"github.com/mpyw/ignorefile/internal/wildcard"
)

// Hit is one rule matching a lookup. Target is the directive text the rule
// was registered under, which for wildcards differs from the looked-up name.
type Hit struct {
	Rule   string
	Target string
}

// ruleSet is the set of rules registered for a single target.
type ruleSet map[string]struct{}

func (s ruleSet) sorted() []string {
	rules := make([]string, 0, len(s))
	for r := range s {
		rules = append(rules, r)
	}
	slices.Sort(rules)

	return rules
}

type pattern struct {
	raw   string
	re    *regexp.Regexp
	rules ruleSet
}

// Index is the transient target index built while parsing directive files.
// It is not safe for concurrent use.
type Index struct {
	assemblies map[string]ruleSet
	types      map[string]ruleSet
	methods    map[string]ruleSet

	patterns  []*pattern // declaration order
	byPattern map[string]*pattern
	compiler  *wildcard.Compiler
}

// New returns an empty index compiling wildcards with c.
func New(c *wildcard.Compiler) *Index {
	if c == nil {
		c = wildcard.NewCompiler()
	}

	return &Index{
		assemblies: make(map[string]ruleSet),
		types:      make(map[string]ruleSet),
		methods:    make(map[string]ruleSet),
		byPattern:  make(map[string]*pattern),
		compiler:   c,
	}
}

func add(m map[string]ruleSet, target, rule string) {
	rules, ok := m[target]
	if !ok {
		rules = make(ruleSet)
		m[target] = rules
	}
	rules[rule] = struct{}{}
}

// AddAssembly registers rule for an assembly name or full name.
func (x *Index) AddAssembly(rule, target string) { add(x.assemblies, target, rule) }

// AddType registers rule for a full type name.
func (x *Index) AddType(rule, target string) { add(x.types, target, rule) }

// AddMethod registers rule for an exact method signature.
func (x *Index) AddMethod(rule, target string) { add(x.methods, target, rule) }

// AddMethodWildcard registers rule for a method pattern. Patterns are
// compiled once; registering the same pattern again only adds the rule.
func (x *Index) AddMethodWildcard(rule, target string) error {
	p, ok := x.byPattern[target]
	if !ok {
		re, err := x.compiler.Compile(target)
		if err != nil {
			return err
		}
		p = &pattern{raw: target, re: re, rules: make(ruleSet)}
		x.byPattern[target] = p
		x.patterns = append(x.patterns, p)
	}
	p.rules[rule] = struct{}{}

	return nil
}

func hits(m map[string]ruleSet, name string) []Hit {
	rules, ok := m[name]
	if !ok {
		return nil
	}

	out := make([]Hit, 0, len(rules))
	for _, r := range rules.sorted() {
		out = append(out, Hit{Rule: r, Target: name})
	}

	return out
}

// Assembly looks up an assembly name.
func (x *Index) Assembly(name string) []Hit { return hits(x.assemblies, name) }

// Type looks up a full type name.
func (x *Index) Type(name string) []Hit { return hits(x.types, name) }

// Method looks up a method signature. Wildcard patterns are only tried when
// there is no exact entry; every matching pattern contributes its rules.
func (x *Index) Method(signature string) []Hit {
	if h := hits(x.methods, signature); h != nil {
		return h
	}

	var out []Hit
	for _, p := range x.patterns {
		if !p.re.MatchString(signature) {
			continue
		}
		for _, r := range p.rules.sorted() {
			out = append(out, Hit{Rule: r, Target: p.raw})
		}
	}

	return out
}

// Len returns the number of distinct targets, wildcard patterns included.
func (x *Index) Len() int {
	return len(x.assemblies) + len(x.types) + len(x.methods) + len(x.patterns)
}

// Patterns returns the number of distinct wildcard patterns.
func (x *Index) Patterns() int {
	return len(x.patterns)
}

// Clear drops the exact assembly, type and method entries. Wildcard patterns
// and the compiler cache survive.
func (x *Index) Clear() {
	clear(x.assemblies)
	clear(x.types)
	clear(x.methods)
}
