// Package inline handles //ignorefile:ignore source comments.
package inline

import (
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"github.com/mpyw/ignorefile/internal/corpus"
	"github.com/mpyw/ignorefile/internal/suppress"
)

const prefix = "ignorefile:ignore"

// Entry tracks an inline directive and its usage.
type Entry struct {
	Pos    token.Position
	Rules  []string      // empty = all rules
	Entity corpus.Entity // declaration the directive is attached to
	used   map[string]bool
}

// Lines tracks entries of one file by line number.
type Lines map[int]*Entry

// Scan collects the inline directives of file.
func Scan(fset *token.FileSet, file *ast.File) Lines {
	m := make(Lines)

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if rules, ok := ParseComment(c.Text); ok {
				pos := fset.Position(c.Pos())
				m[pos.Line] = &Entry{
					Pos:   pos,
					Rules: rules,
					used:  make(map[string]bool),
				}
			}
		}
	}

	return m
}

// Between returns the entries on lines from..to inclusive, in line order.
func (m Lines) Between(from, to int) []*Entry {
	var out []*Entry
	for line := from; line <= to; line++ {
		if e, ok := m[line]; ok {
			out = append(out, e)
		}
	}

	return out
}

// ParseComment parses an ignore directive and returns the rule names.
// Returns nil slice if no specific rules are given (ignore all).
// Returns false if not an ignore comment.
//
// Supported formats:
//   - //ignorefile:ignore                       -> ignore all rules
//   - //ignorefile:ignore printf                -> ignore specific rule
//   - //ignorefile:ignore printf,shadow         -> ignore multiple rules
//   - //ignorefile:ignore - reason              -> ignore all with comment
//   - //ignorefile:ignore printf - reason       -> ignore specific with comment
func ParseComment(text string) ([]string, bool) {
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)

	rest, ok := strings.CutPrefix(text, prefix)
	if !ok {
		return nil, false
	}

	// "ignorefile:ignored" is not ours
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, false
	}

	if idx := strings.Index(rest, " - "); idx >= 0 {
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, " //"); idx >= 0 {
		rest = rest[:idx]
	}

	rest = strings.TrimSpace(rest)
	if rest == "" || rest == "-" || strings.HasPrefix(rest, "- ") {
		return nil, true
	}

	var rules []string
	for part := range strings.SplitSeq(rest, ",") {
		if name := strings.TrimSpace(part); name != "" {
			rules = append(rules, name)
		}
	}

	return rules, true
}

// Set holds the bound entries of a whole corpus.
type Set struct {
	entries  []*Entry
	byEntity map[corpus.Entity][]*Entry
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{byEntity: make(map[corpus.Entity][]*Entry)}
}

// Bind attaches e to the declaration ent and adds it to the set.
func (s *Set) Bind(e *Entry, ent corpus.Entity) {
	e.Entity = ent
	s.entries = append(s.entries, e)
	s.byEntity[ent] = append(s.byEntity[ent], e)
}

// Len returns the number of bound entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Store returns the suppressions of every bound entry. Entries without
// rules suppress [suppress.AnyRule].
func (s *Set) Store() *suppress.Store {
	st := suppress.New()
	for _, e := range s.entries {
		if len(e.Rules) == 0 {
			st.Add(suppress.AnyRule, e.Entity)

			continue
		}
		for _, r := range e.Rules {
			st.Add(r, e.Entity)
		}
	}

	return st
}

// MarkUsed records that rule was suppressed on ent. Every entry covering
// ent or one of its ancestors is marked. It reports whether any entry
// covered it.
func (s *Set) MarkUsed(rule string, ent corpus.Entity) bool {
	if ent == nil {
		return false
	}

	found := false
	for _, cur := range corpus.Chain(ent) {
		for _, e := range s.byEntity[cur] {
			if len(e.Rules) == 0 || slices.Contains(e.Rules, rule) {
				e.used[rule] = true
				found = true
			}
		}
	}

	return found
}

// Unused represents an unused inline directive.
type Unused struct {
	Pos    token.Position
	Entity corpus.Entity
	Rules  []string // unused rule names (empty if the entire directive is unused)
}

// Unused returns the directives that suppressed nothing, ordered by
// position. enabled lists the rules that ran; naming a rule that did not
// run is reported as unused too.
func (s *Set) Unused(enabled map[string]bool) []Unused {
	var out []Unused

	for _, e := range s.entries {
		if len(e.Rules) == 0 {
			anyUsed := false
			for rule := range enabled {
				if e.used[rule] {
					anyUsed = true

					break
				}
			}
			if !anyUsed {
				out = append(out, Unused{Pos: e.Pos, Entity: e.Entity})
			}

			continue
		}

		var rules []string
		for _, r := range e.Rules {
			if !enabled[r] || !e.used[r] {
				rules = append(rules, r)
			}
		}
		if len(rules) > 0 {
			out = append(out, Unused{Pos: e.Pos, Entity: e.Entity, Rules: rules})
		}
	}

	slices.SortFunc(out, func(a, b Unused) int {
		if c := strings.Compare(a.Pos.Filename, b.Pos.Filename); c != 0 {
			return c
		}

		return a.Pos.Line - b.Pos.Line
	})

	return out
}
