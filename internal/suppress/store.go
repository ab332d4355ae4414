// Package suppress holds the base suppression store: which rules are
// ignored for which entities.
package suppress

import (
	"slices"
	"strings"

	"github.com/mpyw/ignorefile/internal/corpus"
)

// AnyRule stands for every rule. It is registered by inline directives that
// name no rule.
const AnyRule = "*"

// Match is a suppression that applies to an entity, possibly through one of
// its ancestors.
type Match struct {
	Rule   string        // rule the suppression was registered under
	Entity corpus.Entity // entity the suppression was registered on
}

// Store maps rules to the entities they are suppressed on.
// It is not safe for concurrent use.
type Store struct {
	rules map[string]map[corpus.Entity]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{rules: make(map[string]map[corpus.Entity]struct{})}
}

// Add suppresses rule on e.
func (s *Store) Add(rule string, e corpus.Entity) {
	set, ok := s.rules[rule]
	if !ok {
		set = make(map[corpus.Entity]struct{})
		s.rules[rule] = set
	}
	set[e] = struct{}{}
}

// Merge copies every suppression of other into s.
func (s *Store) Merge(other *Store) {
	if other == nil {
		return
	}

	for rule, set := range other.rules {
		for e := range set {
			s.Add(rule, e)
		}
	}
}

// Matches returns every suppression of rule that covers e: on e itself, on
// one of its ancestors or on a namespace along the way.
func (s *Store) Matches(rule string, e corpus.Entity) []Match {
	if e == nil {
		return nil
	}

	var out []Match
	for _, r := range []string{rule, AnyRule} {
		set, ok := s.rules[r]
		if !ok {
			continue
		}
		for _, cur := range corpus.Chain(e) {
			if _, ok := set[cur]; ok {
				out = append(out, Match{Rule: r, Entity: cur})
			}
		}
		if rule == AnyRule {
			break
		}
	}

	return out
}

// IsIgnored reports whether rule is suppressed for e.
func (s *Store) IsIgnored(rule string, e corpus.Entity) bool {
	return len(s.Matches(rule, e)) > 0
}

// Rules returns the rules with at least one suppression, sorted.
func (s *Store) Rules() []string {
	rules := make([]string, 0, len(s.rules))
	for r := range s.rules {
		rules = append(rules, r)
	}
	slices.Sort(rules)

	return rules
}

// Entities returns the entities rule is suppressed on, sorted by kind and
// full name.
func (s *Store) Entities(rule string) []corpus.Entity {
	set := s.rules[rule]
	out := make([]corpus.Entity, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b corpus.Entity) int {
		if a.Kind() != b.Kind() {
			return int(a.Kind()) - int(b.Kind())
		}

		return strings.Compare(a.FullName(), b.FullName())
	})

	return out
}

// Len returns the number of (rule, entity) pairs.
func (s *Store) Len() int {
	n := 0
	for _, set := range s.rules {
		n += len(set)
	}

	return n
}
