// Package provenance remembers which directive line produced which
// suppression, so stale lines can be found after an analysis run.
package provenance

import (
	"slices"
)

// Source is a directive line.
type Source struct {
	File string
	Line int
}

// Key pairs a rule with a target. Target is either the directive text
// (declared table) or the full name of a resolved entity (resolved table).
type Key struct {
	Rule   string
	Target string
}

// Table maps keys to the lines that declared them.
type Table struct {
	m map[Key][]Source
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{m: make(map[Key][]Source)}
}

// Add records src for k. Recording the same source twice is a no-op.
func (t *Table) Add(k Key, src Source) {
	if slices.Contains(t.m[k], src) {
		return
	}
	t.m[k] = append(t.m[k], src)
}

// Lookup returns every source recorded for k.
func (t *Table) Lookup(k Key) []Source {
	return t.m[k]
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.m)
}

// LineSet tracks, per file, the directive lines that have not been shown to
// suppress anything yet.
type LineSet struct {
	files map[string]map[int]struct{}
	order []string
}

// NewLineSet returns an empty set.
func NewLineSet() *LineSet {
	return &LineSet{files: make(map[string]map[int]struct{})}
}

// Touch registers file even if it never gets a candidate line.
func (s *LineSet) Touch(file string) {
	if _, ok := s.files[file]; ok {
		return
	}
	s.files[file] = make(map[int]struct{})
	s.order = append(s.order, file)
}

// Add marks line of file as a candidate.
func (s *LineSet) Add(file string, line int) {
	s.Touch(file)
	s.files[file][line] = struct{}{}
}

// Remove drops line of file from the candidates.
func (s *LineSet) Remove(file string, line int) {
	delete(s.files[file], line)
}

// Lines returns the remaining candidates of file in ascending order.
func (s *LineSet) Lines(file string) []int {
	set := s.files[file]
	if len(set) == 0 {
		return nil
	}

	lines := make([]int, 0, len(set))
	for l := range set {
		lines = append(lines, l)
	}
	slices.Sort(lines)

	return lines
}

// Files returns every touched file in registration order.
func (s *LineSet) Files() []string {
	return slices.Clone(s.order)
}

// Reset empties the candidates of file; the file stays registered.
func (s *LineSet) Reset(file string) {
	if set, ok := s.files[file]; ok {
		clear(set)
	}
}

// Len returns the total number of candidate lines.
func (s *LineSet) Len() int {
	n := 0
	for _, set := range s.files {
		n += len(set)
	}

	return n
}
