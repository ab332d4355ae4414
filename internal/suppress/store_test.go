package suppress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpyw/ignorefile/internal/corpus"
)

type fixture struct {
	c    *corpus.Corpus
	asm  *corpus.Assembly
	mod  *corpus.Module
	typ  *corpus.Type
	meth *corpus.Method
	fn   *corpus.Method
}

func newFixture() fixture {
	c := corpus.New()
	asm := c.AddAssembly("asm", "asm@v1")
	mod := c.AddModule(asm, "ns")
	typ := mod.AddType("T")

	return fixture{
		c:    c,
		asm:  asm,
		mod:  mod,
		typ:  typ,
		meth: typ.AddMethod("M"),
		fn:   mod.AddFunc("F"),
	}
}

func TestIsIgnoredWalksAncestors(t *testing.T) {
	tests := []struct {
		name   string
		on     func(f fixture) corpus.Entity
		target func(f fixture) corpus.Entity
		want   bool
	}{
		{
			name:   "self",
			on:     func(f fixture) corpus.Entity { return f.meth },
			target: func(f fixture) corpus.Entity { return f.meth },
			want:   true,
		},
		{
			name:   "declaring type",
			on:     func(f fixture) corpus.Entity { return f.typ },
			target: func(f fixture) corpus.Entity { return f.meth },
			want:   true,
		},
		{
			name:   "namespace",
			on:     func(f fixture) corpus.Entity { return f.c.Namespace("ns") },
			target: func(f fixture) corpus.Entity { return f.fn },
			want:   true,
		},
		{
			name:   "assembly",
			on:     func(f fixture) corpus.Entity { return f.asm },
			target: func(f fixture) corpus.Entity { return f.meth },
			want:   true,
		},
		{
			name:   "sibling is not covered",
			on:     func(f fixture) corpus.Entity { return f.fn },
			target: func(f fixture) corpus.Entity { return f.meth },
			want:   false,
		},
		{
			name:   "child does not cover parent",
			on:     func(f fixture) corpus.Entity { return f.meth },
			target: func(f fixture) corpus.Entity { return f.typ },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			s := New()
			s.Add("RuleX", tt.on(f))

			assert.Equal(t, tt.want, s.IsIgnored("RuleX", tt.target(f)))
			assert.False(t, s.IsIgnored("RuleY", tt.target(f)))
		})
	}
}

func TestMatchesReportsEveryLevel(t *testing.T) {
	f := newFixture()
	s := New()
	s.Add("RuleX", f.meth)
	s.Add("RuleX", f.asm)

	assert.Equal(t, []Match{
		{Rule: "RuleX", Entity: f.meth},
		{Rule: "RuleX", Entity: f.asm},
	}, s.Matches("RuleX", f.meth))
}

func TestAnyRule(t *testing.T) {
	f := newFixture()
	s := New()
	s.Add(AnyRule, f.typ)

	assert.True(t, s.IsIgnored("RuleX", f.meth))
	assert.Equal(t, []Match{{Rule: AnyRule, Entity: f.typ}}, s.Matches("RuleX", f.meth))
	assert.Len(t, s.Matches(AnyRule, f.meth), 1)
}

func TestNilEntity(t *testing.T) {
	s := New()
	s.Add("RuleX", newFixture().meth)

	assert.False(t, s.IsIgnored("RuleX", nil))
}

func TestMergeAndListing(t *testing.T) {
	f := newFixture()
	base := New()
	base.Add("RuleB", f.typ)

	s := New()
	s.Add("RuleA", f.meth)
	s.Add("RuleA", f.asm)
	s.Merge(base)
	s.Merge(nil)

	assert.Equal(t, []string{"RuleA", "RuleB"}, s.Rules())
	assert.Equal(t, []corpus.Entity{f.asm, f.meth}, s.Entities("RuleA"))
	assert.Equal(t, 3, s.Len())
	assert.Empty(t, s.Entities("RuleC"))
}
