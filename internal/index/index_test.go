package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/ignorefile/internal/wildcard"
)

func TestExactLookups(t *testing.T) {
	x := New(nil)
	x.AddAssembly("RuleA", "asm")
	x.AddAssembly("RuleB", "asm")
	x.AddType("RuleA", "ns.T")
	x.AddMethod("RuleC", "ns.T::M()")

	assert.Equal(t, []Hit{{"RuleA", "asm"}, {"RuleB", "asm"}}, x.Assembly("asm"))
	assert.Equal(t, []Hit{{"RuleA", "ns.T"}}, x.Type("ns.T"))
	assert.Equal(t, []Hit{{"RuleC", "ns.T::M()"}}, x.Method("ns.T::M()"))
	assert.Nil(t, x.Assembly("other"))
	assert.Nil(t, x.Type("ns.U"))
}

func TestDuplicateRuleIsOneHit(t *testing.T) {
	x := New(nil)
	x.AddType("RuleA", "ns.T")
	x.AddType("RuleA", "ns.T")

	assert.Len(t, x.Type("ns.T"), 1)
}

func TestWildcardUnion(t *testing.T) {
	x := New(nil)
	require.NoError(t, x.AddMethodWildcard("RuleA", "ns.T::Get*()"))
	require.NoError(t, x.AddMethodWildcard("RuleB", "ns.*::GetName()"))
	require.NoError(t, x.AddMethodWildcard("RuleC", "ns.T::Set*()"))

	got := x.Method("ns.T::GetName()")
	assert.Equal(t, []Hit{
		{"RuleA", "ns.T::Get*()"},
		{"RuleB", "ns.*::GetName()"},
	}, got)
	assert.Equal(t, 3, x.Patterns())
}

func TestExactShadowsWildcard(t *testing.T) {
	x := New(nil)
	x.AddMethod("RuleExact", "ns.T::GetName()")
	require.NoError(t, x.AddMethodWildcard("RuleWild", "ns.T::Get*()"))

	assert.Equal(t, []Hit{{"RuleExact", "ns.T::GetName()"}}, x.Method("ns.T::GetName()"))
	assert.Equal(t, []Hit{{"RuleWild", "ns.T::Get*()"}}, x.Method("ns.T::GetID()"))
}

func TestPatternCompiledOnce(t *testing.T) {
	c := wildcard.NewCompiler()
	x := New(c)
	require.NoError(t, x.AddMethodWildcard("RuleA", "ns.T::Get*()"))
	require.NoError(t, x.AddMethodWildcard("RuleB", "ns.T::Get*()"))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, x.Patterns())
	assert.Len(t, x.Method("ns.T::GetX()"), 2)
}

func TestClear(t *testing.T) {
	c := wildcard.NewCompiler()
	x := New(c)
	x.AddAssembly("R", "asm")
	x.AddType("R", "ns.T")
	x.AddMethod("R", "ns.T::M()")
	require.NoError(t, x.AddMethodWildcard("R", "ns.T::X*()"))

	x.Clear()

	assert.Nil(t, x.Assembly("asm"))
	assert.Nil(t, x.Type("ns.T"))
	assert.Empty(t, x.Method("ns.T::M()"))
	assert.Equal(t, 1, x.Len())
	assert.Equal(t, 1, c.Len())
}
