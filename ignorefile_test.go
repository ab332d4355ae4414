package ignorefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/ignorefile"
	"github.com/mpyw/ignorefile/internal/corpus"
	"github.com/mpyw/ignorefile/internal/rewrite"
	"github.com/mpyw/ignorefile/internal/suppress"
)

type world struct {
	c       *corpus.Corpus
	app     *corpus.Assembly
	lib     *corpus.Assembly
	typ     *corpus.Type
	method  *corpus.Method
	getName *corpus.Method
	helper  *corpus.Method
	libType *corpus.Type
}

func newWorld() world {
	c := corpus.New()

	app := c.AddAssembly("app", "example.com/app")
	mod := c.AddModule(app, "MyNamespace")
	typ := mod.AddType("MyType")
	method := typ.AddMethod("MyMethod")
	getName := typ.AddMethod("GetName")
	helper := mod.AddFunc("Helper", "*bytes.Buffer")

	lib := c.AddAssembly("lib", "example.com/lib@v1.0.0")
	libMod := c.AddModule(lib, "example.com/lib")
	libType := libMod.AddType("Client")

	return world{
		c:       c,
		app:     app,
		lib:     lib,
		typ:     typ,
		method:  method,
		getName: getName,
		helper:  helper,
		libType: libType,
	}
}

func writeIgnore(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(b)
}

func newList(t *testing.T, w world, path string, opts ...ignorefile.Option) *ignorefile.List {
	t.Helper()

	opts = append([]ignorefile.Option{ignorefile.WithTempDir(t.TempDir())}, opts...)
	l, err := ignorefile.New(w.c, path, opts...)
	require.NoError(t, err)

	return l
}

func TestUpdateIgnores(t *testing.T) {
	const content = "R RuleX\nM MyNamespace.MyType::MyMethod()\n"

	t.Run("no finding comments out the target", func(t *testing.T) {
		w := newWorld()
		path := writeIgnore(t, t.TempDir(), "ignore.txt", content)

		l := newList(t, w, path, ignorefile.WithAutoUpdate(true))
		require.NoError(t, l.UpdateIgnores(nil))

		assert.Equal(t, "R RuleX\n"+rewrite.Marker+"M MyNamespace.MyType::MyMethod()\n", readFile(t, path))
	})

	t.Run("finding keeps every line", func(t *testing.T) {
		w := newWorld()
		path := writeIgnore(t, t.TempDir(), "ignore.txt", content)

		l := newList(t, w, path, ignorefile.WithAutoUpdate(true))
		require.NoError(t, l.UpdateIgnores([]ignorefile.Finding{
			{Rule: "RuleX", Target: w.method, Location: w.method},
		}))

		assert.Equal(t, content, readFile(t, path))
	})

	t.Run("finding for another rule does not count", func(t *testing.T) {
		w := newWorld()
		path := writeIgnore(t, t.TempDir(), "ignore.txt", content)

		l := newList(t, w, path, ignorefile.WithAutoUpdate(true))
		require.NoError(t, l.UpdateIgnores([]ignorefile.Finding{
			{Rule: "RuleY", Target: w.method, Location: w.method},
		}))

		assert.Contains(t, readFile(t, path), rewrite.Marker)
	})
}

func TestUpdateIgnoresIsIdempotent(t *testing.T) {
	w := newWorld()
	path := writeIgnore(t, t.TempDir(), "ignore.txt",
		"R RuleX\nT MyNamespace.MyType\nM MyNamespace.Gone::Old()\n")

	l := newList(t, w, path, ignorefile.WithAutoUpdate(true))
	findings := []ignorefile.Finding{{Rule: "RuleX", Target: w.method, Location: w.method}}

	require.NoError(t, l.UpdateIgnores(findings))
	first := readFile(t, path)
	assert.Equal(t, "R RuleX\nT MyNamespace.MyType\n"+rewrite.Marker+"M MyNamespace.Gone::Old()\n", first)

	require.NoError(t, l.UpdateIgnores(findings))
	assert.Equal(t, first, readFile(t, path))

	// a fresh list over the rewritten file finds nothing else to prune
	again := newList(t, w, path, ignorefile.WithAutoUpdate(true))
	require.NoError(t, again.UpdateIgnores(findings))
	assert.Equal(t, first, readFile(t, path))
}

func TestUpdateIgnoresThroughAncestors(t *testing.T) {
	w := newWorld()
	dir := t.TempDir()
	path := writeIgnore(t, dir, "ignore.txt", `R RuleX
A app
N MyNamespace
M MyNamespace.MyType::Get*()
M MyNamespace::Helper(\*bytes.Buffer)
T example.com/lib.Client
`)

	l := newList(t, w, path, ignorefile.WithAutoUpdate(true))

	assert.True(t, l.IsIgnored("RuleX", w.getName))
	assert.True(t, l.IsIgnored("RuleX", w.helper))
	assert.True(t, l.IsIgnored("RuleX", w.libType))

	require.NoError(t, l.UpdateIgnores([]ignorefile.Finding{
		{Rule: "RuleX", Target: w.getName, Location: w.getName},
	}))

	// the finding is covered by the assembly, the namespace and the wildcard
	assert.Equal(t, `R RuleX
A app
N MyNamespace
M MyNamespace.MyType::Get*()
`+rewrite.Marker+`M MyNamespace::Helper(\*bytes.Buffer)
`+rewrite.Marker+`T example.com/lib.Client
`, readFile(t, path))
}

func TestUpdateIgnoresUsesLocation(t *testing.T) {
	w := newWorld()
	path := writeIgnore(t, t.TempDir(), "ignore.txt", "R RuleX\nT example.com/lib.Client\n")

	l := newList(t, w, path, ignorefile.WithAutoUpdate(true))

	f := ignorefile.Finding{Rule: "RuleX", Target: w.method, Location: w.libType}
	assert.True(t, l.Suppressed(f))

	require.NoError(t, l.UpdateIgnores([]ignorefile.Finding{f}))
	assert.NotContains(t, readFile(t, path), rewrite.Marker)
}

func TestUpdateIgnoresAcrossIncludes(t *testing.T) {
	w := newWorld()
	dir := t.TempDir()
	shared := writeIgnore(t, dir, "shared.ignore", "T example.com/lib.Client\n@ root.ignore\n")
	root := writeIgnore(t, dir, "root.ignore", "R RuleX\n@ shared.ignore\nT MyNamespace.MyType\n")

	l := newList(t, w, root, ignorefile.WithAutoUpdate(true))
	assert.Equal(t, []string{root, shared}, l.Files())

	require.NoError(t, l.UpdateIgnores([]ignorefile.Finding{
		{Rule: "RuleX", Target: w.method, Location: w.method},
	}))

	assert.Equal(t, "R RuleX\n@ shared.ignore\nT MyNamespace.MyType\n", readFile(t, root))
	assert.Equal(t, rewrite.Marker+"T example.com/lib.Client\n@ root.ignore\n", readFile(t, shared))
}

func TestStaleDoesNotRewrite(t *testing.T) {
	w := newWorld()
	path := writeIgnore(t, t.TempDir(), "ignore.txt", "R RuleX\nT MyNamespace.MyType\nT MyNamespace.Gone\n")

	l := newList(t, w, path, ignorefile.WithAutoUpdate(true))
	l.MarkUsed([]ignorefile.Finding{{Rule: "RuleX", Target: w.method}})

	assert.Equal(t, map[string][]int{path: {3}}, l.Stale())
	assert.Equal(t, "R RuleX\nT MyNamespace.MyType\nT MyNamespace.Gone\n", readFile(t, path))
}

func TestAllAssemblies(t *testing.T) {
	w := newWorld()
	dir := t.TempDir()

	star := newList(t, w, writeIgnore(t, dir, "star.ignore", "R RuleX\nA *\n"))
	listed := newList(t, w, writeIgnore(t, dir, "listed.ignore", "R RuleX\nA example.com/app\nA lib\n"))

	assert.Equal(t, []corpus.Entity{w.app, w.lib}, star.Store().Entities("RuleX"))
	assert.Equal(t, listed.Store().Entities("RuleX"), star.Store().Entities("RuleX"))
	assert.True(t, star.IsIgnored("RuleX", w.helper))
}

func TestAllAssembliesPrunedTogether(t *testing.T) {
	w := newWorld()
	path := writeIgnore(t, t.TempDir(), "ignore.txt", "R RuleX\nA *\n")

	l := newList(t, w, path, ignorefile.WithAutoUpdate(true))
	require.NoError(t, l.UpdateIgnores([]ignorefile.Finding{
		{Rule: "RuleX", Target: w.libType, Location: w.libType},
	}))

	assert.Equal(t, "R RuleX\nA *\n", readFile(t, path))
}

func TestOrderInsensitive(t *testing.T) {
	w := newWorld()
	dir := t.TempDir()

	a := newList(t, w, writeIgnore(t, dir, "a.ignore",
		"R RuleX\nT MyNamespace.MyType\nR RuleY\nM MyNamespace.MyType::Get*()\nA lib\n"))
	b := newList(t, w, writeIgnore(t, dir, "b.ignore",
		"R RuleY\nA lib\nM MyNamespace.MyType::Get*()\nR RuleX\nT MyNamespace.MyType\n"))

	require.Equal(t, a.Store().Rules(), b.Store().Rules())
	for _, rule := range a.Store().Rules() {
		assert.Equal(t, a.Store().Entities(rule), b.Store().Entities(rule), rule)
	}
}

func TestFilter(t *testing.T) {
	w := newWorld()
	path := writeIgnore(t, t.TempDir(), "ignore.txt", "R RuleX\nT MyNamespace.MyType\n")

	base := suppress.New()
	base.Add(suppress.AnyRule, w.helper)

	l := newList(t, w, path, ignorefile.WithBase(base))

	kept := ignorefile.Finding{Rule: "RuleY", Target: w.method, Location: w.method}
	got := l.Filter([]ignorefile.Finding{
		{Rule: "RuleX", Target: w.method, Location: w.method},
		kept,
		{Rule: "RuleZ", Target: w.helper, Location: w.helper},
	})

	assert.Equal(t, []ignorefile.Finding{kept}, got)
}

func TestNewErrors(t *testing.T) {
	_, err := ignorefile.New(nil, "ignore.txt")
	require.ErrorIs(t, err, ignorefile.ErrNoCorpus)

	l := newList(t, newWorld(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Empty(t, l.Files())
	assert.Zero(t, l.Store().Len())
	assert.ErrorIs(t, l.UpdateIgnores(nil), ignorefile.ErrAutoUpdateDisabled)
}

func TestNewWithZeroValueCorpus(t *testing.T) {
	c := &corpus.Corpus{}
	path := writeIgnore(t, t.TempDir(), "ignore.txt", "R RuleX\nN Foo\nT Foo.Bar\n")

	l, err := ignorefile.New(c, path, ignorefile.WithAutoUpdate(true), ignorefile.WithTempDir(t.TempDir()))
	require.NoError(t, err)

	assert.True(t, l.IsIgnored("RuleX", c.Namespace("Foo")))
	assert.Equal(t, 1, l.Store().Len())
	assert.Equal(t, map[string][]int{path: {2, 3}}, l.Stale())
}

func TestWildcardRuleNameIsRejected(t *testing.T) {
	w := newWorld()
	path := writeIgnore(t, t.TempDir(), "ignore.txt", "R RuleX\nT MyNamespace.MyType\nR *\nT example.com/lib.Client\n")

	l := newList(t, w, path)

	assert.True(t, l.IsIgnored("RuleX", w.method))
	assert.False(t, l.IsIgnored("RuleX", w.libType))
	assert.False(t, l.IsIgnored("RuleY", w.libType))
	assert.Equal(t, []string{"RuleX"}, l.Store().Rules())
}
