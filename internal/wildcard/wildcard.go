// Package wildcard compiles method patterns containing '*' into anchored
// regular expressions.
//
// # Pattern Syntax
//
//   - "*" matches one or more ASCII letters, digits or underscores
//   - "\*" matches a literal "*" (pointer parameter types)
//   - every other character matches itself
//
// The whole method signature must match; patterns are anchored at both ends.
//
//	Foo*Bar   matches FooXBar, Foo123Bar, Foo_a_Bar
//	          does not match FooBar, Foo Bar, Foo.xBar
package wildcard

import (
	"regexp"
	"strings"
)

// Marker is the wildcard character in method directives.
const Marker = '*'

// fill is what each Marker expands to.
const fill = `[A-Za-z0-9_]+`

// HasWildcard reports whether s contains an unescaped Marker.
func HasWildcard(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && s[i+1] == Marker {
				i++
			}
		case Marker:
			return true
		}
	}

	return false
}

// Unescape turns every "\*" into "*". It is used for exact method targets.
func Unescape(s string) string {
	if !strings.Contains(s, `\*`) {
		return s
	}

	return strings.ReplaceAll(s, `\*`, "*")
}

// Expr returns the regular expression source for pattern.
func Expr(pattern string) string {
	var sb strings.Builder

	sb.WriteByte('^')

	lit := 0
	flush := func(end int) {
		if end > lit {
			sb.WriteString(regexp.QuoteMeta(pattern[lit:end]))
		}
	}

	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			if i+1 < len(pattern) && pattern[i+1] == Marker {
				flush(i)
				sb.WriteString(regexp.QuoteMeta(string(Marker)))
				i++
				lit = i + 1
			}
		case Marker:
			flush(i)
			sb.WriteString(fill)
			lit = i + 1
		}
	}
	flush(len(pattern))

	sb.WriteByte('$')

	return sb.String()
}

// Compiler compiles patterns once and caches them by pattern text.
// It is not safe for concurrent use.
type Compiler struct {
	cache map[string]*regexp.Regexp
}

// NewCompiler returns an empty compiler.
func NewCompiler() *Compiler {
	return &Compiler{cache: make(map[string]*regexp.Regexp)}
}

// Compile returns the compiled form of pattern.
func (c *Compiler) Compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := c.cache[pattern]; ok {
		return re, nil
	}

	re, err := regexp.Compile(Expr(pattern))
	if err != nil {
		return nil, err
	}
	c.cache[pattern] = re

	return re, nil
}

// Len returns the number of cached patterns.
func (c *Compiler) Len() int {
	return len(c.cache)
}
