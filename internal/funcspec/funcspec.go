// Package funcspec describes Go functions and methods by the canonical
// signature used in method directives.
package funcspec

import (
	"go/types"
	"strings"

	"github.com/mpyw/ignorefile/internal/typeutil"
)

// Spec holds the parts of a method directive target.
// Format: "pkg/path::Func(params)" or "pkg/path.Type::Method(params)".
type Spec struct {
	PkgPath  string
	TypeName string // empty for package-level functions
	FuncName string
	Params   []string
}

// FromFunc builds the spec of fn. It returns false for functions without a
// package, such as builtins.
func FromFunc(fn *types.Func) (Spec, bool) {
	pkg := fn.Pkg()
	if pkg == nil {
		return Spec{}, false
	}

	return Spec{
		PkgPath:  pkg.Path(),
		TypeName: typeutil.ReceiverName(fn),
		FuncName: fn.Name(),
		Params:   typeutil.Params(fn.Signature(), pkg),
	}, true
}

// Signature returns the canonical signature text. It equals the FullName
// of the corpus method built from the same function.
func (s Spec) Signature() string {
	owner := s.PkgPath
	if s.TypeName != "" {
		owner += "." + s.TypeName
	}

	return owner + "::" + s.FuncName + "(" + strings.Join(s.Params, ", ") + ")"
}
