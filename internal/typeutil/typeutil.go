package typeutil

import (
	"go/types"
)

// unwrapPointer returns the element type if t is a pointer, otherwise returns t.
func unwrapPointer(t types.Type) types.Type {
	if ptr, ok := t.(*types.Pointer); ok {
		return ptr.Elem()
	}

	return t
}

// qualifier writes package-level objects as pkgname.Name, omitting the
// package the signature belongs to.
func qualifier(self *types.Package) types.Qualifier {
	return func(p *types.Package) string {
		if p == self {
			return ""
		}

		return p.Name()
	}
}

// TypeString formats t the way it is written in source by a package other
// than self, e.g. "*bytes.Buffer" or "map[string]io.Reader".
// Types declared in self are written unqualified.
func TypeString(t types.Type, self *types.Package) string {
	return types.TypeString(t, qualifier(self))
}

// Params returns the parameter types of sig. The final parameter of a
// variadic signature is written as "...T".
func Params(sig *types.Signature, self *types.Package) []string {
	params := sig.Params()
	out := make([]string, params.Len())

	for i := range params.Len() {
		t := params.At(i).Type()

		if sig.Variadic() && i == params.Len()-1 {
			if s, ok := t.(*types.Slice); ok {
				out[i] = "..." + TypeString(s.Elem(), self)

				continue
			}
		}

		out[i] = TypeString(t, self)
	}

	return out
}

// ReceiverName returns the name of the named type fn is declared on, or ""
// for package-level functions. Pointer receivers and type arguments are
// stripped.
func ReceiverName(fn *types.Func) string {
	recv := fn.Signature().Recv()
	if recv == nil {
		return ""
	}

	switch t := unwrapPointer(recv.Type()).(type) {
	case *types.Named:
		return t.Obj().Name()
	case *types.Alias:
		return t.Obj().Name()
	default:
		return ""
	}
}
