// Package resolve binds indexed directive targets to corpus entities.
package resolve

import (
	"github.com/mpyw/ignorefile/internal/corpus"
	"github.com/mpyw/ignorefile/internal/index"
)

// Registrar receives every (rule, entity) pair the resolver finds. declared
// is the directive target text that produced the pair.
type Registrar interface {
	Register(rule string, e corpus.Entity, declared string)
}

// RegistrarFunc adapts a function to [Registrar].
type RegistrarFunc func(rule string, e corpus.Entity, declared string)

func (f RegistrarFunc) Register(rule string, e corpus.Entity, declared string) {
	f(rule, e, declared)
}

// Stats counts what a resolution pass bound.
type Stats struct {
	Assemblies int
	Types      int
	Methods    int
}

// Total returns the number of registrations.
func (s Stats) Total() int {
	return s.Assemblies + s.Types + s.Methods
}

// Resolve walks c once, registering every entity that idx knows a rule for,
// then clears idx.
func Resolve(c *corpus.Corpus, idx *index.Index, r Registrar) Stats {
	var st Stats

	emit := func(e corpus.Entity, hits []index.Hit) int {
		for _, h := range hits {
			r.Register(h.Rule, e, h.Target)
		}

		return len(hits)
	}

	for _, a := range c.Assemblies {
		st.Assemblies += emit(a, idx.Assembly(a.QualifiedName))
		if a.Name != a.QualifiedName {
			st.Assemblies += emit(a, idx.Assembly(a.Name))
		}

		for _, m := range a.Modules {
			for _, fn := range m.Funcs {
				st.Methods += emit(fn, idx.Method(fn.FullName()))
			}

			for _, t := range m.Types {
				st.Types += emit(t, idx.Type(t.FullName()))

				for _, meth := range t.Methods {
					st.Methods += emit(meth, idx.Method(meth.FullName()))
				}
			}
		}
	}

	idx.Clear()

	return st
}
