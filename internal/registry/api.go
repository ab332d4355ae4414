package registry

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/stringintconv"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/analysis/passes/unusedwrite"
)

// RegisterVetRules registers the correctness checks also run by go vet.
func RegisterVetRules(reg *Registry) {
	for _, a := range []*analysis.Analyzer{
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		copylock.Analyzer,
		defers.Analyzer,
		errorsas.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		stringintconv.Analyzer,
		unmarshal.Analyzer,
		unusedresult.Analyzer,
	} {
		reg.Register(Entry{Analyzer: a, Default: true})
	}
}

// RegisterExtraRules registers checks outside go vet. nilness runs by
// default; shadow and unusedwrite are noisy and run only when selected.
func RegisterExtraRules(reg *Registry) {
	reg.Register(
		Entry{Analyzer: nilness.Analyzer, Default: true},
		Entry{Analyzer: shadow.Analyzer},
		Entry{Analyzer: unusedwrite.Analyzer},
	)
}

// Default returns a registry holding every built-in rule.
func Default() *Registry {
	reg := New()
	RegisterVetRules(reg)
	RegisterExtraRules(reg)

	return reg
}
