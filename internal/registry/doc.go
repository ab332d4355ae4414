// Package registry holds the rules a run can enable.
//
// # Rules
//
// A rule is a go/analysis analyzer; its name is the analyzer name and is
// what R lines and //ignorefile:ignore comments refer to:
//
//	R printf
//	M example.com/app.Logger::Logf(string, ...any)
//
// # Registering Rules
//
// Use [Registry.Register] to add entries:
//
//	reg := registry.New()
//	reg.Register(registry.Entry{Analyzer: printf.Analyzer, Default: true})
//
// The api.go file provides registration functions for the built-in rules:
//
//	RegisterVetRules(reg)    // printf, copylocks, lostcancel, ...
//	RegisterExtraRules(reg)  // nilness, shadow, unusedwrite
//
// [Default] returns a registry with both.
//
// # Selecting Rules
//
// [Registry.Select] turns rule names from flags or configuration into
// analyzers. An empty selection means every rule registered as Default:
//
//	analyzers, err := reg.Select([]string{"printf", "shadow"})
//	if errors.Is(err, registry.ErrUnknownRule) {
//	    // a name is not registered
//	}
package registry
