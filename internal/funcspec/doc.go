// Package funcspec provides the canonical method signature of Go functions.
//
// # Signature Format
//
//	pkg/path::Func(params)          # Package-level function
//	pkg/path.Type::Method(params)   # Method on type
//
// Examples:
//
//	example.com/app.Logger::Logf(string, ...any)
//	example.com/app::Run(context.Context, *bytes.Buffer)
//	example.com/app.List::Push(T)
//
// # Parameters
//
// Parameters are written as their types only, separated by ", ". Types from
// other packages are qualified by package name; types of the function's own
// package are not. Pointer and generic receivers use the bare type name.
//
// Use [FromFunc] to build a [Spec] from type-checker output:
//
//	fn := pkg.TypesInfo.Defs[decl.Name].(*types.Func)
//	if spec, ok := funcspec.FromFunc(fn); ok {
//	    sig := spec.Signature()
//	}
package funcspec
