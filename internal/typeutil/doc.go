// Package typeutil formats go/types values for method signatures.
//
// # Qualification
//
// Types are written with the package name, not the import path, and types
// of the package being described are left unqualified:
//
//	func (b *Builder) Write(p []byte, w io.Writer, opts ...Option)
//	// Params → []string{"[]byte", "io.Writer", "...Option"}
package typeutil
