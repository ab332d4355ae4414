// Package directive parses ignore files.
//
// # File Format
//
// An ignore file is line oriented; the first character selects the kind:
//
//	# comment
//	R <rule-name>
//	A <assembly-name-or-*>
//	T <Full.Type.Name>
//	M <full method signature, may contain * as wildcard>
//	N <namespace>
//	@ <path to another ignore file>
//
// A rule declaration applies to every following target line, across include
// boundaries, until the next R line.
//
// # Includes
//
// Files are processed from a LIFO worklist seeded with the root file. A file
// is parsed at most once per [Parse] call, which also breaks include cycles.
// Files that do not exist or cannot be opened are skipped without error.
// Relative include paths are resolved against the including file's directory.
//
// # Errors
//
// A malformed line produces a warning on the configured logger and is
// otherwise ignored. A target line seen before any R line is malformed.
package directive
