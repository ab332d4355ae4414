// Package ignorefile suppresses reviewed static-analysis findings listed in
// a directive file.
//
// # Directive Files
//
// A directive file names a rule and then the code it should be ignored for:
//
//	# reviewed by the team
//	R printf
//	A example.com/legacy@v1.4.0
//	T example.com/app.Logger
//	M example.com/app.Logger::Logf(string, ...any)
//	M example.com/app.Logger::Debug*(string)
//	N example.com/app/internal/gen
//	@ ../shared.ignore
//
// A suppression on an entity covers everything below it: an assembly covers
// its modules, a type covers its methods and a namespace covers every module
// declared in it. "A *" stands for every loaded assembly.
//
// # Auto Update
//
// With [WithAutoUpdate], [List.UpdateIgnores] takes the findings of an
// unsuppressed run and comments out every directive line that suppressed
// none of them:
//
//	R printf
//	##Commented by AutoUpdateIgnore## M example.com/app.Logger::Gone()
//
// Line numbers are kept so later diagnostics still point at the right line.
// Calling UpdateIgnores again with the same findings changes nothing.
package ignorefile
