// Package corpus models the analyzed code that ignore directives are bound to.
//
// # Hierarchy
//
// The model does not depend on any loader:
//
//	Corpus
//	└── Assembly          (Name, QualifiedName)
//	    └── Module        (Name; belongs to a Namespace)
//	        ├── Type      (FullName = <module>.<Name>)
//	        │   └── Method  (FullName = <type>::<Name>(<params>))
//	        └── Func      (FullName = <module>::<Name>(<params>))
//
// Every node implements [Entity]. [Entity.Parent] walks up the hierarchy
// (Method → Type or Module → Assembly). A Module's [Namespace] is a side
// link shared between modules; [Chain] includes it.
//
// # Namespaces
//
// Namespaces are interned by [Corpus.Namespace]: asking twice for the same
// name returns the same *Namespace. Namespace suppressions may be registered
// before any module refers to them.
//
// # Go mapping
//
// The goload sub-package fills a Corpus from go/packages:
//
//	┌────────────┬──────────────────────────────────────────────┐
//	│ Entity     │ Go construct                                 │
//	├────────────┼──────────────────────────────────────────────┤
//	│ Assembly   │ module (Name = last path element)            │
//	│ Module     │ package (Name = import path)                 │
//	│ Namespace  │ package import path                          │
//	│ Type       │ package-level named type                     │
//	│ Method     │ method declared on a named type              │
//	│ Func       │ package-level function                       │
//	└────────────┴──────────────────────────────────────────────┘
package corpus
