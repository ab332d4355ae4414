package corpus

import (
	"fmt"
	"strings"
)

// EntityKind identifies the level of an [Entity] in the hierarchy.
type EntityKind int

const (
	KindAssembly EntityKind = iota
	KindModule
	KindNamespace
	KindType
	KindMethod
)

var kindNames = [...]string{
	KindAssembly:  "assembly",
	KindModule:    "module",
	KindNamespace: "namespace",
	KindType:      "type",
	KindMethod:    "method",
}

func (k EntityKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind is the inverse of [EntityKind.String].
func ParseKind(s string) (EntityKind, bool) {
	for i, name := range kindNames {
		if name == s {
			return EntityKind(i), true
		}
	}

	return 0, false
}

// Entity is anything a suppression can be attached to.
type Entity interface {
	Kind() EntityKind
	FullName() string
	Parent() Entity
}

// Assembly is the top-level unit of analysis.
type Assembly struct {
	Name          string // short name
	QualifiedName string // full name, e.g. path@version
	Modules       []*Module
}

func (a *Assembly) Kind() EntityKind { return KindAssembly }
func (a *Assembly) FullName() string { return a.QualifiedName }
func (a *Assembly) Parent() Entity   { return nil }

// Attach adds a detached module to the assembly.
func (a *Assembly) Attach(m *Module) {
	m.Assembly = a
	a.Modules = append(a.Modules, m)
}

// Module groups types and functions. Modules can be built detached from any
// assembly (see [NewModule]) and attached later.
type Module struct {
	Name      string
	Namespace *Namespace
	Types     []*Type
	Funcs     []*Method
	Assembly  *Assembly
}

// NewModule returns a module that is not yet part of an assembly.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

func (m *Module) Kind() EntityKind { return KindModule }
func (m *Module) FullName() string { return m.Name }

func (m *Module) Parent() Entity {
	if m.Assembly == nil {
		return nil
	}

	return m.Assembly
}

// AddType declares a type in the module.
func (m *Module) AddType(name string) *Type {
	t := &Type{Name: name, Module: m}
	m.Types = append(m.Types, t)

	return t
}

// AddFunc declares a module-level function.
func (m *Module) AddFunc(name string, params ...string) *Method {
	fn := &Method{Name: name, Params: params, Module: m}
	m.Funcs = append(m.Funcs, fn)

	return fn
}

// Namespace is an interned name shared by modules.
type Namespace struct {
	Name string
}

func (n *Namespace) Kind() EntityKind { return KindNamespace }
func (n *Namespace) FullName() string { return n.Name }
func (n *Namespace) Parent() Entity   { return nil }

// Type is a named type.
type Type struct {
	Name    string
	Methods []*Method
	Module  *Module
}

func (t *Type) Kind() EntityKind { return KindType }
func (t *Type) FullName() string { return t.Module.Name + "." + t.Name }
func (t *Type) Parent() Entity   { return t.Module }

// AddMethod declares a method on the type.
func (t *Type) AddMethod(name string, params ...string) *Method {
	m := &Method{Name: name, Params: params, Type: t, Module: t.Module}
	t.Methods = append(t.Methods, m)

	return m
}

// Method is either a method of a Type or, when Type is nil, a module-level
// function.
type Method struct {
	Name   string
	Params []string
	Type   *Type // nil for module-level functions
	Module *Module
}

func (m *Method) Kind() EntityKind { return KindMethod }

// FullName returns the canonical signature text that method directives are
// matched against.
func (m *Method) FullName() string {
	var sb strings.Builder

	if m.Type != nil {
		sb.WriteString(m.Type.FullName())
	} else {
		sb.WriteString(m.Module.Name)
	}
	sb.WriteString("::")
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(m.Params, ", "))
	sb.WriteByte(')')

	return sb.String()
}

func (m *Method) Parent() Entity {
	if m.Type != nil {
		return m.Type
	}

	return m.Module
}

// Corpus is the set of loaded assemblies plus the namespace registry. The
// zero value is an empty corpus.
type Corpus struct {
	Assemblies []*Assembly

	namespaces map[string]*Namespace
	lookup     map[lookupKey]Entity
}

type lookupKey struct {
	kind EntityKind
	name string
}

// New returns an empty corpus.
func New() *Corpus {
	return &Corpus{namespaces: make(map[string]*Namespace)}
}

// AddAssembly appends a new assembly.
func (c *Corpus) AddAssembly(name, fullName string) *Assembly {
	a := &Assembly{Name: name, QualifiedName: fullName}
	c.Assemblies = append(c.Assemblies, a)
	c.lookup = nil

	return a
}

// AddModule creates a module inside a and links it to the namespace of the
// same name.
func (c *Corpus) AddModule(a *Assembly, name string) *Module {
	m := NewModule(name)
	c.Attach(a, m)

	return m
}

// Attach adds a detached module to a and links its namespace.
func (c *Corpus) Attach(a *Assembly, m *Module) {
	if m.Namespace == nil {
		m.Namespace = c.Namespace(m.Name)
	}
	a.Attach(m)
	c.lookup = nil
}

// Namespace returns the interned namespace for name.
func (c *Corpus) Namespace(name string) *Namespace {
	if ns, ok := c.namespaces[name]; ok {
		return ns
	}

	if c.namespaces == nil {
		c.namespaces = make(map[string]*Namespace)
	}

	ns := &Namespace{Name: name}
	c.namespaces[name] = ns

	return ns
}

// Lookup finds an entity by kind and full name. The lookup table is built on
// first use and rebuilt after AddAssembly or Attach; types and methods added
// to an already attached module after that are not seen.
func (c *Corpus) Lookup(kind EntityKind, fullName string) (Entity, bool) {
	if c.lookup == nil {
		c.buildLookup()
	}

	if kind == KindNamespace {
		ns, ok := c.namespaces[fullName]
		if !ok {
			return nil, false
		}

		return ns, true
	}

	e, ok := c.lookup[lookupKey{kind, fullName}]

	return e, ok
}

func (c *Corpus) buildLookup() {
	c.lookup = make(map[lookupKey]Entity)

	put := func(e Entity) {
		k := lookupKey{e.Kind(), e.FullName()}
		if _, exists := c.lookup[k]; !exists {
			c.lookup[k] = e
		}
	}

	for _, a := range c.Assemblies {
		put(a)
		for _, m := range a.Modules {
			put(m)
			for _, fn := range m.Funcs {
				put(fn)
			}
			for _, t := range m.Types {
				put(t)
				for _, meth := range t.Methods {
					put(meth)
				}
			}
		}
	}
}

// Chain returns e followed by its ancestors. When a module is reached its
// namespace is included right after it.
func Chain(e Entity) []Entity {
	var chain []Entity

	for cur := e; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
		if m, ok := cur.(*Module); ok && m.Namespace != nil {
			chain = append(chain, m.Namespace)
		}
	}

	return chain
}
