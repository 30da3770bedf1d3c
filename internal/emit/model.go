// Package emit builds a language-neutral model of a generated catalog and
// renders it as TypeScript or Go source.
package emit

// Document is one generated file, in rendering order: imports, shared
// types, the catalog type, the factory, then any extra values.
type Document struct {
	Package string // Go package clause. Ignored for TypeScript.
	Imports []Import
	Types   []Struct
	Catalog Catalog
	Vars    []Var
}

// Import binds Name to a referenced asset file.
type Import struct {
	Name string
	Path string // Specifier relative to the generated file, e.g. "./ui/button.png".
}

// Struct is a shared record type used by the factory signature.
type Struct struct {
	Name   string
	Fields []Field
}

// Field is a named member of a Struct. Names are lower camel case; the Go
// renderer exports them.
type Field struct {
	Name string
	Type TypeRef
}

// Kind enumerates the TypeRef shapes.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Named
	List
	Map // String keys.
)

// TypeRef is a field or value type.
type TypeRef struct {
	Kind     Kind
	Name     string   // Named only.
	Elem     *TypeRef // List element or Map value.
	Nullable bool     // Named only: "T | null" or "*T".
}

func NamedType(name string) TypeRef    { return TypeRef{Kind: Named, Name: name} }
func NullableType(name string) TypeRef { return TypeRef{Kind: Named, Name: name, Nullable: true} }
func ListOf(elem TypeRef) TypeRef      { return TypeRef{Kind: List, Elem: &elem} }
func MapOf(value TypeRef) TypeRef      { return TypeRef{Kind: Map, Elem: &value} }

// Expr is a value expression.
type Expr interface{ expr() }

// Ref names an import or another declaration.
type Ref struct{ Name string }

type Str string

// Number is an integer literal.
type Number int64

// Decimal is a floating point literal.
type Decimal float64

type Boolean bool

type Null struct{}

// Record is a struct literal. Pointer marks a value stored behind a nullable
// field.
type Record struct {
	Type    string
	Pointer bool
	Fields  []Value
}

// Value is one member of a Record.
type Value struct {
	Name string
	Expr Expr
}

// Array is a list literal.
type Array struct {
	Elem  TypeRef
	Items []Expr
}

// Dict is a map literal keyed by strings, in entry order.
type Dict struct {
	Value   TypeRef
	Entries []Entry
}

type Entry struct {
	Key  string
	Expr Expr
}

func (Ref) expr()     {}
func (Str) expr()     {}
func (Number) expr()  {}
func (Decimal) expr() {}
func (Boolean) expr() {}
func (Null) expr()    {}
func (Record) expr()  {}
func (Array) expr()   {}
func (Dict) expr()    {}

// Catalog is the generic catalog type and its factory.
type Catalog struct {
	TypeName  string // e.g. "TextureCatalog"
	Factory   string // e.g. "createTextureCatalog"
	Param     string // Factory argument, e.g. "createItem".
	ParamArg  string // Name of the argument of Param, e.g. "opts".
	ParamType string // Struct passed to Param, e.g. "CreateItemOptions".
	Root      *Node
}

// Node is one level of the catalog shape. A node with Item set is a leaf;
// otherwise Children holds the next level.
type Node struct {
	Field    string // Member name in the parent. Empty for the root.
	TypeName string // Named type of a branch level (Go output).
	Children []*Node
	Item     Expr // Argument passed to the factory parameter.
}

// IsLeaf reports whether n is a catalog item.
func (n *Node) IsLeaf() bool { return n.Item != nil }

// Var is an exported top-level value.
type Var struct {
	Name  string
	Type  TypeRef
	Value Expr
}
