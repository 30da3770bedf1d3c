package emit

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/remvst/asset-catalog/internal/naming"
)

// Go renders doc as a Go source file. Imports become string constants,
// branch levels become generic struct types and member names are exported.
// The output is syntactically valid but not gofmt-formatted.
func Go(doc *Document) ([]byte, error) {
	if doc.Package == "" {
		return nil, errors.New("emit: Go output needs a package name")
	}
	types := naming.NewRegistry("types")
	for _, s := range doc.Types {
		if err := types.Claim(s.Name, s.Name); err != nil {
			return nil, err
		}
	}

	p := &printer{indent: "\t"}
	p.line(Header)
	p.line("")
	p.line("package %s", doc.Package)

	if len(doc.Imports) > 0 {
		p.line("")
		p.open("const (")
		for _, im := range doc.Imports {
			p.line("%s = %s", im.Name, strconv.Quote(im.Path))
		}
		p.close(")")
	}

	for _, s := range doc.Types {
		p.line("")
		p.open("type %s struct {", s.Name)
		for _, f := range s.Fields {
			p.line("%s %s `json:%q`", goName(f.Name), goType(f.Type), f.Name)
		}
		p.close("}")
	}

	c := doc.Catalog
	if err := goShapes(p, c.Root, "", types); err != nil {
		return nil, err
	}

	p.line("")
	p.open("func %s[T any](%s func(%s %s) T) %s[T] {", goName(c.Factory), c.Param, c.ParamArg, c.ParamType, c.TypeName)
	p.b.WriteString(strings.Repeat(p.indent, p.depth) + "return ")
	goValue(p, c.Root, c.Param)
	p.b.WriteString("\n")
	p.close("}")

	for _, v := range doc.Vars {
		p.line("")
		p.b.WriteString("var " + goName(v.Name) + " = ")
		goExpr(p, v.Value)
		p.b.WriteString("\n")
	}
	return p.bytes(), nil
}

// goShapes declares the struct type of n and then of every branch below it.
func goShapes(p *printer, n *Node, path string, types *naming.Registry) error {
	if err := types.Claim(n.TypeName, "/"+path); err != nil {
		return err
	}
	fields := naming.NewRegistry(n.TypeName)
	p.line("")
	if len(n.Children) == 0 {
		p.line("type %s[T any] struct{}", n.TypeName)
		return nil
	}
	p.open("type %s[T any] struct {", n.TypeName)
	for _, c := range n.Children {
		name := goName(c.Field)
		if err := fields.Claim(name, c.Field); err != nil {
			return err
		}
		typ := "T"
		if !c.IsLeaf() {
			typ = c.TypeName + "[T]"
		}
		p.line("%s %s `json:%q`", name, typ, c.Field)
	}
	p.close("}")

	for _, c := range n.Children {
		if c.IsLeaf() {
			continue
		}
		if err := goShapes(p, c, strings.TrimPrefix(path+"/"+c.Field, "/"), types); err != nil {
			return err
		}
	}
	return nil
}

func goValue(p *printer, n *Node, factory string) {
	if len(n.Children) == 0 {
		p.b.WriteString(n.TypeName + "[T]{}")
		return
	}
	p.b.WriteString(n.TypeName + "[T]{\n")
	p.depth++
	for _, c := range n.Children {
		p.b.WriteString(strings.Repeat(p.indent, p.depth) + goName(c.Field) + ": ")
		if c.IsLeaf() {
			p.b.WriteString(factory + "(")
			goExpr(p, c.Item)
			p.b.WriteString("),\n")
			continue
		}
		goValue(p, c, factory)
		p.b.WriteString(",\n")
	}
	p.depth--
	p.b.WriteString(strings.Repeat(p.indent, p.depth) + "}")
}

func goExpr(p *printer, e Expr) {
	switch v := e.(type) {
	case Ref:
		p.b.WriteString(v.Name)
	case Str:
		p.b.WriteString(strconv.Quote(string(v)))
	case Number:
		p.b.WriteString(strconv.FormatInt(int64(v), 10))
	case Decimal:
		p.b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 64))
	case Boolean:
		p.b.WriteString(strconv.FormatBool(bool(v)))
	case Null:
		p.b.WriteString("nil")
	case Array:
		p.b.WriteString("[]" + goType(v.Elem) + "{")
		for i, item := range v.Items {
			if i > 0 {
				p.b.WriteString(", ")
			}
			goExpr(p, item)
		}
		p.b.WriteString("}")
	case Record:
		if v.Pointer {
			p.b.WriteString("&")
		}
		p.b.WriteString(v.Type + "{")
		if len(v.Fields) == 0 {
			p.b.WriteString("}")
			return
		}
		p.b.WriteString("\n")
		p.depth++
		for _, f := range v.Fields {
			p.b.WriteString(strings.Repeat(p.indent, p.depth) + goName(f.Name) + ": ")
			goExpr(p, f.Expr)
			p.b.WriteString(",\n")
		}
		p.depth--
		p.b.WriteString(strings.Repeat(p.indent, p.depth) + "}")
	case Dict:
		p.b.WriteString("map[string]" + goType(v.Value) + "{")
		if len(v.Entries) == 0 {
			p.b.WriteString("}")
			return
		}
		p.b.WriteString("\n")
		p.depth++
		for _, en := range v.Entries {
			p.b.WriteString(strings.Repeat(p.indent, p.depth) + strconv.Quote(en.Key) + ": ")
			goExpr(p, en.Expr)
			p.b.WriteString(",\n")
		}
		p.depth--
		p.b.WriteString(strings.Repeat(p.indent, p.depth) + "}")
	}
}

func goType(t TypeRef) string {
	switch t.Kind {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float64"
	case Bool:
		return "bool"
	case List:
		return "[]" + goType(*t.Elem)
	case Map:
		return "map[string]" + goType(*t.Elem)
	default:
		if t.Nullable {
			return "*" + t.Name
		}
		return t.Name
	}
}

// goName exports a lower camel member name. A leading underscore, added to
// names that would start with a digit, becomes "X".
func goName(s string) string {
	if s == "" {
		return s
	}
	if s[0] == '_' {
		return "X" + s[1:]
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
