package emit

import (
	"strconv"
	"strings"
)

// TypeScript renders doc as an ES module. Assets are default imports so a
// bundler resolves them to URLs.
func TypeScript(doc *Document) []byte {
	p := &printer{indent: "    "}
	p.line(Header)
	p.line("")

	if len(doc.Imports) > 0 {
		for _, im := range doc.Imports {
			p.line("import %s from %s;", im.Name, tsString(im.Path))
		}
		p.line("")
	}

	for _, s := range doc.Types {
		p.open("export interface %s {", s.Name)
		for _, f := range s.Fields {
			p.line("%s: %s;", f.Name, tsType(f.Type))
		}
		p.close("}")
		p.line("")
	}

	c := doc.Catalog
	p.b.WriteString("export type " + c.TypeName + "<T> = ")
	tsShape(p, c.Root)
	p.b.WriteString(";\n\n")

	p.open("export function %s<T>(%s: (%s: %s) => T): %s<T> {", c.Factory, c.Param, c.ParamArg, c.ParamType, c.TypeName)
	p.b.WriteString(strings.Repeat(p.indent, p.depth) + "return ")
	tsValue(p, c.Root, c.Param)
	p.b.WriteString(";\n")
	p.close("}")

	for _, v := range doc.Vars {
		p.line("")
		p.b.WriteString("export const " + v.Name + ": " + tsType(v.Type) + " = ")
		tsExpr(p, v.Value)
		p.b.WriteString(";\n")
	}
	return p.bytes()
}

// tsShape writes the type skeleton of n, starting at the current position.
func tsShape(p *printer, n *Node) {
	if len(n.Children) == 0 {
		p.b.WriteString("{}")
		return
	}
	p.b.WriteString("{\n")
	p.depth++
	for _, c := range n.Children {
		if c.IsLeaf() {
			p.line("%s: T,", c.Field)
			continue
		}
		p.b.WriteString(strings.Repeat(p.indent, p.depth) + c.Field + ": ")
		tsShape(p, c)
		p.b.WriteString(",\n")
	}
	p.depth--
	p.b.WriteString(strings.Repeat(p.indent, p.depth) + "}")
}

// tsValue writes the value skeleton of n in the same order as tsShape.
func tsValue(p *printer, n *Node, factory string) {
	if len(n.Children) == 0 {
		p.b.WriteString("{}")
		return
	}
	p.b.WriteString("{\n")
	p.depth++
	for _, c := range n.Children {
		p.b.WriteString(strings.Repeat(p.indent, p.depth) + c.Field + ": ")
		if c.IsLeaf() {
			p.b.WriteString(factory + "(")
			tsExpr(p, c.Item)
			p.b.WriteString("),\n")
			continue
		}
		tsValue(p, c, factory)
		p.b.WriteString(",\n")
	}
	p.depth--
	p.b.WriteString(strings.Repeat(p.indent, p.depth) + "}")
}

func tsExpr(p *printer, e Expr) {
	switch v := e.(type) {
	case Ref:
		p.b.WriteString(v.Name)
	case Str:
		p.b.WriteString(tsString(string(v)))
	case Number:
		p.b.WriteString(strconv.FormatInt(int64(v), 10))
	case Decimal:
		p.b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 64))
	case Boolean:
		p.b.WriteString(strconv.FormatBool(bool(v)))
	case Null:
		p.b.WriteString("null")
	case Array:
		p.b.WriteString("[")
		for i, item := range v.Items {
			if i > 0 {
				p.b.WriteString(", ")
			}
			tsExpr(p, item)
		}
		p.b.WriteString("]")
	case Record:
		if len(v.Fields) == 0 {
			p.b.WriteString("{}")
			return
		}
		p.b.WriteString("{\n")
		p.depth++
		for _, f := range v.Fields {
			p.b.WriteString(strings.Repeat(p.indent, p.depth) + f.Name + ": ")
			tsExpr(p, f.Expr)
			p.b.WriteString(",\n")
		}
		p.depth--
		p.b.WriteString(strings.Repeat(p.indent, p.depth) + "}")
	case Dict:
		if len(v.Entries) == 0 {
			p.b.WriteString("{}")
			return
		}
		p.b.WriteString("{\n")
		p.depth++
		for _, en := range v.Entries {
			p.b.WriteString(strings.Repeat(p.indent, p.depth) + tsString(en.Key) + ": ")
			tsExpr(p, en.Expr)
			p.b.WriteString(",\n")
		}
		p.depth--
		p.b.WriteString(strings.Repeat(p.indent, p.depth) + "}")
	}
}

func tsType(t TypeRef) string {
	switch t.Kind {
	case String:
		return "string"
	case Int, Float:
		return "number"
	case Bool:
		return "boolean"
	case List:
		return tsType(*t.Elem) + "[]"
	case Map:
		return "{ [key: string]: " + tsType(*t.Elem) + " }"
	default:
		if t.Nullable {
			return t.Name + " | null"
		}
		return t.Name
	}
}

var tsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

func tsString(s string) string { return "'" + tsEscaper.Replace(s) + "'" }
