package emit

import (
	"fmt"
	"strings"

	"github.com/remvst/asset-catalog/api"
)

// Header opens every generated file.
const Header = "// Code generated by asset-catalog. DO NOT EDIT."

// Render renders doc in the target language.
func Render(doc *Document, target api.Target) ([]byte, error) {
	switch target {
	case api.TargetTypeScript:
		return TypeScript(doc), nil
	case api.TargetGo:
		return Go(doc)
	default:
		return nil, fmt.Errorf("emit: unknown target %q", target)
	}
}

// printer accumulates indented lines.
type printer struct {
	b      strings.Builder
	indent string
	depth  int
}

func (p *printer) line(format string, args ...any) {
	if format == "" {
		p.b.WriteByte('\n')
		return
	}
	p.b.WriteString(strings.Repeat(p.indent, p.depth))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

// open writes a line ending in an opening bracket and indents what follows.
func (p *printer) open(format string, args ...any) {
	p.line(format, args...)
	p.depth++
}

// close dedents and writes the closing line.
func (p *printer) close(format string, args ...any) {
	p.depth--
	p.line(format, args...)
}

func (p *printer) bytes() []byte { return []byte(p.b.String()) }
