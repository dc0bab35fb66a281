package typegen

import (
	"strings"
	"unicode"

	"github.com/bergundy/nexus-idl/internal/codegen/naming"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
)

type goRenderer struct{}

// Go renders structs and type aliases
func Go() Renderer {
	return goRenderer{}
}

func (goRenderer) indent() string {
	return "\t"
}

var goDoc = writer.WrapOptions{Prefix: "//"}

func (goRenderer) prelude() []string {
	return nil
}

func (g goRenderer) declare(w *writer.Writer, d Declaration) {
	name := d.Title
	if d.Description != "" {
		w.Doc(name+" "+d.Description, goDoc)
	}
	if !d.Object {
		w.Linef("type %s = %s", name, g.mapToGoType(d.Alias, true))
		return
	}

	w.Block("type "+name+" struct {", "}", func() {
		for _, p := range d.Properties {
			w.Doc(p.Description, goDoc)
			tag := p.Name
			if !p.Required {
				tag += ",omitempty"
			}
			w.Linef("%s %s `json:%s`", goIdent(p.Name), g.mapToGoType(p.Type, p.Required), naming.Quote(tag))
		}
	})
}

// mapToGoType maps a type expression to a Go type. Optional values are pointers.
func (g goRenderer) mapToGoType(e TypeExpr, required bool) string {
	if !required {
		return "*" + g.mapToGoType(e, true)
	}

	switch e.Kind {
	case KindString:
		return "string"
	case KindInteger:
		return "int64"
	case KindNumber:
		return "float64"
	case KindBoolean:
		return "bool"
	case KindArray:
		return "[]" + g.mapToGoType(*e.Items, true)
	case KindObject:
		return "map[string]any"
	case KindNamed:
		return e.Name
	default:
		return "any"
	}
}

// goIdent turns an arbitrary name into an exported Go identifier
func goIdent(name string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-' {
			return r
		}
		return '_'
	}, name)

	ident := naming.Pascal(clean)
	if ident == "" || !unicode.IsLetter([]rune(ident)[0]) {
		ident = "X" + ident
	}
	return ident
}
