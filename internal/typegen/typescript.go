package typegen

import (
	"regexp"

	"github.com/bergundy/nexus-idl/internal/codegen/naming"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
)

type typescriptRenderer struct{}

// TypeScript renders interfaces and type aliases
func TypeScript() Renderer {
	return typescriptRenderer{}
}

func (typescriptRenderer) indent() string {
	return "  "
}

var tsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var jsDoc = writer.WrapOptions{Prefix: " *", Header: "/**", Trailer: " */"}

func (typescriptRenderer) prelude() []string {
	return nil
}

func (t typescriptRenderer) declare(w *writer.Writer, d Declaration) {
	w.Doc(d.Description, jsDoc)
	if !d.Object {
		w.Linef("export type %s = %s;", d.Title, t.typeName(d.Alias))
		return
	}

	w.Block("export interface "+d.Title+" {", "}", func() {
		for _, p := range d.Properties {
			w.Doc(p.Description, jsDoc)
			name := p.Name
			if !tsIdentifier.MatchString(name) {
				name = naming.Quote(name)
			}
			optional := ""
			if !p.Required {
				optional = "?"
			}
			w.Linef("%s%s: %s;", name, optional, t.typeName(p.Type))
		}
		if d.Open {
			w.Line("[property: string]: any;")
		}
	})
}

func (t typescriptRenderer) typeName(e TypeExpr) string {
	switch e.Kind {
	case KindString:
		return "string"
	case KindInteger, KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return t.typeName(*e.Items) + "[]"
	case KindObject:
		return "{ [key: string]: any }"
	case KindNamed:
		return e.Name
	default:
		return "any"
	}
}
