package typegen

import (
	"strings"
	"unicode"

	"github.com/bergundy/nexus-idl/internal/codegen/naming"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
)

// javaRenderer declares objects as records. Java has no type aliases, so
// titled scalar schemas produce nothing.
type javaRenderer struct{}

// Java renders records
func Java() Renderer {
	return javaRenderer{}
}

func (javaRenderer) indent() string {
	return "    "
}

var javadoc = writer.WrapOptions{Prefix: " *", Header: "/**", Trailer: " */"}

func (javaRenderer) prelude() []string {
	return nil
}

func (j javaRenderer) declare(w *writer.Writer, d Declaration) {
	if !d.Object {
		return
	}

	w.Doc(d.Description, javadoc)
	if len(d.Properties) == 0 {
		w.Linef("public record %s() {", d.Title)
		w.Line("}")
		return
	}

	w.Linef("public record %s(", d.Title)
	w.Indent()
	for i, p := range d.Properties {
		annotation := "@Nullable"
		if p.Required {
			annotation = "@Nonnull"
		}
		sep := ","
		if i == len(d.Properties)-1 {
			sep = ""
		}
		w.Linef("%s %s %s%s", annotation, j.typeName(p.Type), javaIdent(p.Name), sep)
	}
	w.Dedent()
	w.Line(") {")
	w.Line("}")
}

func (j javaRenderer) typeName(e TypeExpr) string {
	switch e.Kind {
	case KindString:
		return "String"
	case KindInteger:
		return "Long"
	case KindNumber:
		return "Double"
	case KindBoolean:
		return "Boolean"
	case KindArray:
		return "java.util.List<" + j.typeName(*e.Items) + ">"
	case KindObject:
		return "java.util.Map<String, Object>"
	case KindNamed:
		return e.Name
	default:
		return "Object"
	}
}

// javaIdent turns a property name into a camelCase record component name
func javaIdent(name string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)

	ident := naming.Camel(clean)
	if ident == "" || !unicode.IsLetter([]rune(ident)[0]) {
		ident = "_" + ident
	}
	if javaKeywords[ident] {
		ident += "_"
	}
	return ident
}

var javaKeywords = map[string]bool{
	"abstract": true, "boolean": true, "byte": true, "case": true, "catch": true,
	"char": true, "class": true, "default": true, "do": true, "double": true,
	"else": true, "enum": true, "extends": true, "final": true, "float": true,
	"for": true, "if": true, "import": true, "int": true, "interface": true,
	"long": true, "new": true, "package": true, "private": true, "public": true,
	"return": true, "short": true, "static": true, "switch": true, "this": true,
	"throw": true, "try": true, "void": true, "while": true,
}
