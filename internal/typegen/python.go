package typegen

import (
	"strings"

	"github.com/bergundy/nexus-idl/internal/codegen/naming"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
)

type pythonRenderer struct{}

// Python renders pydantic models and type aliases
func Python() Renderer {
	return pythonRenderer{}
}

func (pythonRenderer) indent() string {
	return "    "
}

func (pythonRenderer) prelude() []string {
	return []string{
		"from pydantic import BaseModel, Field",
		"from typing import Any, Dict, List, Optional",
	}
}

func (p pythonRenderer) declare(w *writer.Writer, d Declaration) {
	// two blank lines around top-level definitions
	w.Line("")

	if !d.Object {
		w.Linef("%s = %s", d.Title, p.typeName(d.Alias))
		pyDocstring(w, d.Description)
		return
	}

	w.Linef("class %s(BaseModel):", d.Title)
	w.Indent()
	defer w.Dedent()

	body := false
	if d.Description != "" {
		pyDocstring(w, d.Description)
		body = true
	}

	// fields without defaults must precede those with defaults
	var ordered []Property
	for _, prop := range d.Properties {
		if prop.Required {
			ordered = append(ordered, prop)
		}
	}
	for _, prop := range d.Properties {
		if !prop.Required {
			ordered = append(ordered, prop)
		}
	}

	for _, prop := range ordered {
		if body {
			w.Blank()
		}
		body = true

		field := naming.Snake(prop.Name)
		if field == "" {
			field = "field"
		}
		if pyKeywords[field] {
			field += "_"
		}
		typ := p.typeName(prop.Type)

		switch {
		case prop.Required && field == prop.Name:
			w.Linef("%s: %s", field, typ)
		case prop.Required:
			w.Linef("%s: %s = Field(alias=%s)", field, typ, naming.Quote(prop.Name))
		case field == prop.Name:
			w.Linef("%s: Optional[%s] = None", field, typ)
		default:
			w.Linef("%s: Optional[%s] = Field(default=None, alias=%s)", field, typ, naming.Quote(prop.Name))
		}
		pyDocstring(w, prop.Description)
	}

	if !body {
		w.Line("pass")
	}
}

var docEscaper = strings.NewReplacer(`\`, `\\`, `"""`, `\"\"\"`, "\r\n", " ", "\n", " ")

// pyDocstring writes text as a single-line docstring, nothing for empty text
func pyDocstring(w *writer.Writer, text string) {
	if text == "" {
		return
	}
	w.Line(`"""` + docEscaper.Replace(text) + `"""`)
}

var pyKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

func (p pythonRenderer) typeName(e TypeExpr) string {
	switch e.Kind {
	case KindString:
		return "str"
	case KindInteger:
		return "int"
	case KindNumber:
		return "float"
	case KindBoolean:
		return "bool"
	case KindArray:
		return "List[" + p.typeName(*e.Items) + "]"
	case KindObject:
		return "Dict[str, Any]"
	case KindNamed:
		// forward reference, the class may be declared further down
		return naming.Quote(e.Name)
	default:
		return "Any"
	}
}
