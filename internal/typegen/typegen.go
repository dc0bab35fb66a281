// Package typegen renders the named types of plain JSON Schema documents as
// declarations in the target language.
package typegen

import (
	"context"
	"fmt"
	"sort"

	"github.com/bergundy/nexus-idl/internal/codegen/writer"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
)

// Kinds of type expressions
const (
	KindString  = "string"
	KindInteger = "integer"
	KindNumber  = "number"
	KindBoolean = "boolean"
	KindArray   = "array"
	KindObject  = "object"
	KindNamed   = "named"
	KindAny     = "any"
)

// TypeExpr is the type of a property or the target of an alias
type TypeExpr struct {
	Kind string
	// Name is the referenced title for KindNamed
	Name string
	// Items is the element type for KindArray
	Items *TypeExpr
}

// Property is a single object property
type Property struct {
	Name        string
	Description string
	Type        TypeExpr
	Required    bool
}

// Declaration is a titled schema. Objects carry properties, everything else
// is declared as an alias of Alias.
type Declaration struct {
	Title       string
	Description string
	Object      bool
	Properties  []Property
	// Open is set when the object admits properties beyond the declared ones
	Open  bool
	Alias TypeExpr
}

// Renderer writes declarations for one language. Use the per-language
// constructors: Go, TypeScript, Python and Java.
type Renderer interface {
	// prelude returns lines emitted once ahead of all declarations
	prelude() []string
	indent() string
	declare(w *writer.Writer, d Declaration)
}

// Render declares every titled schema of docs: each document's root first,
// then its definitions and $defs by key. Titles already declared by an
// earlier schema are skipped. Declarations are named by their title as is,
// the same spelling the service emitters put in signatures.
func Render(ctx context.Context, rdr Renderer, store resolver.Store, docs []schema.TypeDocument) ([]string, error) {
	var decls []Declaration
	seen := make(map[string]bool)
	for _, doc := range docs {
		found, err := Collect(ctx, resolver.New(store, doc.Path), doc.Tree)
		if err != nil {
			return nil, fmt.Errorf("render types of %s: %w", doc.Path, err)
		}
		for _, d := range found {
			if seen[d.Title] {
				continue
			}
			seen[d.Title] = true
			decls = append(decls, d)
		}
	}

	if len(decls) == 0 {
		return nil, nil
	}

	w := writer.NewWriter(rdr.indent())
	w.Raw(rdr.prelude()...)
	for _, d := range decls {
		w.Blank()
		rdr.declare(w, d)
	}
	return w.Lines(), nil
}

// Collect extracts the declarations of a single document tree. References
// are looked up through r, which is anchored at the document.
func Collect(ctx context.Context, r *resolver.Resolver, tree any) ([]Declaration, error) {
	root, ok := tree.(map[string]any)
	if !ok {
		return nil, nil
	}

	var decls []Declaration
	add := func(node map[string]any) error {
		if _, ok := node["title"].(string); !ok {
			return nil
		}
		d, err := declaration(ctx, r, node)
		if err != nil {
			return err
		}
		decls = append(decls, d)
		return nil
	}

	if err := add(root); err != nil {
		return nil, err
	}
	for _, key := range []string{"definitions", "$defs"} {
		defs, ok := root[key].(map[string]any)
		if !ok {
			continue
		}
		for _, name := range sortedKeys(defs) {
			if node, ok := defs[name].(map[string]any); ok {
				if err := add(node); err != nil {
					return nil, err
				}
			}
		}
	}
	return decls, nil
}

func declaration(ctx context.Context, r *resolver.Resolver, node map[string]any) (Declaration, error) {
	d := Declaration{Title: node["title"].(string)}
	d.Description, _ = node["description"].(string)

	props, hasProps := node["properties"].(map[string]any)
	if kind := schemaKind(node); kind != KindObject && !hasProps {
		alias, err := typeOf(ctx, r, node, false)
		if err != nil {
			return Declaration{}, fmt.Errorf("type %s: %w", d.Title, err)
		}
		d.Alias = alias
		return d, nil
	}

	d.Object = true
	d.Open = node["additionalProperties"] != false

	required := make(map[string]bool)
	if list, ok := node["required"].([]any); ok {
		for _, name := range list {
			if s, ok := name.(string); ok {
				required[s] = true
			}
		}
	}

	for _, name := range sortedKeys(props) {
		prop, _ := props[name].(map[string]any)
		t, err := typeOf(ctx, r, prop, true)
		if err != nil {
			return Declaration{}, fmt.Errorf("type %s property %s: %w", d.Title, name, err)
		}
		desc, _ := prop["description"].(string)
		d.Properties = append(d.Properties, Property{
			Name:        name,
			Description: desc,
			Type:        t,
			Required:    required[name],
		})
	}
	return d, nil
}

// typeOf maps a schema node to a type expression. Referenced types are
// named by their title; titled inline objects are not, since nothing
// declares them.
func typeOf(ctx context.Context, r *resolver.Resolver, node map[string]any, follow bool) (TypeExpr, error) {
	if node == nil {
		return TypeExpr{Kind: KindAny}, nil
	}
	if ref, ok := node["$ref"].(string); ok && follow {
		t, err := r.Lookup(ctx, ref)
		if err != nil {
			return TypeExpr{}, err
		}
		return TypeExpr{Kind: KindNamed, Name: t.Title}, nil
	}

	switch kind := schemaKind(node); kind {
	case KindString, KindInteger, KindNumber, KindBoolean, KindObject:
		return TypeExpr{Kind: kind}, nil
	case KindArray:
		items, _ := node["items"].(map[string]any)
		elem, err := typeOf(ctx, r, items, true)
		if err != nil {
			return TypeExpr{}, err
		}
		return TypeExpr{Kind: KindArray, Items: &elem}, nil
	default:
		return TypeExpr{Kind: KindAny}, nil
	}
}

// schemaKind returns the declared type, picking the first non-null entry of
// a type list. Schemas with properties are objects.
func schemaKind(node map[string]any) string {
	switch t := node["type"].(type) {
	case string:
		return t
	case []any:
		for _, entry := range t {
			if s, ok := entry.(string); ok && s != "null" {
				return s
			}
		}
	}
	if _, ok := node["properties"]; ok {
		return KindObject
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
