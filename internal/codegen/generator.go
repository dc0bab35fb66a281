package codegen

import (
	"context"

	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
)

// Generator is the interface that all language-specific code generators must implement
type Generator interface {
	// Language returns the canonical name of the target language (e.g., "go", "typescript")
	Language() string

	// Generate emits declarations for every service in the schema, resolving
	// operation types through r. Output follows schema declaration order.
	Generate(ctx context.Context, r *resolver.Resolver, s *schema.Schema) (*Code, error)
}

// TypeRenderer is implemented by generators that can also declare the named
// types of plain JSON Schema documents. Generators without it leave type
// documents undeclared.
type TypeRenderer interface {
	RenderTypes(ctx context.Context, store resolver.Store, docs []schema.TypeDocument) ([]string, error)
}

// Code is the output of a generator, split into groups that are concatenated
// positionally across all generators of a run.
type Code struct {
	// Headers precede all imports, e.g. a package declaration
	Headers []string `json:"headers,omitempty"`
	// Imports are import/use statements
	Imports []string `json:"imports"`
	// Body holds the declarations
	Body []string `json:"body"`
}
