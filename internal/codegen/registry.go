package codegen

import (
	"context"

	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
)

// Registry manages available code generators keyed by language token.
// Tokens keep their registration order so supported-language listings are stable.
type Registry struct {
	generators map[string]func() Generator
	order      []string
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]func() Generator),
	}
}

// Register adds a generator factory under a language token. Registering the
// same token twice replaces the factory but keeps its original position.
func (r *Registry) Register(language string, factory func() Generator) {
	if _, exists := r.generators[language]; !exists {
		r.order = append(r.order, language)
	}
	r.generators[language] = factory
}

// Get returns a generator for the specified language token. Tokens are case-sensitive.
func (r *Registry) Get(language string) (Generator, error) {
	factory, exists := r.generators[language]
	if !exists {
		return nil, &UnsupportedLanguageError{Language: language, Supported: r.Languages()}
	}

	return factory(), nil
}

// Languages returns the supported language tokens in registration order
func (r *Registry) Languages() []string {
	languages := make([]string, len(r.order))
	copy(languages, r.order)
	return languages
}

// Dispatch runs the generator registered for language against a schema document
func (r *Registry) Dispatch(ctx context.Context, language string, res *resolver.Resolver, s *schema.Schema) (*Code, error) {
	gen, err := r.Get(language)
	if err != nil {
		return nil, err
	}

	code, err := gen.Generate(ctx, res, s)
	if err != nil {
		return nil, err
	}
	return Normalize(code), nil
}

// Normalize replaces nil groups with empty slices so callers can treat every
// code value uniformly. A nil code becomes an empty one.
func Normalize(code *Code) *Code {
	if code == nil {
		code = &Code{}
	}
	if code.Headers == nil {
		code.Headers = []string{}
	}
	if code.Imports == nil {
		code.Imports = []string{}
	}
	if code.Body == nil {
		code.Body = []string{}
	}
	return code
}
