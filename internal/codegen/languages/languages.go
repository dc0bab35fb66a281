// Package languages wires the built-in generators into a codegen.Registry.
package languages

import (
	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/codegen/golang"
	"github.com/bergundy/nexus-idl/internal/codegen/java"
	"github.com/bergundy/nexus-idl/internal/codegen/python"
	"github.com/bergundy/nexus-idl/internal/codegen/typescript"
)

// Default is the registry with all built-in generators
var Default = NewRegistry()

// NewRegistry returns a fresh registry with every built-in generator and its
// aliases, in the order they are listed to users.
func NewRegistry() *codegen.Registry {
	r := codegen.NewRegistry()

	newTypeScript := func() codegen.Generator { return typescript.NewGenerator() }
	r.Register("typescript", newTypeScript)
	r.Register("ts", newTypeScript)

	r.Register("go", func() codegen.Generator { return golang.NewGenerator() })

	newPython := func() codegen.Generator { return python.NewGenerator() }
	r.Register("python", newPython)
	r.Register("py", newPython)

	r.Register("java", func() codegen.Generator { return java.NewGenerator() })

	return r
}

var voids = map[string]string{
	"typescript": typescript.Void,
	"ts":         typescript.Void,
	"go":         golang.Void,
	"python":     python.Void,
	"py":         python.Void,
	"java":       java.Void,
}

// Void returns the built-in generator's spelling of "no value" for a language
// token, or an empty string for unknown tokens.
func Void(language string) string {
	return voids[language]
}
