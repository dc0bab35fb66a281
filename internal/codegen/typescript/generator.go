package typescript

import (
	"context"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/codegen/naming"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
	"github.com/bergundy/nexus-idl/internal/typegen"
)

// Void is the TypeScript spelling of an absent input or output
const Void = "void"

// Import pulls in the nexus-rpc runtime
const Import = `import * as nexus from "nexus-rpc"`

// Generator generates nexus-rpc service definitions for TypeScript
type Generator struct{}

// NewGenerator creates a new TypeScript code generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "typescript"
}

// RenderTypes declares the named types of plain type documents
func (g *Generator) RenderTypes(ctx context.Context, store resolver.Store, docs []schema.TypeDocument) ([]string, error) {
	return typegen.Render(ctx, typegen.TypeScript(), store, docs)
}

// Generate emits one `nexus.service` constant per service
func (g *Generator) Generate(ctx context.Context, r *resolver.Resolver, s *schema.Schema) (*codegen.Code, error) {
	w := writer.NewWriter("  ") // TypeScript typically uses 2 spaces

	for _, svc := range s.Services {
		if err := g.generateService(ctx, w, r, svc); err != nil {
			return nil, err
		}
	}

	return &codegen.Code{
		Imports: []string{Import},
		Body:    w.Lines(),
	}, nil
}

func (g *Generator) generateService(ctx context.Context, w *writer.Writer, r *resolver.Resolver, svc schema.Service) error {
	w.Doc(codegen.ServiceDoc(svc), jsDoc)
	w.Linef("export const %s = nexus.service(%s, {", svc.Identifier, naming.Quote(svc.DisplayName()))
	w.Indent()

	for _, op := range svc.Operations {
		input, output, err := r.ResolvePair(ctx, svc.Identifier, op.Identifier, op.Input, op.Output, Void)
		if err != nil {
			return err
		}

		w.Doc(codegen.OperationDoc(op), jsDoc)
		w.Linef("%s: nexus.operation<%s, %s>({", op.Identifier, input.Title, output.Title)
		w.Indent()
		w.Linef("name: %s,", naming.Quote(op.DisplayName()))
		w.Dedent()
		w.Line("}),")
	}

	w.Dedent()
	w.Line("});")
	return nil
}

// jsDoc lays out a JSDoc block relative to the writer's indentation
var jsDoc = writer.WrapOptions{Prefix: " *", Header: "/**", Trailer: " */"}
