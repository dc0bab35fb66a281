package python

import (
	"context"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/codegen/naming"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
	"github.com/bergundy/nexus-idl/internal/typegen"
)

// Void is the Python spelling of an absent input or output
const Void = "None"

// Imports are the modules every generated service relies on
var Imports = []string{
	"from typing import Any, Dict",
	"import nexusrpc",
}

// Generator generates nexusrpc service classes for Python
type Generator struct{}

// NewGenerator creates a new Python code generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "python"
}

// RenderTypes declares the named types of plain type documents
func (g *Generator) RenderTypes(ctx context.Context, store resolver.Store, docs []schema.TypeDocument) ([]string, error) {
	return typegen.Render(ctx, typegen.Python(), store, docs)
}

// Generate emits one @nexusrpc.service class per service with one attribute per operation
func (g *Generator) Generate(ctx context.Context, r *resolver.Resolver, s *schema.Schema) (*codegen.Code, error) {
	w := writer.NewWriter("    ")
	for _, svc := range s.Services {
		if err := g.generateService(ctx, w, r, svc); err != nil {
			return nil, err
		}
	}

	imports := make([]string, len(Imports))
	copy(imports, Imports)

	return &codegen.Code{
		Imports: imports,
		Body:    w.Lines(),
	}, nil
}

func (g *Generator) generateService(ctx context.Context, w *writer.Writer, r *resolver.Resolver, svc schema.Service) error {
	w.Line("@nexusrpc.service")
	w.Linef("class %s:", naming.Pascal(svc.Identifier))
	w.Raw(writer.Wrap(codegen.ServiceDoc(svc), docstring)...)
	w.Indent()

	for _, op := range svc.Operations {
		input, output, err := r.ResolvePair(ctx, svc.Identifier, op.Identifier, op.Input, op.Output, Void)
		if err != nil {
			return err
		}

		w.Blank()
		w.Linef("%s: nexusrpc.Operation[%s, %s] = nexusrpc.Operation(name=%s)",
			naming.Snake(op.Identifier), input.Title, output.Title, naming.Quote(op.DisplayName()))
		w.Raw(writer.Wrap(codegen.OperationDoc(op), docstring)...)
	}

	w.Dedent()
	w.Blank()
	w.Line("")
	return nil
}

// docstring lays out a triple-quoted block inside a class body
var docstring = writer.WrapOptions{Prefix: "   ", Header: `    """`, Trailer: `    """`}
