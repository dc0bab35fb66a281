package java

import (
	"context"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/codegen/naming"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
	"github.com/bergundy/nexus-idl/internal/typegen"
)

// Void is the Java spelling of an absent input or output
const Void = "void"

// Imports are the annotations every generated interface relies on
var Imports = []string{
	"import io.nexusrpc.Operation;",
	"import io.nexusrpc.Service;",
	"import javax.annotation.Nonnull;",
	"import javax.annotation.Nullable;",
}

// Generator generates annotated nexus-rpc service interfaces for Java
type Generator struct{}

// NewGenerator creates a new Java code generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "java"
}

// RenderTypes declares the named types of plain type documents
func (g *Generator) RenderTypes(ctx context.Context, store resolver.Store, docs []schema.TypeDocument) ([]string, error) {
	return typegen.Render(ctx, typegen.Java(), store, docs)
}

// Generate emits one @Service interface per service with one abstract method per operation
func (g *Generator) Generate(ctx context.Context, r *resolver.Resolver, s *schema.Schema) (*codegen.Code, error) {
	if s.JavaPackage == "" {
		return nil, &codegen.MissingHintError{Language: g.Language(), Hint: "javaPackage"}
	}

	w := writer.NewWriter("    ")
	for _, svc := range s.Services {
		if err := g.generateService(ctx, w, r, svc); err != nil {
			return nil, err
		}
	}

	imports := make([]string, len(Imports))
	copy(imports, Imports)

	return &codegen.Code{
		Headers: []string{"package " + s.JavaPackage + ";"},
		Imports: imports,
		Body:    w.Lines(),
	}, nil
}

func (g *Generator) generateService(ctx context.Context, w *writer.Writer, r *resolver.Resolver, svc schema.Service) error {
	w.Doc(codegen.ServiceDoc(svc), javadoc)
	w.Linef("@Service(%s)", naming.Quote(svc.DisplayName()))
	w.Linef("public interface %s {", naming.Pascal(svc.Identifier))
	w.Indent()

	for _, op := range svc.Operations {
		input, output, err := r.ResolvePair(ctx, svc.Identifier, op.Identifier, op.Input, op.Output, Void)
		if err != nil {
			return err
		}

		w.Blank()
		w.Doc(codegen.OperationDoc(op), javadoc)
		w.Linef("@Operation(%s)", naming.Quote(op.DisplayName()))

		params := ""
		if !input.Void {
			params = "@Nonnull " + input.Title + " input"
		}
		w.Linef("%s %s(%s);", output.Title, naming.Camel(op.Identifier), params)
	}

	w.Dedent()
	w.Line("}")
	w.Blank()
	return nil
}

var javadoc = writer.WrapOptions{Prefix: " *", Header: "/**", Trailer: " */"}
