package golang

import (
	"context"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/codegen/naming"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
	"github.com/bergundy/nexus-idl/internal/typegen"
)

// Void is the Go spelling of an absent input or output
const Void = "nexus.NoValue"

// Import pulls in the Nexus Go SDK
const Import = `import "github.com/nexus-rpc/sdk-go/nexus"`

// Generator generates Nexus service definitions for Go
type Generator struct{}

// NewGenerator creates a new Go code generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "go"
}

// RenderTypes declares the named types of plain type documents
func (g *Generator) RenderTypes(ctx context.Context, store resolver.Store, docs []schema.TypeDocument) ([]string, error) {
	return typegen.Render(ctx, typegen.Go(), store, docs)
}

// Generate emits name constants, operation references, a handler interface with
// an unimplemented variant, and a service constructor for every service.
func (g *Generator) Generate(ctx context.Context, r *resolver.Resolver, s *schema.Schema) (*codegen.Code, error) {
	if s.GoPackage == "" {
		return nil, &codegen.MissingHintError{Language: g.Language(), Hint: "goPackage"}
	}

	w := writer.NewWriter("\t")
	for _, svc := range s.Services {
		if err := g.generateService(ctx, w, r, svc); err != nil {
			return nil, err
		}
	}

	return &codegen.Code{
		Headers: []string{"package " + s.GoPackage},
		Imports: []string{Import},
		Body:    w.Lines(),
	}, nil
}

// operation pairs an operation with its resolved Go types
type operation struct {
	schema.Operation
	input, output resolver.Type
}

func (g *Generator) generateService(ctx context.Context, w *writer.Writer, r *resolver.Resolver, svc schema.Service) error {
	ops := make([]operation, 0, len(svc.Operations))
	for _, op := range svc.Operations {
		input, output, err := r.ResolvePair(ctx, svc.Identifier, op.Identifier, op.Input, op.Output, Void)
		if err != nil {
			return err
		}
		ops = append(ops, operation{Operation: op, input: input, output: output})
	}

	serviceName := ServiceNameConst(svc)
	doc := codegen.ServiceDoc(svc)
	w.Doc(serviceName+" "+doc, goDoc)
	w.Linef("const %s = %s", serviceName, naming.Quote(svc.DisplayName()))
	w.Blank()

	for _, op := range ops {
		opName := OperationNameConst(svc, op.Operation)
		opDoc := codegen.OperationDoc(op.Operation)

		w.Doc(opName+" "+opDoc, goDoc)
		w.Linef("const %s = %s", opName, naming.Quote(op.DisplayName()))
		w.Blank()

		ref := Ident(svc.Identifier) + Ident(op.Identifier) + "Operation"
		w.Doc(ref+" "+opDoc, goDoc)
		w.Linef("var %s = nexus.NewOperationReference[%s, %s](%s)", ref, op.input.Title, op.output.Title, opName)
		w.Blank()
	}

	g.generateHandler(w, svc, ops)
	g.generateConstructor(w, svc, ops)
	return nil
}

func (g *Generator) generateHandler(w *writer.Writer, svc schema.Service, ops []operation) {
	svcIdent := Ident(svc.Identifier)
	handler := svcIdent + "Handler"

	w.Linef("// %s defines the handler interface for the %s service.", handler, svcIdent)
	w.Block("type "+handler+" interface {", "}", func() {
		for _, op := range ops {
			w.Linef("%s(name string) %s", Ident(op.Identifier), operationType(op))
		}
	})
	w.Blank()

	unimplemented := "Unimplemented" + handler
	w.Linef("// %s provides an unimplemented version of %s.", unimplemented, handler)
	w.Linef("type %s struct{}", unimplemented)
	w.Blank()

	for _, op := range ops {
		opIdent := Ident(op.Identifier)
		impl := "unimplemented" + svcIdent + opIdent

		w.Linef("// %s provides an unimplemented %s operation.", impl, opIdent)
		w.Block("type "+impl+" struct {", "}", func() {
			w.Linef("nexus.UnimplementedOperation[%s, %s]", op.input.Title, op.output.Title)
			w.Line("name string")
		})
		w.Blank()

		w.Block("func (op *"+impl+") Name() string {", "}", func() {
			w.Line("return op.name")
		})
		w.Blank()

		w.Linef("// %s returns an unimplemented operation.", opIdent)
		w.Block("func ("+unimplemented+") "+opIdent+"(name string) "+operationType(op)+" {", "}", func() {
			w.Linef("return &%s{name: name}", impl)
		})
		w.Blank()
	}
}

func (g *Generator) generateConstructor(w *writer.Writer, svc schema.Service, ops []operation) {
	svcIdent := Ident(svc.Identifier)

	w.Linef("// New%s creates a new %s service from a handler with all operations registered.", svcIdent, svcIdent)
	w.Block("func New"+svcIdent+"(handler "+svcIdent+"Handler) (*nexus.Service, error) {", "}", func() {
		w.Linef("service := nexus.NewService(%s)", ServiceNameConst(svc))
		w.Blank()
		for _, op := range ops {
			register := "handler." + Ident(op.Identifier) + "(" + OperationNameConst(svc, op.Operation) + ")"
			w.Block("if err := service.Register("+register+"); err != nil {", "}", func() {
				w.Line("return nil, err")
			})
			w.Blank()
		}
		w.Line("return service, nil")
	})
	w.Blank()
}

func operationType(op operation) string {
	return "nexus.Operation[" + op.input.Title + ", " + op.output.Title + "]"
}

var goDoc = writer.WrapOptions{Prefix: "//"}

// Ident converts a schema identifier into an exported Go identifier
func Ident(identifier string) string {
	return naming.Pascal(identifier)
}

// ServiceNameConst names the constant holding a service's display name
func ServiceNameConst(svc schema.Service) string {
	return Ident(svc.Identifier) + "ServiceName"
}

// OperationNameConst names the constant holding an operation's display name
func OperationNameConst(svc schema.Service, op schema.Operation) string {
	return Ident(svc.Identifier) + Ident(op.Identifier) + "OperationName"
}
