// Package temporal is a built-in plugin that emits typed in-workflow Nexus
// clients for the Temporal Go SDK.
package temporal

import (
	"context"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/codegen/golang"
	"github.com/bergundy/nexus-idl/internal/codegen/writer"
	"github.com/bergundy/nexus-idl/internal/plugin"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
)

// Name is the spec that loads this plugin
const Name = "temporal"

// Import pulls in the Temporal workflow package
const Import = `import "go.temporal.io/sdk/workflow"`

// Plugin generates Temporal workflow clients for Go services
type Plugin struct{}

// New creates the temporal plugin
func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		Name:         Name,
		Version:      "0.0.1",
		Description:  "Generates Temporal Workflow Nexus clients from service schemas",
		Author:       "Temporal Technologies Inc. <sdk@temporal.io>",
		Capabilities: []string{plugin.CapabilityGenerate},
	}
}

// Generate emits clients for Go and nothing for any other language. The
// output refers to the constants emitted by the Go generator.
func (p *Plugin) Generate(ctx context.Context, r *resolver.Resolver, s *schema.Schema, language string) (*codegen.Code, error) {
	if language != "go" {
		return &codegen.Code{}, nil
	}

	w := writer.NewWriter("\t")
	for _, svc := range s.Services {
		if err := p.generateClient(ctx, w, r, svc); err != nil {
			return nil, err
		}
	}

	return &codegen.Code{
		Imports: []string{Import},
		Body:    w.Lines(),
	}, nil
}

func (p *Plugin) generateClient(ctx context.Context, w *writer.Writer, r *resolver.Resolver, svc schema.Service) error {
	svcIdent := golang.Ident(svc.Identifier)
	client := svcIdent + "WorkflowClient"
	name := svc.DisplayName()

	w.Doc(client+" is an in-workflow Nexus client for the "+name+" service.", goDoc)
	w.Block("type "+client+" struct {", "}", func() {
		w.Line("c workflow.NexusClient")
	})
	w.Blank()

	w.Doc("New"+client+" creates a new in-workflow Nexus client for the "+name+" service.", goDoc)
	w.Block("func New"+client+"(endpoint string) *"+client+" {", "}", func() {
		w.Linef("c := workflow.NewNexusClient(endpoint, %s)", golang.ServiceNameConst(svc))
		w.Linef("return &%s{c}", client)
	})
	w.Blank()

	for _, op := range svc.Operations {
		input, output, err := r.ResolvePair(ctx, svc.Identifier, op.Identifier, op.Input, op.Output, golang.Void)
		if err != nil {
			return err
		}
		generateOperation(w, svc, op, input, output)
	}
	return nil
}

func generateOperation(w *writer.Writer, svc schema.Service, op schema.Operation, input, output resolver.Type) {
	client := golang.Ident(svc.Identifier) + "WorkflowClient"
	opIdent := golang.Ident(op.Identifier)
	opName := op.DisplayName()
	nameConst := golang.OperationNameConst(svc, op)
	future := golang.Ident(svc.Identifier) + opIdent + "Future"

	w.Doc(future+" is a future for the "+opName+" operation.", goDoc)
	w.Block("type "+future+" struct {", "}", func() {
		w.Line("workflow.NexusOperationFuture")
	})
	w.Blank()

	w.Line("// GetTyped gets the typed result of the operation.")
	if output.Void {
		w.Block("func (f "+future+") GetTyped(ctx workflow.Context) error {", "}", func() {
			w.Line("return f.Get(ctx, nil)")
		})
	} else {
		w.Block("func (f "+future+") GetTyped(ctx workflow.Context) ("+output.Title+", error) {", "}", func() {
			w.Linef("var output %s", output.Title)
			w.Line("err := f.Get(ctx, &output)")
			w.Line("return output, err")
		})
	}
	w.Blank()

	// void inputs drop the input parameter and send nil
	params, arg, inputArg := "ctx workflow.Context, options workflow.NexusOperationOptions", "nil", ""
	if !input.Void {
		params = "ctx workflow.Context, input " + input.Title + ", options workflow.NexusOperationOptions"
		arg, inputArg = "input", "input, "
	}

	w.Doc(opIdent+"Async executes the "+opName+" operation and returns a future.", goDoc)
	w.Block("func (c *"+client+") "+opIdent+"Async("+params+") "+future+" {", "}", func() {
		w.Linef("fut := c.c.ExecuteOperation(ctx, %s, %s, options)", nameConst, arg)
		w.Linef("return %s{fut}", future)
	})
	w.Blank()

	result := "(" + output.Title + ", error)"
	if output.Void {
		result = "error"
	}
	w.Doc(opIdent+" executes the "+opName+" operation and returns the result.", goDoc)
	w.Block("func (c *"+client+") "+opIdent+"("+params+") "+result+" {", "}", func() {
		w.Linef("fut := c.%sAsync(ctx, %soptions)", opIdent, inputArg)
		w.Line("return fut.GetTyped(ctx)")
	})
	w.Blank()
}

var goDoc = writer.WrapOptions{Prefix: "//"}
