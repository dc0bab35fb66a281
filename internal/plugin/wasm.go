package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/codegen/languages"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
	"github.com/bergundy/nexus-idl/internal/wasm"
)

// Methods a WASM plugin serves through handle_request
const (
	MethodDescribe = "describe"
	MethodGenerate = "generate"
)

// GenerateRequest is the payload of a generate call. Types are resolved by
// the host, so plugins never see unresolved references.
type GenerateRequest struct {
	Language string           `json:"language"`
	Schema   *schema.Schema   `json:"schema"`
	Types    []OperationTypes `json:"types"`
}

// OperationTypes holds the resolved input and output of one operation
type OperationTypes struct {
	Service   string   `json:"service"`
	Operation string   `json:"operation"`
	Input     TypeInfo `json:"input"`
	Output    TypeInfo `json:"output"`
}

// TypeInfo is the wire form of a resolved type
type TypeInfo struct {
	Title string `json:"title"`
	Kind  string `json:"kind,omitempty"`
	Void  bool   `json:"void,omitempty"`
}

// GenerateResponse is the payload a plugin answers a generate call with
type GenerateResponse struct {
	codegen.Code
	Error string `json:"error,omitempty"`
}

type wasmPlugin struct {
	path    string
	desc    Descriptor
	release func(context.Context) error

	// a module instance is single threaded
	mu     sync.Mutex
	worker wasm.Worker
}

func newWASMPlugin(ctx context.Context, path string, worker wasm.Worker, release func(context.Context) error) (*wasmPlugin, error) {
	out, err := worker.Invoke(ctx, MethodDescribe, []byte("{}"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodDescribe, err)
	}

	var desc Descriptor
	if err := json.Unmarshal(out, &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	return &wasmPlugin{
		path:    path,
		desc:    desc,
		release: release,
		worker:  worker,
	}, nil
}

func (p *wasmPlugin) Descriptor() Descriptor {
	return p.desc
}

func (p *wasmPlugin) Generate(ctx context.Context, r *resolver.Resolver, s *schema.Schema, language string) (*codegen.Code, error) {
	types, err := resolveAll(ctx, r, s, languages.Void(language))
	if err != nil {
		return nil, err
	}

	req, err := json.Marshal(GenerateRequest{Language: language, Schema: s, Types: types})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	p.mu.Lock()
	out, err := p.worker.Invoke(ctx, MethodGenerate, req)
	p.mu.Unlock()
	if err != nil {
		if errors.Is(err, wasm.ErrNoResponse) {
			return nil, ErrMissingGenerate
		}
		return nil, err
	}

	var resp GenerateResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	return &resp.Code, nil
}

func (p *wasmPlugin) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.worker.Close(ctx)
	if rerr := p.release(ctx); err == nil {
		err = rerr
	}
	return err
}

// resolveAll resolves every operation of s in declaration order
func resolveAll(ctx context.Context, r *resolver.Resolver, s *schema.Schema, void string) ([]OperationTypes, error) {
	types := []OperationTypes{}
	for _, svc := range s.Services {
		for _, op := range svc.Operations {
			in, out, err := r.ResolvePair(ctx, svc.Identifier, op.Identifier, op.Input, op.Output, void)
			if err != nil {
				return nil, err
			}
			types = append(types, OperationTypes{
				Service:   svc.Identifier,
				Operation: op.Identifier,
				Input:     TypeInfo(in),
				Output:    TypeInfo(out),
			})
		}
	}
	return types, nil
}
