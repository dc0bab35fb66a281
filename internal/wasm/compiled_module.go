package wasm

import (
	"context"
	"fmt"
	"io"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// CompiledModule is a compiled plugin module that can create worker instances.
type CompiledModule interface {
	// Instantiate creates a new isolated Worker.
	// Each worker is backed by a fresh module instance.
	Instantiate(ctx context.Context) (Worker, error)

	// Close cleans up any resources tied to the compiled module.
	Close(ctx context.Context) error
}

// Options configures how plugin modules are instantiated
type Options struct {
	// Stderr receives the module's standard error. Nil discards it.
	Stderr io.Writer
}

// NewCompiledModule compiles a reactor-style WASI module from its bytes.
func NewCompiledModule(ctx context.Context, wasmBytes []byte, opts Options) (CompiledModule, error) {
	if len(wasmBytes) == 0 {
		return nil, fmt.Errorf("wasm bytes cannot be empty")
	}

	runtime := wazero.NewRuntime(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	for _, name := range requiredExports {
		if _, ok := compiled.ExportedFunctions()[name]; !ok {
			runtime.Close(ctx)
			return nil, fmt.Errorf("%s function not exported", name)
		}
	}

	return &compiledModule{
		runtime:  runtime,
		compiled: compiled,
		stderr:   opts.Stderr,
	}, nil
}

var requiredExports = []string{"handle_request", "allocate", "deallocate"}

type compiledModule struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	stderr   io.Writer
}

func (m *compiledModule) Instantiate(ctx context.Context) (Worker, error) {
	// Reactor module: _start is never called, _initialize is called below if present
	config := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions()
	if m.stderr != nil {
		config = config.WithStderr(m.stderr)
	}

	module, err := m.runtime.InstantiateModule(ctx, m.compiled, config)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	if initialize := module.ExportedFunction("_initialize"); initialize != nil {
		if _, err := initialize.Call(ctx); err != nil {
			module.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	return &worker{
		module:        module,
		handleRequest: module.ExportedFunction("handle_request"),
		allocate:      module.ExportedFunction("allocate"),
		deallocate:    module.ExportedFunction("deallocate"),
	}, nil
}

func (m *compiledModule) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}
