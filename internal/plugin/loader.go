package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bergundy/nexus-idl/internal/wasm"
)

// Loader resolves plugin specs to plugins. A spec is either the name of a
// registered built-in plugin or a path to a .wasm module.
type Loader struct {
	builtins map[string]func() Plugin
	logger   zerolog.Logger

	// instantiate starts a WASM module. Replaced in tests.
	instantiate func(ctx context.Context, path string) (wasm.Worker, func(context.Context) error, error)
}

// NewLoader creates a loader without any built-in plugins
func NewLoader(logger zerolog.Logger) *Loader {
	l := &Loader{
		builtins: make(map[string]func() Plugin),
		logger:   logger.With().Str("component", "plugin").Logger(),
	}
	l.instantiate = l.instantiateWASM
	return l
}

// Register makes a built-in plugin loadable by name
func (l *Loader) Register(name string, factory func() Plugin) {
	l.builtins[name] = factory
}

// Builtins returns the names of the registered built-in plugins, sorted
func (l *Loader) Builtins() []string {
	names := make([]string, 0, len(l.builtins))
	for name := range l.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves a single spec and validates the plugin's descriptor
func (l *Loader) Load(ctx context.Context, spec string) (Plugin, error) {
	var (
		p   Plugin
		err error
	)
	if strings.HasSuffix(spec, ".wasm") {
		p, err = l.loadWASM(ctx, spec)
	} else {
		p, err = l.loadBuiltin(spec)
	}
	if err != nil {
		return nil, &Error{Plugin: spec, Op: "load", Err: err}
	}

	desc := p.Descriptor()
	if err := desc.Validate(); err != nil {
		CloseAll(ctx, []Plugin{p})
		return nil, &Error{Plugin: spec, Op: "load", Err: err}
	}

	l.logger.Debug().
		Str("spec", spec).
		Str("name", desc.Name).
		Str("version", desc.Version).
		Msg("loaded plugin")

	return p, nil
}

// LoadAll loads every spec in order. Any failure releases the plugins loaded
// so far and aborts, so callers never see a partial set.
func (l *Loader) LoadAll(ctx context.Context, specs []string) ([]Plugin, error) {
	plugins := make([]Plugin, 0, len(specs))
	for _, spec := range specs {
		p, err := l.Load(ctx, spec)
		if err != nil {
			CloseAll(ctx, plugins)
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func (l *Loader) loadBuiltin(name string) (Plugin, error) {
	factory, ok := l.builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, built-in plugins: %s", ErrUnknownPlugin, name, strings.Join(l.Builtins(), ", "))
	}
	return factory(), nil
}

func (l *Loader) loadWASM(ctx context.Context, path string) (Plugin, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	worker, release, err := l.instantiate(ctx, abs)
	if err != nil {
		return nil, err
	}

	p, err := newWASMPlugin(ctx, abs, worker, release)
	if err != nil {
		worker.Close(ctx)
		release(ctx)
		return nil, err
	}
	return p, nil
}

func (l *Loader) instantiateWASM(ctx context.Context, path string) (wasm.Worker, func(context.Context) error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read plugin: %w", err)
	}

	stderr := l.logger.With().Str("plugin", filepath.Base(path)).Logger()
	module, err := wasm.NewCompiledModule(ctx, data, wasm.Options{Stderr: stderr})
	if err != nil {
		return nil, nil, err
	}

	worker, err := module.Instantiate(ctx)
	if err != nil {
		module.Close(ctx)
		return nil, nil, err
	}
	return worker, module.Close, nil
}
