// Package pipeline runs a full generation: schema files in, assembled source out.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/plugin"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
	"github.com/bergundy/nexus-idl/internal/typestore"
)

// Options describes a single generation run
type Options struct {
	// Language is the target language token, e.g. "go" or "ts"
	Language string

	// Schemas are the native and type schema files, in argument order
	Schemas []string

	// Plugins run after the built-in emitter for every native document
	Plugins []plugin.Plugin
}

// Pipeline wires the loader, the dispatcher and the plugin aggregator
type Pipeline struct {
	registry *codegen.Registry
	fetcher  typestore.Fetcher
	logger   zerolog.Logger
}

// New creates a pipeline dispatching through registry. Referenced type
// documents that were not passed as schemas are fetched with fetcher, or from
// disk when fetcher is nil.
func New(registry *codegen.Registry, fetcher typestore.Fetcher, logger zerolog.Logger) *Pipeline {
	if fetcher == nil {
		fetcher = schema.FileFetcher{}
	}
	return &Pipeline{
		registry: registry,
		fetcher:  fetcher,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run loads opts.Schemas and generates code for every native document. Each
// run gets a fresh type store so edited files are picked up on the next run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	gen, err := p.registry.Get(opts.Language)
	if err != nil {
		return nil, err
	}
	if len(opts.Schemas) == 0 {
		return nil, ErrNoSchemas
	}

	store := typestore.NewStore(p.fetcher, p.logger)
	loaded, err := schema.NewLoader(store, p.logger).Load(ctx, opts.Schemas)
	if err != nil {
		return nil, err
	}

	result := &Result{Language: opts.Language}
	for _, doc := range loaded.Natives {
		r := resolver.New(store, doc.Path)

		code, err := p.registry.Dispatch(ctx, opts.Language, r, doc.Schema)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", doc.Path, err)
		}
		result.Codes = append(result.Codes, code)

		extra, err := plugin.Aggregate(ctx, opts.Plugins, r, doc.Schema, opts.Language)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", doc.Path, err)
		}
		result.Codes = append(result.Codes, extra...)
	}

	if len(loaded.Types) > 0 {
		if types, ok := gen.(codegen.TypeRenderer); ok {
			result.Types, err = types.RenderTypes(ctx, store, loaded.Types)
			if err != nil {
				return nil, err
			}
		} else {
			p.logger.Warn().
				Str("language", opts.Language).
				Int("types", len(loaded.Types)).
				Msg("language does not declare types, type documents are only used for references")
		}
	}

	p.logger.Debug().
		Str("language", opts.Language).
		Int("natives", len(loaded.Natives)).
		Int("types", len(loaded.Types)).
		Int("plugins", len(opts.Plugins)).
		Int("cached", store.Len()).
		Dur("took", time.Since(start)).
		Msg("generation complete")

	return result, nil
}
