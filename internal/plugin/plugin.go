// Package plugin loads additional generators and runs them alongside the
// built-in emitter for every native schema document.
package plugin

import (
	"context"
	"fmt"
	"regexp"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
)

// CapabilityGenerate is the capability every plugin must declare
const CapabilityGenerate = "generate"

// Descriptor is a plugin's self-description
type Descriptor struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description,omitempty"`
	Author       string   `json:"author,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Validate checks the descriptor shape and that the plugin can generate code
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	}
	if !namePattern.MatchString(d.Name) {
		return fmt.Errorf("%w: name %q must match %s", ErrInvalidDescriptor, d.Name, namePattern)
	}
	if d.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidDescriptor)
	}
	if !d.Can(CapabilityGenerate) {
		return ErrMissingGenerate
	}
	return nil
}

// Can reports whether the plugin declares capability
func (d Descriptor) Can(capability string) bool {
	for _, c := range d.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Plugin is an additional generator invoked after the built-in emitter.
// A plugin returns empty code for languages it does not support.
type Plugin interface {
	Descriptor() Descriptor
	Generate(ctx context.Context, r *resolver.Resolver, s *schema.Schema, language string) (*codegen.Code, error)
}

// Closer is implemented by plugins holding resources, such as a WASM instance
type Closer interface {
	Close(ctx context.Context) error
}

// CloseAll releases every plugin that holds resources and returns the first error
func CloseAll(ctx context.Context, plugins []Plugin) error {
	var first error
	for _, p := range plugins {
		c, ok := p.(Closer)
		if !ok {
			continue
		}
		if err := c.Close(ctx); err != nil && first == nil {
			first = &Error{Plugin: p.Descriptor().Name, Op: "close", Err: err}
		}
	}
	return first
}

// Aggregate runs every plugin against one schema document in load order.
// Nil groups in plugin output are normalized to empty ones.
func Aggregate(ctx context.Context, plugins []Plugin, r *resolver.Resolver, s *schema.Schema, language string) ([]*codegen.Code, error) {
	codes := make([]*codegen.Code, 0, len(plugins))
	for _, p := range plugins {
		name := p.Descriptor().Name

		code, err := p.Generate(ctx, r, s, language)
		if err != nil {
			return nil, &Error{Plugin: name, Op: "generate", Err: err}
		}
		if code == nil {
			return nil, &Error{Plugin: name, Op: "generate", Err: ErrNilCode}
		}

		codes = append(codes, codegen.Normalize(code))
	}
	return codes, nil
}
