// Package builtin wires the plugins that ship with the binary into a loader.
package builtin

import (
	"github.com/rs/zerolog"

	"github.com/bergundy/nexus-idl/internal/plugin"
	"github.com/bergundy/nexus-idl/internal/plugin/temporal"
)

// NewLoader returns a plugin loader that knows every built-in plugin
func NewLoader(logger zerolog.Logger) *plugin.Loader {
	l := plugin.NewLoader(logger)
	l.Register(temporal.Name, func() plugin.Plugin { return temporal.New() })
	return l
}
