// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/bergundy/nexus-idl/internal/codegen/languages"
	"github.com/bergundy/nexus-idl/internal/plugin/builtin"
)

// Flags holds the parsed command line flags
type Flags struct {
	LogLevel string
	Config   string

	Language string
	Plugins  []string
	Output   string
	Check    bool
	Watch    bool
}

// Controller dispatches CLI commands
type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
	// Stdout receives generated code and listings, os.Stdout when nil
	Stdout io.Writer
}

func (c *Controller) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// Generate runs code generation for the given schema files
func (c *Controller) Generate(ctx context.Context, schemas []string) error {
	return NewGenerateCommand(c.Flags, c.stdout(), c.Logger).Execute(ctx, schemas)
}

// Languages prints the supported language tokens, one per line
func (c *Controller) Languages(ctx context.Context) error {
	for _, language := range languages.Default.Languages() {
		fmt.Fprintln(c.stdout(), language)
	}
	return nil
}

// Plugins prints the built-in plugins with their descriptions
func (c *Controller) Plugins(ctx context.Context) error {
	loader := builtin.NewLoader(c.Logger)
	for _, name := range loader.Builtins() {
		p, err := loader.Load(ctx, name)
		if err != nil {
			return err
		}
		desc := p.Descriptor()
		fmt.Fprintf(c.stdout(), "%s\t%s\t%s\n", desc.Name, desc.Version, desc.Description)
	}
	return nil
}
