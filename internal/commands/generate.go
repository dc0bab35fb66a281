package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/bergundy/nexus-idl/internal/codegen/languages"
	"github.com/bergundy/nexus-idl/internal/config"
	"github.com/bergundy/nexus-idl/internal/pipeline"
	"github.com/bergundy/nexus-idl/internal/plugin"
	"github.com/bergundy/nexus-idl/internal/plugin/builtin"
	"github.com/bergundy/nexus-idl/internal/watch"
)

var (
	// ErrLanguageRequired is returned when neither the flags nor the config name a language
	ErrLanguageRequired = errors.New("--lang option is required")
	// ErrStale is returned by --check when the output file is not what would be generated
	ErrStale = errors.New("generated output is out of date")
)

// settings are the flags merged over the config file
type settings struct {
	language string
	schemas  []string
	plugins  []string
	output   string
}

// GenerateCommand runs the pipeline once, or on every schema change in watch mode
type GenerateCommand struct {
	flags    *Flags
	stdout   io.Writer
	logger   zerolog.Logger
	pipeline *pipeline.Pipeline
	plugins  *plugin.Loader
}

// NewGenerateCommand creates a generate command with the built-in languages and plugins
func NewGenerateCommand(flags *Flags, stdout io.Writer, logger zerolog.Logger) *GenerateCommand {
	return &GenerateCommand{
		flags:    flags,
		stdout:   stdout,
		logger:   logger,
		pipeline: pipeline.New(languages.Default, nil, logger),
		plugins:  builtin.NewLoader(logger),
	}
}

// Execute generates code for args, falling back to the config's schemas
func (gc *GenerateCommand) Execute(ctx context.Context, args []string) error {
	s, err := gc.settings(args)
	if err != nil {
		return err
	}

	plugins, err := gc.plugins.LoadAll(ctx, s.plugins)
	if err != nil {
		return err
	}
	defer func() {
		if err := plugin.CloseAll(context.WithoutCancel(ctx), plugins); err != nil {
			gc.logger.Warn().Err(err).Msg("failed to close plugins")
		}
	}()

	err = gc.generate(ctx, s, plugins)
	if !gc.flags.Watch {
		return err
	}
	if err != nil {
		gc.logger.Error().Err(err).Msg("generation failed")
	}
	return gc.watch(ctx, s, plugins)
}

func (gc *GenerateCommand) settings(args []string) (settings, error) {
	cfg, err := config.Load(gc.flags.Config)
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}

	s := settings{
		language: firstNonEmpty(gc.flags.Language, cfg.Language),
		schemas:  args,
		plugins:  gc.flags.Plugins,
		output:   firstNonEmpty(gc.flags.Output, cfg.Output),
	}
	if len(s.schemas) == 0 {
		s.schemas = cfg.Schemas
	}
	if len(s.plugins) == 0 {
		s.plugins = cfg.Plugins
	}

	if s.language == "" {
		return settings{}, ErrLanguageRequired
	}
	if _, err := languages.Default.Get(s.language); err != nil {
		return settings{}, err
	}
	if len(s.schemas) == 0 {
		return settings{}, pipeline.ErrNoSchemas
	}
	if gc.flags.Check && s.output == "" {
		return settings{}, errors.New("--check requires an output file")
	}
	if gc.flags.Check && gc.flags.Watch {
		return settings{}, errors.New("--check cannot be combined with --watch")
	}
	return s, nil
}

func (gc *GenerateCommand) generate(ctx context.Context, s settings, plugins []plugin.Plugin) error {
	result, err := gc.pipeline.Run(ctx, pipeline.Options{
		Language: s.language,
		Schemas:  s.schemas,
		Plugins:  plugins,
	})
	if err != nil {
		return err
	}

	out, err := result.Bytes()
	if err != nil {
		return err
	}

	switch {
	case gc.flags.Check:
		return gc.check(s.output, out)
	case s.output == "":
		_, err := gc.stdout.Write(out)
		return err
	default:
		if err := os.MkdirAll(filepath.Dir(s.output), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(s.output, out, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		gc.logger.Info().Str("path", s.output).Int("bytes", len(out)).Msg("wrote generated code")
		return nil
	}
}

// check compares the output file with freshly generated code and prints a
// line diff when they differ
func (gc *GenerateCommand) check(path string, generated []byte) error {
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read output: %w", err)
	}
	if bytes.Equal(current, generated) {
		gc.logger.Info().Str("path", path).Msg("generated code is up to date")
		return nil
	}

	fmt.Fprint(gc.stdout, Diff(path, string(current), string(generated)))
	return fmt.Errorf("%w: %s", ErrStale, path)
}

func (gc *GenerateCommand) watch(ctx context.Context, s settings, plugins []plugin.Plugin) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exclude := []string{".git", "node_modules", "*~", "*.swp"}
	if s.output != "" {
		exclude = append(exclude, filepath.Base(s.output))
	}

	w, err := watch.New(watch.SchemaPatterns, exclude, watch.DefaultDelay, func(ctx context.Context, paths []string) {
		gc.logger.Info().Strs("paths", paths).Msg("schemas changed, regenerating")
		if err := gc.generate(ctx, s, plugins); err != nil {
			gc.logger.Error().Err(err).Msg("generation failed")
		}
	}, gc.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range schemaDirs(s.schemas) {
		if err := w.AddDirectory(dir); err != nil {
			return err
		}
	}

	gc.logger.Info().Msg("watching schemas for changes")
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// schemaDirs returns the distinct directories holding schemas, in order
func schemaDirs(schemas []string) []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, schema := range schemas {
		dir := filepath.Dir(schema)
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Diff renders the changed lines between the current and the generated
// content of path, prefixed with - and +
func Diff(path, current, generated string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(current, generated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s (generated)\n", path, path)
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
