package commands

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

//go:embed templates/*
var templatesFS embed.FS

// InitOptions are the answers collected by the init form
type InitOptions struct {
	ProjectDir string
	Language   string
	Service    string
}

// Output returns the generated file path for the chosen language, relative to
// the project directory
func (o InitOptions) Output() string {
	switch o.Language {
	case "go":
		return "gen/services.go"
	case "python":
		return "gen/services.py"
	case "java":
		return "gen/Services.java"
	default:
		return "gen/services.ts"
	}
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

var serviceIdentifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// InitCommand scaffolds a project with a config file, a native schema and a
// type schema
type InitCommand struct {
	filesystem  FileSystem
	templatesFS fs.FS
	stdout      io.Writer
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand(stdout io.Writer) *InitCommand {
	return &InitCommand{
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
		stdout:      stdout,
	}
}

// Init scaffolds a new project interactively
func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand(c.stdout())
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	if err := ic.scaffold(*options); err != nil {
		return fmt.Errorf("failed to scaffold project: %w", err)
	}

	fmt.Fprintf(ic.stdout, "Created %s project in %s\n", options.Language, options.ProjectDir)
	fmt.Fprintf(ic.stdout, "Run `nexus-idl generate` inside it to produce %s\n", options.Output())
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{Service: "Greeter"}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project directory").
				Description("Where to create the schemas and config").
				Value(&options.ProjectDir).
				Validate(ic.validateProjectDir),

			huh.NewSelect[string]().
				Title("Language").
				Description("Language to generate").
				Options(
					huh.NewOption("TypeScript", "typescript"),
					huh.NewOption("Go", "go"),
					huh.NewOption("Python", "python"),
					huh.NewOption("Java", "java"),
				).
				Value(&options.Language),

			huh.NewInput().
				Title("Service name").
				Description("Identifier of the sample service").
				Value(&options.Service).
				Validate(validateService),
		),
	)
}

func (ic *InitCommand) validateProjectDir(s string) error {
	if s == "" {
		return fmt.Errorf("project directory cannot be empty")
	}
	if _, err := ic.filesystem.Stat(s); err == nil {
		return fmt.Errorf("directory %s already exists", s)
	}
	return nil
}

func validateService(s string) error {
	if !serviceIdentifier.MatchString(s) {
		return fmt.Errorf("service name must match %s", serviceIdentifier)
	}
	return nil
}

// scaffold renders every template into the project directory
func (ic *InitCommand) scaffold(options InitOptions) error {
	if err := ic.validateProjectDir(options.ProjectDir); err != nil {
		return err
	}
	if err := validateService(options.Service); err != nil {
		return err
	}

	if err := ic.filesystem.MkdirAll(options.ProjectDir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	data := struct {
		Language, Service, Output string
	}{options.Language, options.Service, options.Output()}

	return fs.WalkDir(ic.templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		tmpl, err := template.ParseFS(ic.templatesFS, path)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("failed to render %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), ".tmpl")
		return ic.filesystem.WriteFile(filepath.Join(options.ProjectDir, name), buf.Bytes(), 0644)
	})
}
