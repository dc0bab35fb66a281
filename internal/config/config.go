// Package config loads the nexus-idl.json project file and the NEXUS_IDL_*
// environment overlay.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
)

// FileNames are the config file names looked up in each directory, in order
var FileNames = []string{"nexus-idl.json", "nexus-idl.yaml", "nexus-idl.yml"}

// EnvPrefix prefixes every environment variable read by ApplyEnv
const EnvPrefix = "NEXUS_IDL_"

// Config represents the nexus-idl.json configuration file
type Config struct {
	Language string   `json:"language,omitempty" env:"LANG"`
	Schemas  []string `json:"schemas,omitempty"`
	Plugins  []string `json:"plugins,omitempty" env:"PLUGINS" envSeparator:","`
	Output   string   `json:"output,omitempty" env:"OUTPUT"`

	// Dir is the directory the config file was found in, empty when none was
	Dir string `json:"-"`
}

// Load reads the config at path, or searches the working directory and its
// parents when path is empty. A missing config is not an error. The
// environment overlay is applied in both cases.
func Load(path string) (*Config, error) {
	var cfg *Config
	var err error

	switch {
	case path != "":
		cfg, err = LoadFromPath(path)
	default:
		var dir string
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		cfg, err = LoadFromDir(dir)
		if errors.Is(err, ErrNotFound) {
			cfg, err = &Config{}, nil
		}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads a JSON or YAML config file. Relative schema, plugin and
// output paths are resolved against the file's directory.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// JSON is valid YAML, so one conversion covers every supported extension
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	cfg.Dir = filepath.Dir(abs)

	for i, schema := range cfg.Schemas {
		cfg.Schemas[i] = cfg.resolve(schema)
	}
	for i, plugin := range cfg.Plugins {
		if IsPluginFile(plugin) {
			cfg.Plugins[i] = cfg.resolve(plugin)
		}
	}
	if cfg.Output != "" {
		cfg.Output = cfg.resolve(cfg.Output)
	}

	return &cfg, nil
}

// LoadFromDir searches for a config file in startDir and its parents
func LoadFromDir(startDir string) (*Config, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return LoadFromPath(path)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}

// ApplyEnv overrides fields with NEXUS_IDL_LANG, NEXUS_IDL_OUTPUT and
// NEXUS_IDL_PLUGINS (comma separated) when they are set
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// IsPluginFile reports whether a plugin spec names a WASM file rather than a built-in
func IsPluginFile(spec string) bool {
	return strings.HasSuffix(spec, ".wasm")
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}
