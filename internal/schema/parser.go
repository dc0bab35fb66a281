package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed nexus.schema.json
var metaSchema []byte

const metaSchemaURL = "nexus.schema.json"

var (
	compileOnce      sync.Once
	compiledSchema   *jsonschema.Schema
	compileSchemaErr error
)

// Document is a single parsed schema file. Native is nil for plain JSON Schema
// type documents; Tree always holds the decoded document.
type Document struct {
	Path   string
	Native *Schema
	Tree   any
}

// ParseFile reads and parses the schema file at path
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse parses JSON or YAML schema content. Documents tagged with SchemaURL are
// validated and decoded as native schemas.
func Parse(path string, data []byte) (*Document, error) {
	raw, err := ToJSON(data)
	if err != nil {
		return nil, &ValidationError{Path: path, Reason: err.Error()}
	}

	tree, err := decodeTree(raw)
	if err != nil {
		return nil, &ValidationError{Path: path, Reason: err.Error()}
	}

	doc := &Document{Path: path, Tree: tree}

	obj, ok := tree.(map[string]any)
	if !ok || obj["$schema"] != SchemaURL {
		return doc, nil
	}

	if err := validateNative(tree); err != nil {
		return nil, &ValidationError{Path: path, Reason: err.Error()}
	}

	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &ValidationError{Path: path, Reason: err.Error()}
	}
	if err := checkIdentifiers(&s); err != nil {
		return nil, &ValidationError{Path: path, Reason: err.Error()}
	}

	doc.Native = &s
	return doc, nil
}

// ToJSON returns data as JSON, converting from YAML when needed.
func ToJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if json.Valid(trimmed) {
		return trimmed, nil
	}
	out, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return out, nil
}

func decodeTree(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return tree, nil
}

func validateNative(tree any) error {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(metaSchemaURL, bytes.NewReader(metaSchema)); err != nil {
			compileSchemaErr = err
			return
		}
		compiledSchema, compileSchemaErr = c.Compile(metaSchemaURL)
	})
	if compileSchemaErr != nil {
		return fmt.Errorf("compile meta-schema: %w", compileSchemaErr)
	}

	err := compiledSchema.Validate(tree)
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		return fmt.Errorf("%s", leafCause(verr))
	}
	return err
}

// leafCause flattens a jsonschema validation tree into its first leaf, which
// carries the most specific location and message.
func leafCause(verr *jsonschema.ValidationError) string {
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	loc := verr.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, verr.Message)
}

func checkIdentifiers(s *Schema) error {
	services := make(map[string]bool, len(s.Services))
	for _, svc := range s.Services {
		if services[svc.Identifier] {
			return fmt.Errorf("duplicate service identifier %q", svc.Identifier)
		}
		services[svc.Identifier] = true

		ops := make(map[string]bool, len(svc.Operations))
		for _, op := range svc.Operations {
			if ops[op.Identifier] {
				return fmt.Errorf("duplicate operation identifier %q in service %s", op.Identifier, svc.Identifier)
			}
			ops[op.Identifier] = true
		}
	}
	return nil
}
