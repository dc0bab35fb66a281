package pipeline

import (
	"bytes"
	"context"
	"errors"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/codegen/languages"
	"github.com/bergundy/nexus-idl/internal/plugin"
	"github.com/bergundy/nexus-idl/internal/plugin/temporal"
	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
)

// Test plan for Pipeline:
// - A native document and its sibling type file end up in one assembled output
// - Referenced documents not passed as schemas are fetched once per run
// - Plugin output follows the built-in emitter for each document
// - Go output is formatted and parses
// - Unknown languages and failing plugins abort the run before anything is written
// - Type names match between declarations and signatures
// - Registered languages without a type renderer still run

const servicesJSON = `{
  "$schema": "http://api.nexus/draft-01/schema#",
  "services": [
    {
      "identifier": "S",
      "operations": [
        {"identifier": "op", "input": {"$ref": "./foo.json"}, "output": {"$ref": "./foo.json"}}
      ]
    }
  ]
}`

const fooJSON = `{
  "title": "Foo",
  "type": "object",
  "properties": {"bar": {"type": "string"}}
}`

type countingFetcher struct {
	mu     sync.Mutex
	counts map[string]int
}

func (f *countingFetcher) Fetch(ctx context.Context, path string) (any, error) {
	f.mu.Lock()
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	f.counts[filepath.Base(path)]++
	f.mu.Unlock()
	return schema.FileFetcher{}.Fetch(ctx, path)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestRun_TypeScript(t *testing.T) {
	dir := writeFiles(t, map[string]string{"services.json": servicesJSON, "foo.json": fooJSON})
	fetcher := &countingFetcher{}

	result, err := New(languages.NewRegistry(), fetcher, zerolog.Nop()).Run(context.Background(), Options{
		Language: "ts",
		Schemas:  []string{filepath.Join(dir, "services.json"), filepath.Join(dir, "foo.json")},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = result.WriteTo(&buf)
	require.NoError(t, err)

	expected := `import * as nexus from "nexus-rpc"

export interface Foo {
  bar?: string;
  [property: string]: any;
}

/**
 * Service for S.
 */
export const S = nexus.service("S", {
  /**
   * Operation for op.
   */
  op: nexus.operation<Foo, Foo>({
    name: "op",
  }),
});
`
	assert.Equal(t, expected, buf.String())

	// Test: documents passed as schemas are served from the store
	assert.Empty(t, fetcher.counts)
}

func TestRun_FetchesSiblingOnce(t *testing.T) {
	// Test: a referenced file that was not passed as a schema is fetched at
	// most once, even when both sides of an operation point at it
	dir := writeFiles(t, map[string]string{"services.json": servicesJSON, "foo.json": fooJSON})
	fetcher := &countingFetcher{}

	result, err := New(languages.NewRegistry(), fetcher, zerolog.Nop()).Run(context.Background(), Options{
		Language: "python",
		Schemas:  []string{filepath.Join(dir, "services.json")},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"foo.json": 1}, fetcher.counts)
	assert.Empty(t, result.Types)

	out, err := result.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `    op: nexusrpc.Operation[Foo, Foo] = nexusrpc.Operation(name="op")`)
}

func TestRun_GoWithPlugin(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"services.yml": "$schema: \"http://api.nexus/draft-01/schema#\"\ngoPackage: gen\nservices:\n" +
			"  - identifier: UserService\n    operations:\n" +
			"      - identifier: getUser\n        input:\n          $ref: \"./person.json#/definitions/GetPersonRequest\"\n" +
			"        output:\n          $ref: \"./person.json\"\n",
		"person.json": `{
  "title": "GetPersonResponse",
  "type": "object",
  "required": ["id"],
  "properties": {"id": {"type": "string"}, "age": {"type": "integer"}},
  "definitions": {
    "GetPersonRequest": {"title": "GetPersonRequest", "type": "object", "properties": {"userId": {"type": "string"}}}
  }
}`,
	})

	result, err := New(languages.NewRegistry(), nil, zerolog.Nop()).Run(context.Background(), Options{
		Language: "go",
		Schemas:  []string{filepath.Join(dir, "services.yml"), filepath.Join(dir, "person.json")},
		Plugins:  []plugin.Plugin{temporal.New()},
	})
	require.NoError(t, err)
	require.Len(t, result.Codes, 2)

	out, err := result.Bytes()
	require.NoError(t, err)
	src := string(out)

	assert.True(t, strings.HasPrefix(src, "package gen\n\nimport \"github.com/nexus-rpc/sdk-go/nexus\"\nimport \"go.temporal.io/sdk/workflow\"\n"), src)
	assert.Less(t, strings.Index(src, "type GetPersonResponse struct"), strings.Index(src, "const UserServiceServiceName"))
	assert.Less(t, strings.Index(src, "type UserServiceHandler interface"), strings.Index(src, "type UserServiceWorkflowClient struct"))

	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.AllErrors)
	require.NoError(t, err)
}

func TestRun_TypesOnly(t *testing.T) {
	// Test: without native documents only the type declarations are written
	dir := writeFiles(t, map[string]string{"foo.json": fooJSON})

	result, err := New(languages.NewRegistry(), nil, zerolog.Nop()).Run(context.Background(), Options{
		Language: "go",
		Schemas:  []string{filepath.Join(dir, "foo.json")},
	})
	require.NoError(t, err)

	out, err := result.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "type Foo struct {\n\tBar *string `json:\"bar,omitempty\"`\n}\n", string(out))
}

func TestRun_LowercaseTitles(t *testing.T) {
	// Test: declarations and signatures spell a non-Pascal title the same way
	dir := writeFiles(t, map[string]string{
		"services.json": `{
  "$schema": "http://api.nexus/draft-01/schema#",
  "goPackage": "gen",
  "javaPackage": "com.example.gen",
  "services": [
    {
      "identifier": "People",
      "operations": [
        {"identifier": "find", "input": {"$ref": "./person.json"}, "output": {"$ref": "./person.json"}}
      ]
    }
  ]
}`,
		"person.json": `{"title": "person", "type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`,
	})
	schemas := []string{filepath.Join(dir, "services.json"), filepath.Join(dir, "person.json")}
	p := New(languages.NewRegistry(), nil, zerolog.Nop())

	result, err := p.Run(context.Background(), Options{Language: "go", Schemas: schemas})
	require.NoError(t, err)
	out, err := result.Bytes()
	require.NoError(t, err)
	src := string(out)
	assert.Contains(t, src, "type person struct {")
	assert.Contains(t, src, "nexus.NewOperationReference[person, person](")
	assert.Contains(t, src, "nexus.UnimplementedOperation[person, person]")
	assert.NotContains(t, src, "Person struct")
	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.AllErrors)
	require.NoError(t, err)

	result, err = p.Run(context.Background(), Options{Language: "java", Schemas: schemas})
	require.NoError(t, err)
	out, err = result.Bytes()
	require.NoError(t, err)
	src = string(out)
	assert.Contains(t, src, "public record person(")
	assert.Contains(t, src, "person find(@Nonnull person input);")
}

type kotlinGenerator struct{}

func (kotlinGenerator) Language() string {
	return "kotlin"
}

func (kotlinGenerator) Generate(_ context.Context, _ *resolver.Resolver, s *schema.Schema) (*codegen.Code, error) {
	var body []string
	for _, svc := range s.Services {
		body = append(body, "interface "+svc.Identifier)
	}
	return &codegen.Code{Body: body}, nil
}

func TestRun_RegisteredLanguage(t *testing.T) {
	// Test: a language added with Register runs without a type renderer
	registry := languages.NewRegistry()
	registry.Register("kotlin", func() codegen.Generator { return kotlinGenerator{} })
	dir := writeFiles(t, map[string]string{"services.json": servicesJSON, "foo.json": fooJSON})
	p := New(registry, nil, zerolog.Nop())

	result, err := p.Run(context.Background(), Options{
		Language: "kotlin",
		Schemas:  []string{filepath.Join(dir, "services.json")},
	})
	require.NoError(t, err)
	out, err := result.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "\n\ninterface S\n", string(out))

	// Test: type documents are used for references but not declared
	result, err = p.Run(context.Background(), Options{
		Language: "kotlin",
		Schemas:  []string{filepath.Join(dir, "services.json"), filepath.Join(dir, "foo.json")},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Types)
}

func TestRun_Errors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"services.json": servicesJSON})
	p := New(languages.NewRegistry(), nil, zerolog.Nop())
	ctx := context.Background()

	// Test: unsupported languages fail before any file is read
	_, err := p.Run(ctx, Options{Language: "cobol", Schemas: []string{"/does/not/exist.json"}})
	var langErr *codegen.UnsupportedLanguageError
	require.ErrorAs(t, err, &langErr)

	_, err = p.Run(ctx, Options{Language: "ts"})
	assert.ErrorIs(t, err, ErrNoSchemas)

	// Test: a missing referenced file names the reference
	_, err = p.Run(ctx, Options{Language: "ts", Schemas: []string{filepath.Join(dir, "services.json")}})
	var rerr *resolver.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "./foo.json", rerr.Ref)

	// Test: go output requires a package hint
	_, err = p.Run(ctx, Options{Language: "go", Schemas: []string{filepath.Join(dir, "services.json")}})
	var hintErr *codegen.MissingHintError
	require.ErrorAs(t, err, &hintErr)
}

type failingPlugin struct{}

func (failingPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{Name: "broken", Version: "1.0.0", Capabilities: []string{plugin.CapabilityGenerate}}
}

func (failingPlugin) Generate(context.Context, *resolver.Resolver, *schema.Schema, string) (*codegen.Code, error) {
	return nil, errors.New("boom")
}

func TestRun_PluginFailure(t *testing.T) {
	dir := writeFiles(t, map[string]string{"services.json": servicesJSON, "foo.json": fooJSON})

	_, err := New(languages.NewRegistry(), nil, zerolog.Nop()).Run(context.Background(), Options{
		Language: "ts",
		Schemas:  []string{filepath.Join(dir, "services.json")},
		Plugins:  []plugin.Plugin{failingPlugin{}},
	})
	var perr *plugin.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "broken", perr.Plugin)
	assert.Contains(t, err.Error(), "plugin broken: generate: boom")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestResult_WriteTo(t *testing.T) {
	// Test: empty groups contribute nothing but their separators
	r := &Result{
		Language: "ts",
		Codes: []*codegen.Code{
			{Headers: []string{"// h"}, Imports: []string{"import a"}, Body: []string{"body a"}},
			{Imports: []string{}, Body: []string{}},
		},
		Types: []string{"type T = string;"},
	}

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "// h\n\nimport a\n\ntype T = string;\n\nbody a\n\n", buf.String())

	_, err = r.WriteTo(failingWriter{})
	assert.EqualError(t, err, "disk full")

	// Test: unparseable Go output is an error and nothing is written
	r = &Result{Language: "go", Codes: []*codegen.Code{{Body: []string{"func {"}}}}
	buf.Reset()
	_, err = r.WriteTo(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format go output")
	assert.Zero(t, buf.Len())

	// Test: two package clauses are reported as such, not as a parse error
	r = &Result{Language: "go", Codes: []*codegen.Code{
		{Headers: []string{"package a"}, Body: []string{"type A struct{}"}},
		{Headers: []string{"package b"}, Body: []string{"type B struct{}"}},
	}}
	_, err = r.Bytes()
	var pkgErr *MultiplePackagesError
	require.ErrorAs(t, err, &pkgErr)
	assert.Equal(t, 2, pkgErr.Count)
	assert.EqualError(t, err, "format go output: 2 package clauses in output: pass one native schema per Go run")
}
