// Package testutil holds shared fixtures for emitter and plugin tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bergundy/nexus-idl/internal/resolver"
	"github.com/bergundy/nexus-idl/internal/schema"
	"github.com/bergundy/nexus-idl/internal/typestore"
)

// SchemaPath is the document path fixture resolvers are anchored to
const SchemaPath = "/schemas/services.json"

// Resolver returns a resolver anchored at SchemaPath whose store serves only
// docs. Keys are paths relative to the schema directory.
func Resolver(t *testing.T, docs map[string]any) *resolver.Resolver {
	t.Helper()

	store := typestore.NewStore(nil, zerolog.Nop())
	for name, doc := range docs {
		store.Preload(filepath.Join(filepath.Dir(SchemaPath), name), doc)
	}
	return resolver.New(store, SchemaPath)
}

// PersonTypes returns a type document titled GetPersonResponse with a
// GetPersonRequest definition, stored as person.json.
func PersonTypes() map[string]any {
	return map[string]any{
		"person.json": map[string]any{
			"title": "GetPersonResponse",
			"type":  "object",
			"definitions": map[string]any{
				"GetPersonRequest": map[string]any{
					"title": "GetPersonRequest",
					"type":  "object",
				},
			},
		},
	}
}

// UserService returns a schema with one service and one operation whose
// types live in PersonTypes.
func UserService() *schema.Schema {
	return &schema.Schema{
		Schema:      schema.SchemaURL,
		GoPackage:   "gen",
		JavaPackage: "com.example.directory",
		Services: []schema.Service{
			{
				Identifier:  "UserService",
				Name:        "directory.UserService",
				Description: "Service for managing users.",
				Operations: []schema.Operation{
					{
						Identifier:  "getUser",
						Name:        "Get User",
						Description: "Retrieves a user by their ID.",
						Input:       &schema.TypeRef{Ref: "./person.json#/definitions/GetPersonRequest"},
						Output:      &schema.TypeRef{Ref: "./person.json"},
					},
				},
			},
		},
	}
}

// OneWayService returns a schema whose operations each omit one side
func OneWayService() *schema.Schema {
	return &schema.Schema{
		Schema:    schema.SchemaURL,
		GoPackage: "gen",
		Services: []schema.Service{
			{
				Identifier: "OneWayService",
				Operations: []schema.Operation{
					{
						Identifier: "noInput",
						Output:     &schema.TypeRef{Ref: "./person.json"},
					},
					{
						Identifier: "noOutput",
						Input:      &schema.TypeRef{Ref: "./person.json#/definitions/GetPersonRequest"},
					},
				},
			},
		},
	}
}
