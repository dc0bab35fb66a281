package java

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bergundy/nexus-idl/internal/codegen"
	"github.com/bergundy/nexus-idl/internal/schema"
	"github.com/bergundy/nexus-idl/internal/testutil"
)

func TestGenerator_MissingPackage(t *testing.T) {
	// Test: javaPackage is required
	s := testutil.UserService()
	s.JavaPackage = ""

	code, err := NewGenerator().Generate(context.Background(), testutil.Resolver(t, testutil.PersonTypes()), s)
	assert.Nil(t, code)

	var hintErr *codegen.MissingHintError
	require.ErrorAs(t, err, &hintErr)
	assert.Equal(t, "javaPackage is required to generate java code", err.Error())
}

func TestGenerator_UserService(t *testing.T) {
	// Test: one annotated interface with one method per operation
	code, err := NewGenerator().Generate(context.Background(), testutil.Resolver(t, testutil.PersonTypes()), testutil.UserService())
	require.NoError(t, err)

	assert.Equal(t, []string{"package com.example.directory;"}, code.Headers)
	assert.Equal(t, Imports, code.Imports)

	expected := []string{
		"/**",
		" * Service for managing users.",
		" */",
		`@Service("directory.UserService")`,
		"public interface UserService {",
		"",
		"    /**",
		"     * Retrieves a user by their ID.",
		"     */",
		`    @Operation("Get User")`,
		"    GetPersonResponse getUser(@Nonnull GetPersonRequest input);",
		"}",
		"",
	}
	assert.Equal(t, expected, code.Body)
}

func TestGenerator_VoidTypes(t *testing.T) {
	// Test: void input drops the parameter, void output returns void
	code, err := NewGenerator().Generate(context.Background(), testutil.Resolver(t, testutil.PersonTypes()), withJavaPackage(testutil.OneWayService()))
	require.NoError(t, err)

	result := strings.Join(code.Body, "\n")
	assert.Contains(t, result, "    GetPersonResponse noInput();")
	assert.Contains(t, result, "    void noOutput(@Nonnull GetPersonRequest input);")
	assert.Contains(t, result, "     * Operation for noInput.")
	assert.Contains(t, result, " * Service for OneWayService.")
}

func TestGenerator_Casing(t *testing.T) {
	// Test: PascalCase interfaces and camelCase methods
	s := &schema.Schema{
		JavaPackage: "com.example",
		Services: []schema.Service{
			{
				Identifier: "user_service",
				Operations: []schema.Operation{{Identifier: "Get_user_by_id"}},
			},
		},
	}

	code, err := NewGenerator().Generate(context.Background(), testutil.Resolver(t, nil), s)
	require.NoError(t, err)

	result := strings.Join(code.Body, "\n")
	assert.Contains(t, result, `@Service("user_service")`)
	assert.Contains(t, result, "public interface UserService {")
	assert.Contains(t, result, `@Operation("Get_user_by_id")`)
	assert.Contains(t, result, "void getUserById();")
}

func TestGenerator_ImportsAreCopied(t *testing.T) {
	// Test: callers may mutate the returned imports
	code, err := NewGenerator().Generate(context.Background(), testutil.Resolver(t, nil), &schema.Schema{JavaPackage: "p"})
	require.NoError(t, err)

	code.Imports[0] = "mutated"
	assert.Equal(t, "import io.nexusrpc.Operation;", Imports[0])
}

func withJavaPackage(s *schema.Schema) *schema.Schema {
	s.JavaPackage = "com.example.oneway"
	return s
}
