package schema

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan for property-based testing:
// 1. Random valid schemas survive encode -> parse unchanged, as JSON and as YAML
// 2. Random invalid identifiers are always rejected with a ValidationError
// 3. Duplicate identifiers are always rejected

func TestParse_PropertyBasedValidSchemas(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := range 100 {
		t.Run(fmt.Sprintf("random_schema_%d", i), func(t *testing.T) {
			s := randomSchema(rng)

			raw, err := json.Marshal(s)
			require.NoError(t, err)

			doc, err := Parse("random.json", raw)
			require.NoError(t, err, "valid schema should parse: %s", raw)
			assert.Equal(t, s, doc.Native)

			yml, err := yaml.JSONToYAML(raw)
			require.NoError(t, err)

			doc, err = Parse("random.yaml", yml)
			require.NoError(t, err, "valid schema should parse: %s", yml)
			assert.Equal(t, s, doc.Native)
		})
	}
}

func TestParse_PropertyBasedInvalidIdentifiers(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	invalidStarts := []string{"1", "_", "-", " ", "é"}

	for i := range 50 {
		t.Run(fmt.Sprintf("invalid_identifier_%d", i), func(t *testing.T) {
			s := randomSchema(rng)
			if len(s.Services) == 0 {
				s.Services = []Service{{Identifier: "S", Operations: []Operation{}}}
			}
			bad := invalidStarts[rng.Intn(len(invalidStarts))] + randomIdentifier(rng)
			s.Services[rng.Intn(len(s.Services))].Identifier = bad

			raw, err := json.Marshal(s)
			require.NoError(t, err)

			_, err = Parse("random.json", raw)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, "identifier %q should be rejected", bad)
		})
	}
}

func TestParse_PropertyBasedDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	for i := range 50 {
		t.Run(fmt.Sprintf("duplicate_%d", i), func(t *testing.T) {
			s := randomSchema(rng)
			svc := Service{Identifier: randomIdentifier(rng), Operations: []Operation{}}
			s.Services = append(s.Services, svc, svc)

			raw, err := json.Marshal(s)
			require.NoError(t, err)

			_, err = Parse("random.json", raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "duplicate service identifier")
		})
	}
}

// randomSchema builds a schema with unique identifiers and a random mix of
// optional fields
func randomSchema(rng *rand.Rand) *Schema {
	s := &Schema{Schema: SchemaURL, Services: []Service{}}
	if rng.Intn(2) == 0 {
		s.GoPackage = "pkg_" + fmt.Sprint(rng.Intn(100))
	}
	if rng.Intn(2) == 0 {
		s.JavaPackage = "com.example.p" + fmt.Sprint(rng.Intn(100))
	}

	for i := range rng.Intn(4) {
		svc := Service{
			Identifier: fmt.Sprintf("%s%d", randomIdentifier(rng), i),
			Operations: []Operation{},
		}
		if rng.Intn(2) == 0 {
			svc.Name = "pkg." + svc.Identifier
		}
		if rng.Intn(2) == 0 {
			svc.Description = "Handles " + svc.Identifier + " requests."
		}

		for j := range rng.Intn(4) {
			op := Operation{Identifier: fmt.Sprintf("op%s%d", randomIdentifier(rng), j)}
			if rng.Intn(3) == 0 {
				op.Name = "Operation " + op.Identifier
			}
			if rng.Intn(3) == 0 {
				op.Description = "Line one.\nLine two."
			}
			if rng.Intn(2) == 0 {
				op.Input = &TypeRef{Ref: "./types.json#/definitions/In" + op.Identifier}
			}
			if rng.Intn(2) == 0 {
				op.Output = &TypeRef{Ref: "#/definitions/Out"}
			}
			svc.Operations = append(svc.Operations, op)
		}
		s.Services = append(s.Services, svc)
	}
	return s
}

func randomIdentifier(rng *rand.Rand) string {
	const first = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const rest = first + "0123456789_"

	b := []byte{first[rng.Intn(len(first))]}
	for range rng.Intn(10) {
		b = append(b, rest[rng.Intn(len(rest))])
	}
	return string(b)
}
