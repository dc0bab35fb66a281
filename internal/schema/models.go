package schema

// SchemaURL is the $schema tag that marks a document as a native service schema.
// Documents without it are treated as plain JSON Schema type documents.
const SchemaURL = "http://api.nexus/draft-01/schema#"

// Schema is the root of a parsed native schema document
type Schema struct {
	Schema      string    `json:"$schema"`
	Services    []Service `json:"services"`
	GoPackage   string    `json:"goPackage,omitempty"`
	JavaPackage string    `json:"javaPackage,omitempty"`
}

// Service represents a single entry in the "services" list
type Service struct {
	Identifier  string      `json:"identifier"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Operations  []Operation `json:"operations"`
}

// DisplayName returns the service name, defaulting to its identifier.
func (s Service) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Identifier
}

// Operation represents a single service operation
type Operation struct {
	Identifier  string   `json:"identifier"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Input       *TypeRef `json:"input,omitempty"`
	Output      *TypeRef `json:"output,omitempty"`
}

// DisplayName returns the operation name, defaulting to its identifier.
func (o Operation) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Identifier
}

// TypeRef points at a named type, either a local fragment ("#/types/Foo")
// or a file relative to the referencing document ("types.json#/definitions/Foo").
// A nil TypeRef means the operation takes or returns no value.
type TypeRef struct {
	Ref string `json:"$ref"`
}

// IsVoid reports whether the reference denotes "no value".
func (t *TypeRef) IsVoid() bool {
	return t == nil || t.Ref == ""
}
