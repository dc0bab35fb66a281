package schema

import "fmt"

// ValidationError reports a schema file that could not be parsed or failed validation
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid schema %s: %s", e.Path, e.Reason)
}
