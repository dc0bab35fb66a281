package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoSchemas is returned when a run is started without schema files
var ErrNoSchemas = errors.New("at least one schema argument must be provided")

// MultiplePackagesError is returned when Go output would carry more than one
// package clause. Each native schema emits its own, so a Go run takes one
// native schema.
type MultiplePackagesError struct {
	Count int
}

func (e *MultiplePackagesError) Error() string {
	return fmt.Sprintf("%d package clauses in output: pass one native schema per Go run", e.Count)
}
