package pipeline

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"

	"github.com/bergundy/nexus-idl/internal/codegen"
)

// Result is the output of a run before it is assembled into a file
type Result struct {
	Language string

	// Codes holds the built-in emitter output followed by each plugin's
	// output, repeated per native document
	Codes []*codegen.Code

	// Types are the declarations rendered from plain type documents
	Types []string
}

// Bytes assembles the output: headers, imports, type declarations, then every
// body. Go output is gofmt'ed.
func (r *Result) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	writeln := func(lines ...string) {
		for _, line := range lines {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	if len(r.Codes) > 0 {
		for _, code := range r.Codes {
			if len(code.Headers) > 0 {
				writeln(code.Headers...)
				writeln("")
			}
		}
		for _, code := range r.Codes {
			writeln(code.Imports...)
		}
		writeln("")
	}

	writeln(r.Types...)

	for _, code := range r.Codes {
		writeln("")
		writeln(code.Body...)
	}

	if r.Language != "go" || len(r.Codes) == 0 {
		return buf.Bytes(), nil
	}
	if packages := r.packageClauses(); packages > 1 {
		return nil, fmt.Errorf("format go output: %w", &MultiplePackagesError{Count: packages})
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format go output: %w", err)
	}
	return formatted, nil
}

// packageClauses counts the package clauses contributed by the codes' headers
func (r *Result) packageClauses() int {
	n := 0
	for _, code := range r.Codes {
		for _, header := range code.Headers {
			if strings.HasPrefix(header, "package ") {
				n++
			}
		}
	}
	return n
}

// WriteTo writes the assembled output to w. Nothing is written when assembly fails.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	out, err := r.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	return int64(n), err
}
