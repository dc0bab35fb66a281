package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates generated source as a list of lines with managed indentation
type Writer struct {
	lines        []string
	indentLevel  int
	indentString string
	linePrefix   string
}

// NewWriter creates a new line writer with the specified indentation string
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString: indentString,
	}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.updatePrefix()
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

// Line appends a line at the current indentation. Empty lines are never indented.
func (w *Writer) Line(s string) {
	if s == "" {
		w.lines = append(w.lines, "")
		return
	}
	w.lines = append(w.lines, w.linePrefix+s)
}

// Linef appends a formatted line
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Blank appends an empty line unless the output is empty or already ends with one
func (w *Writer) Blank() {
	if len(w.lines) > 0 && w.lines[len(w.lines)-1] != "" {
		w.lines = append(w.lines, "")
	}
}

// Raw appends lines verbatim, ignoring the current indentation
func (w *Writer) Raw(lines ...string) {
	w.lines = append(w.lines, lines...)
}

// Block writes content inside a block with proper indentation
// Example: Block("if true {", "}", func() { w.Line("fmt.Println()") })
func (w *Writer) Block(opener, closer string, content func()) {
	w.Line(opener)
	w.Indent()
	content()
	w.Dedent()
	w.Line(closer)
}

// Doc wraps text as a comment block using opts and appends it at the current
// indentation. The indentation counts towards the line width. Nothing is
// written for empty text.
func (w *Writer) Doc(text string, opts WrapOptions) {
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}
	opts.MaxLength -= len(w.linePrefix)
	for _, line := range Wrap(text, opts) {
		w.Line(line)
	}
}

// Lines returns the generated lines
func (w *Writer) Lines() []string {
	return w.lines
}

// String returns the generated lines joined with newlines
func (w *Writer) String() string {
	if len(w.lines) == 0 {
		return ""
	}
	return strings.Join(w.lines, "\n") + "\n"
}

// updatePrefix updates the line prefix based on current indentation
func (w *Writer) updatePrefix() {
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}
