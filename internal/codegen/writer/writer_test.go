package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Line(t *testing.T) {
	// Test: Line appends one entry per call
	w := NewWriter("\t")

	w.Line("line1")
	w.Line("line2")

	assert.Equal(t, []string{"line1", "line2"}, w.Lines())
	assert.Equal(t, "line1\nline2\n", w.String())
}

func TestWriter_Indentation(t *testing.T) {
	// Test: Proper indentation handling
	w := NewWriter("\t")

	w.Line("func main() {")
	w.Indent()
	w.Line(`fmt.Println("hello")`)
	w.Line("return")
	w.Dedent()
	w.Line("}")

	assert.Equal(t, "func main() {\n\tfmt.Println(\"hello\")\n\treturn\n}\n", w.String())
}

func TestWriter_NestedIndentation(t *testing.T) {
	// Test: Multiple levels of indentation
	w := NewWriter("  ")

	w.Line("if true {")
	w.Indent()
	w.Line("if false {")
	w.Indent()
	w.Line("return")
	w.Dedent()
	w.Line("}")
	w.Dedent()
	w.Line("}")

	assert.Equal(t, "if true {\n  if false {\n    return\n  }\n}\n", w.String())
}

func TestWriter_EmptyLinesAreNotIndented(t *testing.T) {
	// Test: indentation never leaves trailing whitespace
	w := NewWriter("    ")
	w.Indent()
	w.Line("a")
	w.Line("")
	w.Line("b")

	assert.Equal(t, []string{"    a", "", "    b"}, w.Lines())
}

func TestWriter_Blank(t *testing.T) {
	// Test: Blank prevents leading and repeated blank lines
	w := NewWriter("\t")

	w.Blank()
	w.Line("line1")
	w.Blank()
	w.Blank()
	w.Line("line2")

	assert.Equal(t, []string{"line1", "", "line2"}, w.Lines())
}

func TestWriter_Block(t *testing.T) {
	// Test: Block helper function
	w := NewWriter("\t")

	w.Block("func test() {", "}", func() {
		w.Line("return nil")
	})

	assert.Equal(t, "func test() {\n\treturn nil\n}\n", w.String())
}

func TestWriter_Doc(t *testing.T) {
	// Test: doc comments are wrapped and indented
	w := NewWriter("  ")
	w.Indent()
	w.Doc("Retrieves a user by their ID.", WrapOptions{Prefix: " *", Header: "/**", Trailer: " */"})

	assert.Equal(t, []string{"  /**", "   * Retrieves a user by their ID.", "   */"}, w.Lines())
}

func TestWriter_DocEmpty(t *testing.T) {
	// Test: Empty doc comment produces no output
	w := NewWriter("\t")

	w.Doc("", WrapOptions{Prefix: "//", Header: "/*"})
	w.Line("type Foo struct{}")

	assert.Equal(t, "type Foo struct{}\n", w.String())
}

func TestWriter_Raw(t *testing.T) {
	// Test: Raw ignores indentation
	w := NewWriter("\t")
	w.Indent()
	w.Raw("a", "b")

	assert.Equal(t, []string{"a", "b"}, w.Lines())
}

func TestWriter_DedentBounds(t *testing.T) {
	// Test: Dedent doesn't go below zero
	w := NewWriter("\t")

	w.Dedent()
	w.Line("a")
	w.Indent()
	w.Line("b")
	w.Dedent()
	w.Line("c")

	assert.Equal(t, []string{"a", "\tb", "c"}, w.Lines())
}
