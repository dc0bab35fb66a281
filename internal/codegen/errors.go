package codegen

import (
	"fmt"
	"strings"
)

// UnsupportedLanguageError is returned for a language token with no registered generator
type UnsupportedLanguageError struct {
	Language  string
	Supported []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s, supported languages: %s", e.Language, strings.Join(e.Supported, ", "))
}

// MissingHintError is returned when a schema lacks a per-language hint that the
// selected generator requires, such as a package name.
type MissingHintError struct {
	Language string
	Hint     string
}

func (e *MissingHintError) Error() string {
	return fmt.Sprintf("%s is required to generate %s code", e.Hint, e.Language)
}
