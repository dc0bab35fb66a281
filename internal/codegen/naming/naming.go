// Package naming converts schema identifiers into the casing conventions of
// the target languages.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pascal converts an identifier to PascalCase, treating '_', '.' and '-' as
// word separators. Letters inside a word keep their case.
func Pascal(identifier string) string {
	var sb strings.Builder
	for _, part := range splitWords(identifier) {
		sb.WriteString(upperFirst(part))
	}
	return sb.String()
}

// Camel converts an identifier to camelCase
func Camel(identifier string) string {
	return lowerFirst(Pascal(identifier))
}

// Snake converts an identifier to snake_case, breaking words at case changes
func Snake(identifier string) string {
	var sb strings.Builder
	runes := []rune(identifier)
	for i, r := range runes {
		if isSeparator(r) {
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "_") {
				sb.WriteByte('_')
			}
			continue
		}
		if unicode.IsUpper(r) && i > 0 && sb.Len() > 0 && !strings.HasSuffix(sb.String(), "_") {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSuffix(sb.String(), "_")
}

// Quote renders s as a double-quoted string literal valid in TypeScript, Go,
// Java and Python.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func splitWords(identifier string) []string {
	return strings.FieldsFunc(identifier, isSeparator)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '.' || r == '-'
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
