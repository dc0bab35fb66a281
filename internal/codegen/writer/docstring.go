package writer

import "strings"

// DefaultMaxLength is the line width used when WrapOptions.MaxLength is zero
const DefaultMaxLength = 120

// WrapOptions controls how Wrap lays out a comment block
type WrapOptions struct {
	// Prefix starts every wrapped line, e.g. "//" or " *". Words are joined to it with a space.
	Prefix string
	// MaxLength is the line width to wrap at. Zero means DefaultMaxLength.
	MaxLength int
	// Header, when set, is emitted as its own line before the wrapped content.
	Header string
	// Trailer, when set, is emitted as its own line after the wrapped content.
	Trailer string
}

// Wrap greedily word-wraps text into prefixed lines no longer than MaxLength.
// A word that does not fit even on an empty line is emitted alone on an
// overlong line rather than split. Runs of spaces inside the text are kept.
// Empty text produces no lines at all, header and trailer included.
func Wrap(text string, opts WrapOptions) []string {
	if text == "" {
		return nil
	}

	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	var lines []string
	if opts.Header != "" {
		lines = append(lines, opts.Header)
	}

	current := opts.Prefix
	for _, word := range strings.Split(text, " ") {
		if len(current)+1+len(word) > maxLength && len(current) > len(opts.Prefix) {
			lines = append(lines, strings.TrimRight(current, " "))
			current = opts.Prefix
		}
		current += " " + word
	}
	if len(current) > len(opts.Prefix) {
		lines = append(lines, strings.TrimRight(current, " "))
	}

	if opts.Trailer != "" {
		lines = append(lines, opts.Trailer)
	}

	return lines
}
