package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDescriptor is returned for a malformed plugin self-description
	ErrInvalidDescriptor = errors.New("invalid plugin descriptor")
	// ErrMissingGenerate is returned for a plugin that does not declare the generate capability
	ErrMissingGenerate = errors.New("plugin does not have a generate capability")
	// ErrNilCode is returned when a plugin reports success without any code
	ErrNilCode = errors.New("plugin returned no code")
	// ErrUnknownPlugin is returned for a bare name that is not a built-in plugin
	ErrUnknownPlugin = errors.New("unknown plugin")
)

// Error carries the plugin and the stage a failure happened in
type Error struct {
	Plugin string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("plugin %s: %s: %v", e.Plugin, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
