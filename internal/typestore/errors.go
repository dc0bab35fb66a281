package typestore

import "errors"

// ErrNotFound is returned when no type document exists at the requested path
var ErrNotFound = errors.New("type document not found")
