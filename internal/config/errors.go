package config

import "errors"

// ErrNotFound is returned when no config file exists in a directory or its parents
var ErrNotFound = errors.New("no nexus-idl config file found")
