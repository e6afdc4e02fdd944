package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey is returned when a required key is absent after merging.
	ErrMissingKey = errors.New("missing required configuration key")
	// ErrWrongKind is returned when a key holds a value of an unexpected kind.
	ErrWrongKind = errors.New("configuration value has the wrong kind")
)

// Error describes a configuration lookup failure at a dotted path such as
// "output.report_times".
type Error struct {
	Path   string
	Err    error
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("config %q: %v: %s", e.Path, e.Err, e.Detail)
	}
	return fmt.Sprintf("config %q: %v", e.Path, e.Err)
}

// Unwrap exposes the sentinel so callers can use errors.Is.
func (e *Error) Unwrap() error {
	return e.Err
}
