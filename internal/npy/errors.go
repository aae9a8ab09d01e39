package npy

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrNotFound  = errors.New("npy: file not found")
	ErrMalformed = errors.New("npy: malformed array data")
)

// LoadError records which kind of failure occurred and for which path.
type LoadError struct {
	Kind error  // ErrNotFound or ErrMalformed
	Path string // File path, empty when reading from a stream
	Err  error  // Underlying cause
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func notFound(path string, err error) error {
	return &LoadError{Kind: ErrNotFound, Path: path, Err: err}
}

func malformed(path string, err error) error {
	return &LoadError{Kind: ErrMalformed, Path: path, Err: err}
}
