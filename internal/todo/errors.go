package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrCorruptData is returned when the stored task list cannot be decoded.
	ErrCorruptData = errors.New("corrupt task data")
	// ErrPersistence matches every *PersistenceError.
	ErrPersistence = errors.New("persistence failed")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // field path, e.g. "title" or "tasks[2].priority"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError reports a backend failure while reading or writing a key.
// The in-memory list a caller holds is not authoritative until a save
// succeeds.
type PersistenceError struct {
	Op  string // "load", "save" or "clear"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
