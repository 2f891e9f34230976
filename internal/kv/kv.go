// Package kv provides the key-value backends that hold TaskNest state.
//
// Every value is an opaque string stored under a string key. Callers that
// need structure (the task list, preference scalars) encode it themselves.
// Clear removes every key, which is how "delete everything" is implemented.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend is a string-to-string store.
type Backend interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any prior value.
	Set(ctx context.Context, key, value string) error
	// Clear removes every key.
	Clear(ctx context.Context) error
	// Close releases resources held by the backend.
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// ErrUnknownKind is returned by Open for an unsupported backend kind.
var ErrUnknownKind = errors.New("unknown backend kind")

// ParseKind normalizes a backend name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFile, "":
		return KindFile, nil
	case KindSQLite, "sqlite3":
		return KindSQLite, nil
	case KindMemory, "mem":
		return KindMemory, nil
	default:
		return "", fmt.Errorf("%w: %q (want file, sqlite or memory)", ErrUnknownKind, s)
	}
}

// Options selects and configures a backend.
type Options struct {
	Kind Kind
	// Path is the data file for KindFile and the database file for KindSQLite.
	Path string
}

// Open creates the backend described by opts.
func Open(opts Options) (Backend, error) {
	switch opts.Kind {
	case KindFile, "":
		return NewFile(opts.Path)
	case KindSQLite:
		return NewSQLite(opts.Path)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}
