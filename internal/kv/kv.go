// Package kv provides the ambient key-value stores that hold the task
// collection.
//
// Every backend stores opaque byte values under string keys. A key that has
// never been written reads back as absent, not as an error. Writes replace the
// whole value; there are no transactions and concurrent writers race with
// last-write-wins semantics.
package kv

import (
	"context"
	"fmt"
	"strings"
)

// Store is a minimal key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key
	// does not exist.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases resources held by the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Dir is the directory used by the file backend.
	Dir string

	// Redis connection settings.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the store selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(opts.Dir)
	case BackendRedis:
		return NewRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want memory, file or redis)", opts.Backend)
	}
}
