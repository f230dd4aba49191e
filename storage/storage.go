// Package storage provides a small namespaced key-value interface used to
// persist profiler reports, with in-memory and Redis backends.
package storage

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Storage defines the primary interface for namespaced data storage.
type Storage interface {
	// Get retrieves data for a specific key within the given namespace.
	// Returns nil StorageItem if key doesn't exist or has expired.
	// Returns error only for legitimate storage system failures.
	Get(ctx context.Context, key string, opts ...Option) (*StorageItem, error)

	// Set stores data for a specific key within the given namespace.
	Set(ctx context.Context, key string, data []byte, opts ...Option) error

	// Delete removes data within the given namespace.
	// If no key specified via WithKey, removes the entire namespace.
	Delete(ctx context.Context, opts ...Option) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// StorageItem represents a stored piece of data with metadata.
type StorageItem struct {
	Data      []byte     // The stored data
	CreatedAt time.Time  // When the item was created
	ExpiresAt *time.Time // When the item expires (nil = no expiration)
}

// IsExpired checks if the item has expired.
func (si *StorageItem) IsExpired() bool {
	return si.ExpiresAt != nil && time.Now().After(*si.ExpiresAt)
}

// Option configures storage operations.
type Option func(*Options)

// Options contains configuration for storage operations.
type Options struct {
	Namespace Namespace      // Optional: specifies the storage namespace (nil = global)
	Key       *string        // Optional: specific key (for Delete operations)
	TTL       *time.Duration // Optional: time-to-live for the data
}

// Namespace scopes keys. If nil, storage operates in the global namespace.
type Namespace interface {
	namespace() // private method to ensure only our types implement this
}

// ServerNamespace scopes keys to one MCP server, so that profiles collected
// for different servers sharing a backend never collide.
type ServerNamespace struct {
	Server string
}

func (ServerNamespace) namespace() {}

// WithServer specifies a server-level storage namespace.
func WithServer(server string) Option {
	return func(opts *Options) {
		opts.Namespace = ServerNamespace{Server: server}
	}
}

// WithKey specifies a specific key for Delete operations.
// If not provided, Delete removes the entire namespace.
func WithKey(key string) Option {
	return func(opts *Options) {
		opts.Key = &key
	}
}

// WithTTL sets a time-to-live for the stored data.
func WithTTL(ttl time.Duration) Option {
	return func(opts *Options) {
		opts.TTL = &ttl
	}
}

// KeyPrefix returns the prefix shared by every key stored in namespace. The
// server name is length-prefixed, so no server's prefix is a prefix of
// another's ("a" and "a:b" stay disjoint).
func KeyPrefix(namespace Namespace) string {
	switch ns := namespace.(type) {
	case ServerNamespace:
		return "server:" + strconv.Itoa(len(ns.Server)) + ":" + ns.Server + ":"
	default:
		return "global:"
	}
}

// Apply folds opts into an Options value.
func Apply(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ErrInvalidOptions is returned when incompatible options are provided.
var ErrInvalidOptions = errors.New("storage: invalid option combination")
