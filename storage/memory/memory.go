// Package memory provides an in-memory implementation of the storage interface
// using github.com/hashicorp/golang-lru/v2 as a size-bounded cache. Expired
// items are dropped lazily when read, or in bulk by Sweep.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ggoodman/mcp-registry-go/storage"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Storage implements the storage.Storage interface using in-memory storage.
type Storage struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *storage.StorageItem]
}

// New creates a new in-memory storage holding at most maxItems entries; the
// least recently used entry is evicted first.
func New(maxItems int) (*Storage, error) {
	cache, err := lru.New[string, *storage.StorageItem](maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &Storage{cache: cache}, nil
}

// Get retrieves data for a specific key within the given namespace.
func (s *Storage) Get(ctx context.Context, key string, opts ...storage.Option) (*storage.StorageItem, error) {
	options := storage.Apply(opts...)
	storageKey := buildKey(options.Namespace, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	item, exists := s.cache.Get(storageKey)
	if !exists {
		return nil, nil
	}
	if item.IsExpired() {
		s.cache.Remove(storageKey)
		return nil, nil
	}
	return item, nil
}

// Set stores data for a specific key within the given namespace.
func (s *Storage) Set(ctx context.Context, key string, data []byte, opts ...storage.Option) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", storage.ErrInvalidOptions)
	}
	options := storage.Apply(opts...)
	storageKey := buildKey(options.Namespace, key)

	now := time.Now()
	item := &storage.StorageItem{
		Data:      make([]byte, len(data)),
		CreatedAt: now,
	}
	copy(item.Data, data)
	if options.TTL != nil {
		expiresAt := now.Add(*options.TTL)
		item.ExpiresAt = &expiresAt
	}

	s.mu.Lock()
	s.cache.Add(storageKey, item)
	s.mu.Unlock()
	return nil
}

// Delete removes a single key (WithKey) or the whole namespace.
func (s *Storage) Delete(ctx context.Context, opts ...storage.Option) error {
	options := storage.Apply(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if options.Key != nil {
		s.cache.Remove(buildKey(options.Namespace, *options.Key))
		return nil
	}
	// LRU has no prefix iteration; walk the key set.
	prefix := namespacePrefix(options.Namespace)
	for _, key := range s.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Remove(key)
		}
	}
	return nil
}

// Sweep removes every expired item and reports how many were dropped.
func (s *Storage) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	n := 0
	for _, key := range s.cache.Keys() {
		if item, ok := s.cache.Peek(key); ok && item.ExpiresAt != nil && now.After(*item.ExpiresAt) {
			s.cache.Remove(key)
			n++
		}
	}
	return n
}

// Close purges the cache.
func (s *Storage) Close() error {
	s.mu.Lock()
	s.cache.Purge()
	s.mu.Unlock()
	return nil
}

func buildKey(namespace storage.Namespace, key string) string {
	return namespacePrefix(namespace) + "key:" + key
}

func namespacePrefix(namespace storage.Namespace) string {
	return storage.KeyPrefix(namespace)
}

var _ storage.Storage = (*Storage)(nil)
