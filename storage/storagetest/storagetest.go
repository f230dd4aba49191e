// Package storagetest provides a conformance suite shared by storage backends.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ggoodman/mcp-registry-go/storage"
)

// StorageFactory creates a fresh, empty storage instance for one subtest.
type StorageFactory func(t *testing.T) storage.Storage

// RunStorageTests runs the complete storage test suite against the provided factory.
func RunStorageTests(t *testing.T, factory StorageFactory) {
	t.Run("SetAndGet", func(t *testing.T) {
		testSetAndGet(t, factory(t))
	})
	t.Run("GetNonExistent", func(t *testing.T) {
		testGetNonExistent(t, factory(t))
	})
	t.Run("EmptyKeyRejected", func(t *testing.T) {
		testEmptyKeyRejected(t, factory(t))
	})
	t.Run("TTL", func(t *testing.T) {
		testTTL(t, factory(t))
	})
	t.Run("NamespaceIsolation", func(t *testing.T) {
		testNamespaceIsolation(t, factory(t))
	})
	t.Run("DeleteKey", func(t *testing.T) {
		testDeleteKey(t, factory(t))
	})
	t.Run("DeleteNamespace", func(t *testing.T) {
		testDeleteNamespace(t, factory(t))
	})
}

func testSetAndGet(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	data := []byte("test data")

	if err := s.Set(ctx, "test-key", data); err != nil {
		t.Fatalf("Failed to set data: %v", err)
	}
	item, err := s.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get data: %v", err)
	}
	if item == nil {
		t.Fatal("Expected item to exist, got nil")
	}
	if string(item.Data) != string(data) {
		t.Errorf("Expected data %s, got %s", data, item.Data)
	}
	if item.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
	if item.ExpiresAt != nil {
		t.Error("ExpiresAt should be nil for data without TTL")
	}
}

func testGetNonExistent(t *testing.T, s storage.Storage) {
	item, err := s.Get(context.Background(), "non-existent-key")
	if err != nil {
		t.Fatalf("Failed to get non-existent key: %v", err)
	}
	if item != nil {
		t.Error("Expected nil for non-existent key, got item")
	}
}

func testEmptyKeyRejected(t *testing.T, s storage.Storage) {
	err := s.Set(context.Background(), "", []byte("x"))
	if !errors.Is(err, storage.ErrInvalidOptions) {
		t.Fatalf("Expected ErrInvalidOptions, got %v", err)
	}
}

func testTTL(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	ttl := 100 * time.Millisecond

	if err := s.Set(ctx, "ttl-key", []byte("ttl data"), storage.WithTTL(ttl)); err != nil {
		t.Fatalf("Failed to set data with TTL: %v", err)
	}
	item, err := s.Get(ctx, "ttl-key")
	if err != nil {
		t.Fatalf("Failed to get data: %v", err)
	}
	if item == nil {
		t.Fatal("Expected item to exist, got nil")
	}
	if item.ExpiresAt == nil {
		t.Fatal("ExpiresAt should not be nil for data with TTL")
	}

	time.Sleep(ttl + 50*time.Millisecond)

	item, err = s.Get(ctx, "ttl-key")
	if err != nil {
		t.Fatalf("Failed to get expired data: %v", err)
	}
	if item != nil {
		t.Error("Expected nil for expired data, got item")
	}
}

func testNamespaceIsolation(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	key := "shared-key"

	if err := s.Set(ctx, key, []byte("global")); err != nil {
		t.Fatalf("Set global: %v", err)
	}
	if err := s.Set(ctx, key, []byte("alpha"), storage.WithServer("alpha")); err != nil {
		t.Fatalf("Set alpha: %v", err)
	}
	if err := s.Set(ctx, key, []byte("beta"), storage.WithServer("beta")); err != nil {
		t.Fatalf("Set beta: %v", err)
	}

	for _, tc := range []struct {
		want string
		opts []storage.Option
	}{
		{want: "global"},
		{want: "alpha", opts: []storage.Option{storage.WithServer("alpha")}},
		{want: "beta", opts: []storage.Option{storage.WithServer("beta")}},
	} {
		item, err := s.Get(ctx, key, tc.opts...)
		if err != nil || item == nil || string(item.Data) != tc.want {
			t.Fatalf("Namespace %q not isolated: item=%v err=%v", tc.want, item, err)
		}
	}
}

func testDeleteKey(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	if err := s.Set(ctx, "a", []byte("1"), storage.WithServer("srv")); err != nil {
		t.Fatalf("Set a: %v", err)
	}
	if err := s.Set(ctx, "b", []byte("2"), storage.WithServer("srv")); err != nil {
		t.Fatalf("Set b: %v", err)
	}
	if err := s.Delete(ctx, storage.WithServer("srv"), storage.WithKey("a")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if item, _ := s.Get(ctx, "a", storage.WithServer("srv")); item != nil {
		t.Error("Expected a to be deleted")
	}
	if item, _ := s.Get(ctx, "b", storage.WithServer("srv")); item == nil {
		t.Error("Expected b to survive a single-key delete")
	}
}

func testDeleteNamespace(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Set(ctx, k, []byte(k), storage.WithServer("doomed")); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	if err := s.Set(ctx, "a", []byte("keep"), storage.WithServer("kept")); err != nil {
		t.Fatalf("Set kept: %v", err)
	}
	if err := s.Delete(ctx, storage.WithServer("doomed")); err != nil {
		t.Fatalf("Delete namespace: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if item, _ := s.Get(ctx, k, storage.WithServer("doomed")); item != nil {
			t.Errorf("Expected %s to be deleted with its namespace", k)
		}
	}
	if item, _ := s.Get(ctx, "a", storage.WithServer("kept")); item == nil || string(item.Data) != "keep" {
		t.Error("Deleting one namespace must not affect another")
	}

	// Server names that extend another server's name, or that contain glob
	// syntax, must not be swept up by its deletion.
	neighbours := []string{"a:b", "a:", "a*", "[a]"}
	for _, server := range neighbours {
		if err := s.Set(ctx, "tok", []byte(server), storage.WithServer(server)); err != nil {
			t.Fatalf("Set %s: %v", server, err)
		}
	}
	for _, server := range []string{"a", "*", "["} {
		if err := s.Delete(ctx, storage.WithServer(server)); err != nil {
			t.Fatalf("Delete namespace %s: %v", server, err)
		}
	}
	for _, server := range neighbours {
		item, err := s.Get(ctx, "tok", storage.WithServer(server))
		if err != nil {
			t.Fatalf("Get %s: %v", server, err)
		}
		if item == nil || string(item.Data) != server {
			t.Errorf("Deleting a different server's namespace removed %q's data", server)
		}
	}
}
