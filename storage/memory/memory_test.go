package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ggoodman/mcp-registry-go/storage"
	"github.com/ggoodman/mcp-registry-go/storage/storagetest"
)

func TestMemoryStorage(t *testing.T) {
	storagetest.RunStorageTests(t, func(t *testing.T) storage.Storage {
		s, err := New(100)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero-sized cache")
	}
}

func TestEviction(t *testing.T) {
	s, err := New(2)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Set(ctx, k, []byte(k)); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}
	if item, _ := s.Get(ctx, "a"); item != nil {
		t.Fatal("expected least recently used item to be evicted")
	}
	if item, _ := s.Get(ctx, "c"); item == nil {
		t.Fatal("expected most recent item to be present")
	}
}

func TestSweep(t *testing.T) {
	s, err := New(10)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	_ = s.Set(ctx, "short", []byte("x"), storage.WithTTL(10*time.Millisecond))
	_ = s.Set(ctx, "long", []byte("y"), storage.WithTTL(time.Hour))
	_ = s.Set(ctx, "forever", []byte("z"))

	time.Sleep(30 * time.Millisecond)
	if n := s.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept item, got %d", n)
	}
	if item, _ := s.Get(ctx, "long"); item == nil {
		t.Fatal("unexpired item must survive Sweep")
	}
}
