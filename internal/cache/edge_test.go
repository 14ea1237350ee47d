package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryPageStoreRoundTrip(t *testing.T) {
	store := NewMemoryPageStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "edge:missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for absent key, got %v", err)
	}

	page := &Page{Body: []byte("<html>cached</html>"), ContentType: "text/html; charset=utf-8"}
	if err := store.Set(ctx, "edge:host/path", page, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "edge:host/path")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Body) != "<html>cached</html>" {
		t.Errorf("Unexpected body: %s", got.Body)
	}
	if got.ContentType != "text/html; charset=utf-8" {
		t.Errorf("Unexpected content type: %s", got.ContentType)
	}
}

func TestMemoryPageStoreExpiry(t *testing.T) {
	store := NewMemoryPageStore()
	ctx := context.Background()

	store.Set(ctx, "edge:k", &Page{Body: []byte("x")}, -time.Second)
	if _, err := store.Get(ctx, "edge:k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for expired page, got %v", err)
	}
}

func TestNewPageStoreMemory(t *testing.T) {
	store, err := NewPageStore("", "", 0, "memory")
	if err != nil {
		t.Fatalf("NewPageStore failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*MemoryPageStore); !ok {
		t.Errorf("Expected MemoryPageStore, got %T", store)
	}
}

func TestNewPageStoreUnknownType(t *testing.T) {
	if _, err := NewPageStore("", "", 0, "carrier-pigeon"); err == nil {
		t.Error("Expected error for unsupported store type")
	}
}
