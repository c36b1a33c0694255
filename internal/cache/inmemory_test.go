package cache

import (
	"context"
	"testing"
	"time"

	"github.com/codebyNJ/AIResearch-Agent/config"
)

func TestInMemoryGetSet(t *testing.T) {
	c := NewInMemory(0)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("empty cache Get = ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "https://example.com", "# Page"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := c.Get(ctx, "https://example.com")
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if v != "# Page" {
		t.Fatalf("Get = %q", v)
	}
}

func TestInMemoryTTLExpiry(t *testing.T) {
	c := NewInMemory(time.Millisecond)
	ctx := context.Background()
	_ = c.Set(ctx, "k", "v")
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestNewFactory(t *testing.T) {
	c, err := New(config.CacheConfig{Type: "inmemory"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.(*InMemory); !ok {
		t.Fatalf("New returned %T, want *InMemory", c)
	}

	if _, err := New(config.CacheConfig{Type: "memcached"}); err == nil {
		t.Fatal("expected error for unsupported cache type")
	}
}
