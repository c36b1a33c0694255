package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means never
}

// InMemory is a process-wide map cache shared across sessions.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewInMemory(ttl time.Duration) *InMemory {
	return &InMemory{entries: make(map[string]entry), ttl: ttl}
}

func (c *InMemory) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *InMemory) Set(_ context.Context, key, value string) error {
	e := entry{value: value}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}
