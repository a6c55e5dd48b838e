package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory caches responses in process memory with TTL eviction
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a memory cache. cleanup controls how often expired
// entries are swept.
func NewMemory(defaultTTL, cleanup time.Duration) *Memory {
	return &Memory{store: gocache.New(defaultTTL, cleanup)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	if v, ok := m.store.Get(key); ok {
		return v.([]byte), true
	}
	return nil, false
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.store.Delete(key)
	return nil
}

func (m *Memory) Clear() error {
	m.store.Flush()
	return nil
}
