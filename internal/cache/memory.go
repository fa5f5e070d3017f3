package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Memory is an in-process store backed by ristretto; cost is the payload size.
type Memory struct {
	cache *ristretto.Cache[string, []byte]

	mu   sync.RWMutex
	gens map[string]int64
}

// NewMemory creates a store bounded to maxBytes of cached payloads.
func NewMemory(maxBytes int64) (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{cache: c, gens: make(map[string]int64)}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	return m.cache.Get(key)
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	m.cache.SetWithTTL(key, value, cost, ttl)
	m.cache.Wait()
}

func (m *Memory) Generation(_ context.Context, entity string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gens[entity]
}

func (m *Memory) Invalidate(_ context.Context, entities ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entities {
		m.gens[e]++
	}
	return nil
}

func (m *Memory) Close() error {
	m.cache.Close()
	return nil
}
