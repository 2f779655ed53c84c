package cache

import (
	"context"
	"sync"
	"time"

	"pokedex.local/internal/app/pokedex"
	"pokedex.local/internal/platform/metrics"
)

// MemoryStore 是基于 map 的确定性存储，过期判断使用注入的时钟。
// 主要给测试用，也可以通过 CACHE_BACKEND=map 在单实例下运行。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   pokedex.Clock
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryStore(clock pokedex.Clock) *MemoryStore {
	if clock == nil {
		clock = pokedex.SystemClock{}
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		metrics.CacheOperations.WithLabelValues("memory", "miss").Inc()
		return nil, nil
	}
	if !m.clock.Now().Before(entry.expiresAt) {
		// 惰性清理
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		metrics.CacheOperations.WithLabelValues("memory", "miss").Inc()
		return nil, nil
	}
	metrics.CacheOperations.WithLabelValues("memory", "hit").Inc()
	return entry.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, expiresAt time.Time) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	m.mu.Lock()
	m.entries[key] = memoryEntry{value: buf, expiresAt: expiresAt}
	m.mu.Unlock()
	metrics.CacheOperations.WithLabelValues("memory", "set").Inc()
	return nil
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}
