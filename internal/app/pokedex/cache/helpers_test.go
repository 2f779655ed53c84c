package cache

import (
	"context"
	"sync"
	"time"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recordingStore 记录每次调用，并可注入错误
type recordingStore struct {
	inner   Store
	gets    int
	sets    int
	lastKey string
	lastExp time.Time
	getErr  error
	setErr  error
}

func (r *recordingStore) Get(ctx context.Context, key string) ([]byte, error) {
	r.gets++
	r.lastKey = key
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.inner.Get(ctx, key)
}

func (r *recordingStore) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	r.sets++
	r.lastKey = key
	r.lastExp = expiresAt
	if r.setErr != nil {
		return r.setErr
	}
	return r.inner.Set(ctx, key, value, expiresAt)
}

// putRaw 绕过 Set 直接写入原始字节，用来制造损坏的条目
func (m *MemoryStore) putRaw(key string, value []byte, expiresAt time.Time) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	m.mu.Unlock()
}

// size 返回当前条目数（含尚未惰性清理的过期条目）
func (m *MemoryStore) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func strPtr(s string) *string { return &s }
