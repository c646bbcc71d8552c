package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	hits    int
	resetAt time.Time
}

// MemoryStore keeps counters in a map guarded by a mutex.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]window)}
}

func (m *MemoryStore) Incr(_ context.Context, bucket string, now time.Time, d time.Duration) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.buckets[bucket]
	if !ok || !now.Before(w.resetAt) {
		w = window{resetAt: now.Add(d)}
	}
	w.hits++
	m.buckets[bucket] = w
	return w.hits, w.resetAt, nil
}

// Cleanup drops windows that ended before now and returns how many were removed.
func (m *MemoryStore) Cleanup(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, w := range m.buckets {
		if !now.Before(w.resetAt) {
			delete(m.buckets, k)
			n++
		}
	}
	return n
}

// Len is the number of tracked buckets.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

// RunJanitor calls Cleanup every interval until ctx is done.
func (m *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.Cleanup(now)
		}
	}
}
