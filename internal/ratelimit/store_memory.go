package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowEntry struct {
	count int64
	start time.Time
}

// MemoryStore is the single-replica fixed-window store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.start) >= window {
		entry = &windowEntry{start: now}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, nil
}
