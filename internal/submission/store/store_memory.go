package store

import (
	"context"
	"sync"

	"github.com/rgckd/hc-self-service-portal/internal/submission"
)

// MemoryStore keeps submissions in memory. The mutex serializes appends so
// concurrent submissions never interleave.
type MemoryStore struct {
	mu      sync.Mutex
	records []submission.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, record submission.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// List returns a copy of all recorded submissions in append order.
func (s *MemoryStore) List() []submission.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]submission.Record{}, s.records...)
}
