package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/rgckd/hc-self-service-portal/pkg/platform/sentinel"
)

// MemorySource is an in-memory Source for tests and local development.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[string][][]string
	sheets map[string][][]string

	// Err, when set, is returned by every read. Simulates an unreachable host.
	Err error
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		tables: make(map[string][][]string),
		sheets: make(map[string][][]string),
	}
}

// SetTable replaces the rows of the named catalog tab.
func (s *MemorySource) SetTable(name string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = rows
}

// SetSheet replaces the rows of the document with the given identifier.
func (s *MemorySource) SetSheet(id string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[id] = rows
}

func (s *MemorySource) ReadTable(_ context.Context, name string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rows, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", name, sentinel.ErrNotFound)
	}
	return copyRows(rows), nil
}

func (s *MemorySource) ReadFirstSheet(_ context.Context, id string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rows, ok := s.sheets[id]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", id, sentinel.ErrNotFound)
	}
	return copyRows(rows), nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string{}, row...)
	}
	return out
}
