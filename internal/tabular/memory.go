package tabular

import (
	"context"
	"sync"
)

// MemoryBackend keeps grids in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	tables map[string][][]string
	writes map[string]int
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		tables: make(map[string][][]string),
		writes: make(map[string]int),
	}
}

// ReadValues returns a copy of the stored grid.
func (m *MemoryBackend) ReadValues(ctx context.Context, table string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyGrid(m.tables[table]), nil
}

// WriteValues replaces the stored grid.
func (m *MemoryBackend) WriteValues(ctx context.Context, table string, values [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = copyGrid(values)
	m.writes[table]++
	return nil
}

// Set seeds a table with raw values, header included.
func (m *MemoryBackend) Set(table string, values [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = copyGrid(values)
}

// Writes returns how many times a table was written.
func (m *MemoryBackend) Writes(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[table]
}

func copyGrid(values [][]string) [][]string {
	if values == nil {
		return nil
	}
	out := make([][]string, len(values))
	for i, record := range values {
		out[i] = append([]string(nil), record...)
	}
	return out
}
