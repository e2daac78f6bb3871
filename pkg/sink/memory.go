package sink

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps the records of a run in memory.
type Memory struct {
	mu         sync.RWMutex
	assembly   *AssemblyRecord
	components map[int]*ComponentRecord
	order      []int // Ranks in write order
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{components: make(map[int]*ComponentRecord)}
}

// WriteComponent stores the record, replacing one of the same rank.
func (m *Memory) WriteComponent(ctx context.Context, rec *ComponentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.components[rec.Rank]; !ok {
		m.order = append(m.order, rec.Rank)
	}
	m.components[rec.Rank] = rec
	return nil
}

// WriteAssembly stores the assembly record.
func (m *Memory) WriteAssembly(ctx context.Context, rec *AssemblyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assembly = rec
	return nil
}

// Close does nothing.
func (m *Memory) Close() error { return nil }

// WriteOrder returns the ranks in the order they were first written.
func (m *Memory) WriteOrder() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Assembly returns the stored assembly record.
func (m *Memory) Assembly(ctx context.Context) (*AssemblyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.assembly == nil {
		return nil, ErrNotFound
	}
	return m.assembly, nil
}

// Components returns component summaries in rank order.
func (m *Memory) Components(ctx context.Context) ([]ComponentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ComponentRecord, 0, len(m.components))
	for _, rec := range m.components {
		out = append(out, rec.Summary())
	}
	slices.SortFunc(out, func(a, b ComponentRecord) int { return a.Rank - b.Rank })
	return out, nil
}

// Component returns the full record of one component.
func (m *Memory) Component(ctx context.Context, rank int) (*ComponentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.components[rank]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

var (
	_ Sink   = (*Memory)(nil)
	_ Reader = (*Memory)(nil)
)
