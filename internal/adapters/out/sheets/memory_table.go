package sheets

import (
	"context"
	"slices"
	"sync"

	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/pkg/errs"
)

// MemoryTable keeps the mirror in process memory. It stands in for the spreadsheet when none is
// configured, e.g. in local runs.
type MemoryTable struct {
	mu    sync.RWMutex
	views map[ports.MirrorView][]ports.MirrorRow
}

func NewMemoryTable() *MemoryTable {
	return &MemoryTable{views: make(map[ports.MirrorView][]ports.MirrorRow)}
}

func (m *MemoryTable) List(_ context.Context, view ports.MirrorView) ([]ports.MirrorRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.views[view]), nil
}

func (m *MemoryTable) Append(_ context.Context, view ports.MirrorView, rows ...ports.MirrorRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[view] = append(m.views[view], rows...)
	return nil
}

func (m *MemoryTable) Update(_ context.Context, view ports.MirrorView, row ports.MirrorRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.views[view], func(r ports.MirrorRow) bool { return r.SystemID == row.SystemID })
	if i < 0 {
		return errs.NewObjectNotFoundError("systemId", row.SystemID)
	}
	m.views[view][i] = row
	return nil
}

func (m *MemoryTable) Delete(_ context.Context, view ports.MirrorView, systemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[view] = slices.DeleteFunc(m.views[view], func(r ports.MirrorRow) bool { return r.SystemID == systemID })
	return nil
}

func (m *MemoryTable) Replace(_ context.Context, view ports.MirrorView, rows []ports.MirrorRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[view] = slices.Clone(rows)
	return nil
}
