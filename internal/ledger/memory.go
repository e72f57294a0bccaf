package ledger

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory Ledger for tests and dry runs.
type Memory struct {
	mu        sync.Mutex
	marked    map[Kind]map[string]bool
	manifests map[string]Manifest
}

func NewMemory() *Memory {
	return &Memory{
		marked:    make(map[Kind]map[string]bool),
		manifests: make(map[string]Manifest),
	}
}

func (m *Memory) IsDownloaded(ctx context.Context, kind Kind, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.marked[kind][id], nil
}

func (m *Memory) MarkDownloaded(ctx context.Context, kind Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.marked[kind] == nil {
		m.marked[kind] = make(map[string]bool)
	}
	m.marked[kind][id] = true
	return nil
}

func (m *Memory) Downloaded(ctx context.Context, kind Kind) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id := range m.marked[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) SaveManifest(ctx context.Context, id string, mf Manifest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifests[id] = mf
	return nil
}

func (m *Memory) Manifest(ctx context.Context, id string) (Manifest, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mf, ok := m.manifests[id]
	return mf, ok, nil
}
