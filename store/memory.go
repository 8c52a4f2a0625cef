package store

import (
	"context"
	"sort"
	"sync"

	"coastwatch/types"
)

// MemoryStore keeps everything in process memory behind a mutex.
type MemoryStore struct {
	mu         sync.RWMutex
	posts      map[string]types.ClassifiedPost
	candidates map[string]types.HotspotCandidate
	batches    map[string]types.BatchRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:      make(map[string]types.ClassifiedPost),
		candidates: make(map[string]types.HotspotCandidate),
		batches:    make(map[string]types.BatchRun),
	}
}

func (m *MemoryStore) SavePosts(_ context.Context, posts []types.ClassifiedPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return nil
}

func (m *MemoryStore) PostCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.posts)
}

func (m *MemoryStore) LoadOpenCandidates(_ context.Context) ([]types.HotspotCandidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var open []types.HotspotCandidate
	for _, c := range m.candidates {
		if c.Status == types.Pending {
			open = append(open, c)
		}
	}
	// Map iteration order is random; callers expect a stable list.
	sort.Slice(open, func(i, j int) bool { return open[i].ID < open[j].ID })
	return open, nil
}

func (m *MemoryStore) GetCandidate(_ context.Context, id string) (types.HotspotCandidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.candidates[id]
	if !ok {
		return types.HotspotCandidate{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryStore) SaveCandidate(_ context.Context, c types.HotspotCandidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates[c.ID] = c
	return nil
}

func (m *MemoryStore) SaveCandidates(ctx context.Context, cs []types.HotspotCandidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cs {
		m.candidates[c.ID] = c
	}
	return nil
}

func (m *MemoryStore) SaveBatchRun(_ context.Context, run types.BatchRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[run.ID] = run
	return nil
}

func (m *MemoryStore) RecentBatchRuns(_ context.Context, limit int) ([]types.BatchRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := make([]types.BatchRun, 0, len(m.batches))
	for _, r := range m.batches {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
