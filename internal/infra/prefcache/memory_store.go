package prefcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/domain/planner"
)

// MemoryStore keeps recommendation counts and group snapshots in process.
// Used when no Valkey instance is configured and in tests.
type MemoryStore struct {
	mu        sync.Mutex
	counts    map[string]int64
	snapshots map[string]cachedSnapshot
}

type cachedSnapshot struct {
	g       group.Group
	expires time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts:    make(map[string]int64),
		snapshots: make(map[string]cachedSnapshot),
	}
}

func (s *MemoryStore) IncrementCategory(_ context.Context, name string) error {
	if name == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[name]++
	return nil
}

func (s *MemoryStore) TopCategories(_ context.Context, limit int) ([]planner.TrendingCategory, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]planner.TrendingCategory, 0, len(s.counts))
	for name, count := range s.counts {
		out = append(out, planner.TrendingCategory{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) GetSnapshot(_ context.Context, groupID string) (group.Group, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.snapshots[groupID]
	if !ok {
		return group.Group{}, false, nil
	}
	if time.Now().After(entry.expires) {
		delete(s.snapshots, groupID)
		return group.Group{}, false, nil
	}
	return entry.g, true, nil
}

func (s *MemoryStore) SetSnapshot(_ context.Context, g group.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[g.ID] = cachedSnapshot{g: g, expires: time.Now().Add(snapshotTTL)}
	return nil
}

func (s *MemoryStore) InvalidateSnapshot(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, groupID)
	return nil
}

var (
	_ planner.TrendingStore = (*MemoryStore)(nil)
	_ group.SnapshotCache   = (*MemoryStore)(nil)
)
