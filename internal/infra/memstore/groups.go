package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playfriends/playfriends/internal/domain/group"
)

// GroupRepository is an in-memory group.Repository used for dev/tests.
type GroupRepository struct {
	mu        sync.RWMutex
	groups    map[string]group.Group
	schedules map[string]group.Schedule // keyed by group id
}

// NewGroupRepository constructs the repository.
func NewGroupRepository() *GroupRepository {
	return &GroupRepository{
		groups:    make(map[string]group.Group),
		schedules: make(map[string]group.Schedule),
	}
}

// Create implements group.Repository.
func (r *GroupRepository) Create(_ context.Context, g group.Group) (group.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	r.groups[g.ID] = g
	return g, nil
}

// Get implements group.Repository.
func (r *GroupRepository) Get(_ context.Context, id string) (group.Group, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[id]
	return g, ok, nil
}

// List implements group.Repository.
func (r *GroupRepository) List(_ context.Context) ([]group.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]group.Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListByMember implements group.Repository.
func (r *GroupRepository) ListByMember(_ context.Context, userID string) ([]group.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []group.Group
	for _, g := range r.groups {
		if g.HasMember(userID) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Update implements group.Repository.
func (r *GroupRepository) Update(_ context.Context, g group.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[g.ID]; ok {
		r.groups[g.ID] = g
	}
	return nil
}

// Delete implements group.Repository.
func (r *GroupRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, id)
	delete(r.schedules, id)
	return nil
}

// DeactivateExpired implements group.Repository.
func (r *GroupRepository) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, g := range r.groups {
		if !g.IsActive {
			continue
		}
		expired := (g.EndTime != nil && g.EndTime.Before(now)) ||
			(g.EndTime == nil && g.StartTime.Before(now))
		if expired {
			g.IsActive = false
			r.groups[id] = g
			count++
		}
	}
	return count, nil
}

// SaveSchedule implements group.Repository.
func (r *GroupRepository) SaveSchedule(_ context.Context, s group.Schedule) (group.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.schedules[s.GroupID] = s
	return s, nil
}

// GetSchedule implements group.Repository.
func (r *GroupRepository) GetSchedule(_ context.Context, groupID string) (group.Schedule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schedules[groupID]
	return s, ok, nil
}
