package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/playfriends/playfriends/internal/domain/catalog"
)

// CatalogRepository is an in-memory activity store used for dev and
// tests. It implements catalog.ActivityRepository; the category side of
// the same data is exposed through Categories().
type CatalogRepository struct {
	mu         sync.RWMutex
	activities map[string]catalog.Activity
	categories map[string]catalog.Category
	byName     map[string]string
	byCategory map[string][]string
}

// NewCatalogRepository constructs an empty repository.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		activities: make(map[string]catalog.Activity),
		categories: make(map[string]catalog.Category),
		byName:     make(map[string]string),
		byCategory: make(map[string][]string),
	}
}

// Categories returns a view of the same store implementing
// catalog.CategoryRepository.
func (r *CatalogRepository) Categories() *CategoryRepository {
	return &CategoryRepository{store: r}
}

// AddCategory seeds a category and returns it with its assigned id.
func (r *CatalogRepository) AddCategory(c catalog.Category) catalog.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.categories[c.ID] = c
	r.byName[c.Name] = c.ID
	return c
}

// AddActivity seeds an activity and returns it with its assigned id.
func (r *CatalogRepository) AddActivity(a catalog.Activity) catalog.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.activities[a.ID] = a
	r.byCategory[a.CategoryID] = append(r.byCategory[a.CategoryID], a.ID)
	return a
}

func (r *CatalogRepository) FindByCategory(_ context.Context, categoryID string) ([]catalog.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCategory[categoryID]
	out := make([]catalog.Activity, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.activities[id])
	}
	return out, nil
}

func (r *CatalogRepository) FindByID(_ context.Context, id string) (catalog.Activity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.activities[id]
	return a, ok, nil
}

func (r *CatalogRepository) SetPhotoKey(_ context.Context, id, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.activities[id]; ok {
		a.PhotoKey = key
		r.activities[id] = a
	}
	return nil
}

// CategoryRepository exposes the category tree of a CatalogRepository.
type CategoryRepository struct {
	store *CatalogRepository
}

func (r *CategoryRepository) FindByID(_ context.Context, id string) (catalog.Category, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.categories[id]
	return c, ok, nil
}

func (r *CategoryRepository) FindByName(_ context.Context, name string) (catalog.Category, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.byName[name]
	if !ok {
		return catalog.Category{}, false, nil
	}
	c, ok := r.store.categories[id]
	return c, ok, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]catalog.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]catalog.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
