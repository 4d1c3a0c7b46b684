package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/playfriends/playfriends/internal/domain/auth"
	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// UserRepository is an in-memory auth.Repository used for dev/tests.
type UserRepository struct {
	mu       sync.RWMutex
	users    map[string]auth.User
	byUserID map[string]string
}

// NewUserRepository constructs the repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:    make(map[string]auth.User),
		byUserID: make(map[string]string),
	}
}

// Create implements auth.Repository.
func (r *UserRepository) Create(_ context.Context, u auth.User) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byUserID[u.UserID]; taken {
		return auth.User{}, auth.ErrUserIDTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.users[u.ID] = u
	r.byUserID[u.UserID] = u.ID
	return u, nil
}

// GetByID implements auth.Repository.
func (r *UserRepository) GetByID(_ context.Context, id string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok, nil
}

// GetByUserID implements auth.Repository.
func (r *UserRepository) GetByUserID(_ context.Context, userid string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUserID[userid]
	if !ok {
		return auth.User{}, false, nil
	}
	u, ok := r.users[id]
	return u, ok, nil
}

// UpdatePreferences implements auth.Repository.
func (r *UserRepository) UpdatePreferences(_ context.Context, id string, food prefs.FoodPreferences, play prefs.PlayVector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	u.FoodPreferences = food
	u.PlayPreferences = play
	r.users[id] = u
	return nil
}
