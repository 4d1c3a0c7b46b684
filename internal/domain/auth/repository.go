package auth

import (
	"context"
	"errors"

	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// ErrUserIDTaken is returned by Create on a userid uniqueness violation.
var ErrUserIDTaken = errors.New("userid already taken")

// Repository persists user accounts.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, bool, error)
	GetByUserID(ctx context.Context, userid string) (User, bool, error)
	UpdatePreferences(ctx context.Context, id string, food prefs.FoodPreferences, play prefs.PlayVector) error
}

// PreferenceFanout is notified after a member's stored preferences change so
// every group containing the member knows its aggregated vectors are stale.
type PreferenceFanout interface {
	MarkStaleForMember(ctx context.Context, userID string) error
}
