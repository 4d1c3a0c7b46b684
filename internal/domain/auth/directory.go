package auth

import (
	"context"
	"fmt"

	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// Directory adapts the user repository to the group domain's member
// directory contract.
type Directory struct {
	repo Repository
}

// NewDirectory constructs the adapter.
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// MemberExists reports whether the user id resolves to an account.
func (d *Directory) MemberExists(ctx context.Context, userID string) (bool, error) {
	_, found, err := d.repo.GetByID(ctx, userID)
	return found, err
}

// MemberPreferences returns the stored taste vectors of a member.
func (d *Directory) MemberPreferences(ctx context.Context, userID string) (prefs.FoodPreferences, prefs.PlayVector, error) {
	user, found, err := d.repo.GetByID(ctx, userID)
	if err != nil {
		return prefs.FoodPreferences{}, prefs.PlayVector{}, err
	}
	if !found {
		return prefs.FoodPreferences{}, prefs.PlayVector{}, fmt.Errorf("member %s not found", userID)
	}
	return user.FoodPreferences, user.PlayPreferences, nil
}
