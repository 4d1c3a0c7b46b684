package group

import (
	"context"
	"time"

	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// Repository persists groups and their confirmed schedules.
type Repository interface {
	Create(ctx context.Context, g Group) (Group, error)
	Get(ctx context.Context, id string) (Group, bool, error)
	List(ctx context.Context) ([]Group, error)
	ListByMember(ctx context.Context, userID string) ([]Group, error)
	Update(ctx context.Context, g Group) error
	Delete(ctx context.Context, id string) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)

	SaveSchedule(ctx context.Context, s Schedule) (Schedule, error)
	GetSchedule(ctx context.Context, groupID string) (Schedule, bool, error)
}

// MemberDirectory is the slice of the user store the group domain needs:
// existence checks and stored preference vectors for aggregation.
type MemberDirectory interface {
	MemberExists(ctx context.Context, userID string) (bool, error)
	MemberPreferences(ctx context.Context, userID string) (prefs.FoodPreferences, prefs.PlayVector, error)
}

// SnapshotCache holds recently served group snapshots so repeated planner
// reads skip the repository. Strictly best-effort: errors are logged and
// never fail a request, and every group mutation invalidates the entry.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, groupID string) (Group, bool, error)
	SetSnapshot(ctx context.Context, g Group) error
	InvalidateSnapshot(ctx context.Context, groupID string) error
}
