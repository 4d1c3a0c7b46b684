package group

import (
	"time"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// Group is a party of users planning one outing together. The aggregated
// preference vectors are derived from the current member set: membership
// changes recompute them inline, while a member preference change only sets
// PrefsStale and the next read rebuilds and persists them.
type Group struct {
	ID              string                `json:"id" bson:"_id,omitempty"`
	Name            string                `json:"groupname" bson:"groupname"`
	OwnerID         string                `json:"owner_id" bson:"owner_id"`
	MemberIDs       []string              `json:"member_ids" bson:"member_ids"`
	StartTime       time.Time             `json:"starttime" bson:"starttime"`
	EndTime         *time.Time            `json:"endtime,omitempty" bson:"endtime,omitempty"`
	IsActive        bool                  `json:"is_active" bson:"is_active"`
	FoodPreferences prefs.FoodPreferences `json:"food_preferences" bson:"food_preferences"`
	PlayPreferences prefs.PlayVector      `json:"play_preferences" bson:"play_preferences"`
	PrefsStale      bool                  `json:"-" bson:"prefs_stale"`
	CreatedAt       time.Time             `json:"created_at" bson:"created_at"`
}

// HasMember reports membership by user id.
func (g Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ScheduledActivity binds an activity snapshot to a concrete time slot.
// End is always strictly after Start.
type ScheduledActivity struct {
	ActivityID   string            `json:"activity_id" bson:"activity_id"`
	Name         string            `json:"name" bson:"name"`
	CategoryName string            `json:"category_name" bson:"category_name"`
	Location     *catalog.GeoPoint `json:"location,omitempty" bson:"location,omitempty"`
	StartTime    time.Time         `json:"start_time" bson:"start_time"`
	EndTime      time.Time         `json:"end_time" bson:"end_time"`
}

// Schedule is the confirmed itinerary of a group. Candidate schedules are
// transient; only the one the caller confirms is ever persisted.
type Schedule struct {
	ID         string              `json:"id" bson:"_id,omitempty"`
	GroupID    string              `json:"group_id" bson:"group_id"`
	Activities []ScheduledActivity `json:"scheduled_activities" bson:"scheduled_activities"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}
