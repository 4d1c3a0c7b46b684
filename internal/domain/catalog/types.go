package catalog

import (
	"fmt"

	"github.com/playfriends/playfriends/internal/domain/prefs"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

// ActivityType tags an activity (and its category) as a meal or an outing.
type ActivityType string

const (
	TypeFood ActivityType = "FOOD"
	TypePlay ActivityType = "PLAY"
)

// GeoPoint is an optional WGS84 location, GeoJSON field order (lon, lat).
type GeoPoint struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

// Activity is immutable reference data: a concrete venue or thing to do.
// Exactly one attribute payload is populated, matching the activity type.
type Activity struct {
	ID             string                `json:"id" bson:"_id,omitempty"`
	Name           string                `json:"name" bson:"name"`
	Type           ActivityType          `json:"type" bson:"type"`
	CategoryID     string                `json:"category_id" bson:"category_id"`
	Location       *GeoPoint             `json:"location,omitempty" bson:"location,omitempty"`
	PhotoKey       string                `json:"photo_key,omitempty" bson:"photo_key,omitempty"`
	FoodAttributes *prefs.FoodAttributes `json:"food_attributes,omitempty" bson:"food_attributes,omitempty"`
	PlayAttributes *prefs.PlayVector     `json:"play_attributes,omitempty" bson:"play_attributes,omitempty"`
}

// Validate enforces the type/payload contract. A violation means corrupt
// reference data and is surfaced as a data-integrity fault, never worked
// around.
func (a Activity) Validate() error {
	switch a.Type {
	case TypeFood:
		if a.FoodAttributes == nil || a.PlayAttributes != nil {
			return apperrors.Wrap(apperrors.CodeDataFault,
				fmt.Sprintf("food activity %q must carry exactly a food attribute payload", a.Name), nil)
		}
	case TypePlay:
		if a.PlayAttributes == nil || a.FoodAttributes != nil {
			return apperrors.Wrap(apperrors.CodeDataFault,
				fmt.Sprintf("play activity %q must carry exactly a play attribute payload", a.Name), nil)
		}
	default:
		return apperrors.Wrap(apperrors.CodeDataFault,
			fmt.Sprintf("activity %q has unknown type %q", a.Name, a.Type), nil)
	}
	return nil
}

// Category is a node of the category tree. ParentID is empty for roots; a
// category is never its own ancestor. PlayAttributes, when present, is the
// aggregated play profile of the category's activities and drives category
// recommendation.
type Category struct {
	ID             string            `json:"id" bson:"_id,omitempty"`
	Name           string            `json:"name" bson:"name"`
	Type           ActivityType      `json:"type" bson:"type"`
	ParentID       string            `json:"parent_category_id,omitempty" bson:"parent_category_id,omitempty"`
	PlayAttributes *prefs.PlayVector `json:"play_attributes,omitempty" bson:"play_attributes,omitempty"`
}
