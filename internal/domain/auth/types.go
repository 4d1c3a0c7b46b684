package auth

import (
	"time"

	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// Config drives authentication behavior.
type Config struct {
	Secret string
	// TokenTTL applies to regular logins, AutoLoginTTL when the client
	// asks to stay signed in.
	TokenTTL     time.Duration
	AutoLoginTTL time.Duration
	Google       GoogleConfig
}

// GoogleConfig holds OAuth settings for Google sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// User represents a persisted account with its stored taste vectors.
type User struct {
	ID              string                `json:"id" bson:"_id,omitempty"`
	UserID          string                `json:"userid" bson:"userid"`
	Username        string                `json:"username" bson:"username"`
	PasswordHash    string                `json:"-" bson:"hashed_password"`
	IsActive        bool                  `json:"is_active" bson:"is_active"`
	FoodPreferences prefs.FoodPreferences `json:"food_preferences" bson:"food_preferences"`
	PlayPreferences prefs.PlayVector      `json:"play_preferences" bson:"play_preferences"`
	CreatedAt       time.Time             `json:"created_at" bson:"created_at"`
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	UserID   string `json:"userid"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest captures login details.
type LoginRequest struct {
	UserID    string `json:"userid"`
	Password  string `json:"password"`
	AutoLogin bool   `json:"auto_login"`
}

// LoginResponse returns the signed token.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserView `json:"user"`
}

// UserView trims sensitive fields for API responses.
type UserView struct {
	ID              string                `json:"id"`
	UserID          string                `json:"userid"`
	Username        string                `json:"username"`
	IsActive        bool                  `json:"is_active"`
	FoodPreferences prefs.FoodPreferences `json:"food_preferences"`
	PlayPreferences prefs.PlayVector      `json:"play_preferences"`
}

// Claims is the validated token payload handed to the HTTP layer.
type Claims struct {
	UserID string
}

// PreferencesUpdate carries a full replacement of both preference families.
type PreferencesUpdate struct {
	FoodPreferences prefs.FoodPreferences `json:"food_preferences"`
	PlayPreferences prefs.PlayVector      `json:"play_preferences"`
}

func toView(u User) UserView {
	return UserView{
		ID:              u.ID,
		UserID:          u.UserID,
		Username:        u.Username,
		IsActive:        u.IsActive,
		FoodPreferences: u.FoodPreferences,
		PlayPreferences: u.PlayPreferences,
	}
}
