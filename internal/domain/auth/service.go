package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/playfriends/playfriends/internal/domain/prefs"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
	"github.com/playfriends/playfriends/pkg/util"
)

// Service exposes authentication and account workflows.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserView, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
	Profile(ctx context.Context, userID string) (UserView, error)
	UpdatePreferences(ctx context.Context, userID string, update PreferencesUpdate) (UserView, error)
	GoogleAuthURL(ctx context.Context, state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (LoginResponse, error)
}

type service struct {
	cfg    Config
	repo   Repository
	fanout PreferenceFanout
	logger *slog.Logger
}

// NewService constructs a Service instance. fanout may be nil in contexts
// without groups (tests).
func NewService(cfg Config, repo Repository, fanout PreferenceFanout, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		fanout: fanout,
		logger: logger.With("component", "auth.service"),
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserView, error) {
	userid := strings.TrimSpace(req.UserID)
	if userid == "" {
		return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, "userid cannot be empty", nil)
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, "username cannot be empty", nil)
	}
	if err := validatePassword(req.Password); err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}

	if _, exists, err := s.repo.GetByUserID(ctx, userid); err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeStorage, "user lookup failed", err)
	} else if exists {
		return UserView{}, apperrors.Wrap(apperrors.CodeConflict, "userid already registered", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeAuth, "failed to hash password", err)
	}

	user, err := s.repo.Create(ctx, User{
		UserID:          userid,
		Username:        username,
		PasswordHash:    string(hashed),
		IsActive:        true,
		FoodPreferences: prefs.DefaultFoodPreferences(),
		PlayPreferences: prefs.PlayVector{},
		CreatedAt:       util.NowUTC(),
	})
	if err != nil {
		if err == ErrUserIDTaken {
			return UserView{}, apperrors.Wrap(apperrors.CodeConflict, "userid already registered", err)
		}
		return UserView{}, apperrors.Wrap(apperrors.CodeStorage, "failed to create user", err)
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return toView(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, found, err := s.repo.GetByUserID(ctx, strings.TrimSpace(req.UserID))
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeStorage, "user lookup failed", err)
	}
	if !found || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidToken, "incorrect userid or password", nil)
	}

	ttl := s.cfg.TokenTTL
	if req.AutoLogin {
		ttl = s.cfg.AutoLoginTTL
	}
	return s.issueToken(user, ttl)
}

func (s *service) ValidateToken(_ context.Context, token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "invalid or expired token", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token carries no subject", nil)
	}
	return Claims{UserID: claims.Subject}, nil
}

func (s *service) Profile(ctx context.Context, userID string) (UserView, error) {
	user, found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeStorage, "user lookup failed", err)
	}
	if !found {
		return UserView{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", nil)
	}
	return toView(user), nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID string, update PreferencesUpdate) (UserView, error) {
	if err := update.FoodPreferences.Validate(); err != nil {
		return UserView{}, err
	}
	if err := update.PlayPreferences.Validate(); err != nil {
		return UserView{}, err
	}

	user, found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeStorage, "user lookup failed", err)
	}
	if !found {
		return UserView{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", nil)
	}

	if err := s.repo.UpdatePreferences(ctx, userID, update.FoodPreferences, update.PlayPreferences); err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeStorage, "preference update failed", err)
	}
	user.FoodPreferences = update.FoodPreferences
	user.PlayPreferences = update.PlayPreferences

	if s.fanout != nil {
		if err := s.fanout.MarkStaleForMember(ctx, userID); err != nil {
			return UserView{}, err
		}
	}
	s.logger.Info("preferences updated", "user_id", userID)
	return toView(user), nil
}

func (s *service) issueToken(user User, ttl time.Duration) (LoginResponse, error) {
	now := util.NowUTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeAuth, "failed to sign token", err)
	}
	return LoginResponse{AccessToken: signed, TokenType: "bearer", User: toView(user)}, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain letters and digits")
	}
	return nil
}
