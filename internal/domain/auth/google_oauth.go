package auth

import (
	"context"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/playfriends/playfriends/internal/domain/prefs"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
	"github.com/playfriends/playfriends/pkg/util"
)

const (
	googleUserIDPrefix = "google:"
	googleIssuerURL    = "https://accounts.google.com"
)

type googleClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (s *service) GoogleAuthURL(_ context.Context, state string) (string, error) {
	cfg, err := s.googleOAuthConfig()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(state) == "" {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "oauth state cannot be empty", nil)
	}
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

func (s *service) GoogleCallback(ctx context.Context, code string) (LoginResponse, error) {
	cfg, err := s.googleOAuthConfig()
	if err != nil {
		return LoginResponse{}, err
	}
	if strings.TrimSpace(code) == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "missing oauth code", nil)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeAuth, "failed to exchange oauth code", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeAuth, "oauth response carries no id token", nil)
	}

	provider, err := oidc.NewProvider(ctx, googleIssuerURL)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeAuth, "failed to reach google oidc provider", err)
	}
	idToken, err := provider.Verifier(&oidc.Config{ClientID: s.cfg.Google.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidToken, "google id token verification failed", err)
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeAuth, "failed to decode google claims", err)
	}
	if !claims.EmailVerified {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeForbidden, "google account email is not verified", nil)
	}

	user, err := s.findOrCreateGoogleUser(ctx, claims)
	if err != nil {
		return LoginResponse{}, err
	}
	return s.issueToken(user, s.cfg.TokenTTL)
}

func (s *service) findOrCreateGoogleUser(ctx context.Context, claims googleClaims) (User, error) {
	userid := googleUserIDPrefix + claims.Subject
	user, found, err := s.repo.GetByUserID(ctx, userid)
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeStorage, "user lookup failed", err)
	}
	if found {
		return user, nil
	}

	username := strings.TrimSpace(claims.Name)
	if username == "" {
		username = claims.Email
	}
	created, err := s.repo.Create(ctx, User{
		UserID:          userid,
		Username:        username,
		IsActive:        true,
		FoodPreferences: prefs.DefaultFoodPreferences(),
		PlayPreferences: prefs.PlayVector{},
		CreatedAt:       util.NowUTC(),
	})
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeStorage, "failed to create google user", err)
	}
	s.logger.Info("google user created", "user_id", created.ID)
	return created, nil
}

func (s *service) googleOAuthConfig() (*oauth2.Config, error) {
	g := s.cfg.Google
	if g.ClientID == "" || g.ClientSecret == "" || g.RedirectURL == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidState, "google sign-in is not configured", nil)
	}
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}, nil
}
