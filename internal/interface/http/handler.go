package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playfriends/playfriends/internal/domain/auth"
	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/domain/planner"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc    auth.Service
	groupSvc   group.Service
	plannerSvc planner.Service
	catalogSvc catalog.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(authSvc auth.Service, groupSvc group.Service, plannerSvc planner.Service, catalogSvc catalog.Service, logger *slog.Logger) *Handler {
	return &Handler{
		authSvc:    authSvc,
		groupSvc:   groupSvc,
		plannerSvc: plannerSvc,
		catalogSvc: catalogSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "register_failed"))
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Login exchanges credentials for a signed token.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "login_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GoogleAuthURL starts the Google sign-in flow.
func (h *Handler) GoogleAuthURL(c *gin.Context) {
	state, err := newOAuthState()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "oauth_state_failed", "could not create oauth state", err))
		return
	}
	url, err := h.authSvc.GoogleAuthURL(c.Request.Context(), state)
	if err != nil {
		abortWithError(c, domainError(err, "google_auth_failed"))
		return
	}
	setOAuthStateCookie(c, state)
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GoogleCallback completes the Google sign-in flow.
func (h *Handler) GoogleCallback(c *gin.Context) {
	expected, ok := readOAuthStateCookie(c)
	if !ok || c.Query("state") != expected {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_oauth_state", "oauth state mismatch", nil))
		return
	}
	clearOAuthStateCookie(c)

	code := c.Query("code")
	if code == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing authorization code", nil))
		return
	}
	resp, err := h.authSvc.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		abortWithError(c, domainError(err, "google_auth_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, domainError(err, "profile_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdatePreferences replaces the caller's stored preference vectors.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	var update auth.PreferencesUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.authSvc.UpdatePreferences(c.Request.Context(), claims.UserID, update)
	if err != nil {
		abortWithError(c, domainError(err, "preferences_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// MyGroups lists the groups the caller belongs to.
func (h *Handler) MyGroups(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	groups, err := h.groupSvc.ListByMember(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, domainError(err, "groups_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// domainError translates application error codes into HTTP metadata.
func domainError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		status = http.StatusBadRequest
		code = apperrors.CodeInvalidInput
	case apperrors.IsCode(err, apperrors.CodeInvalidState):
		status = http.StatusUnprocessableEntity
		code = apperrors.CodeInvalidState
	case apperrors.IsCode(err, apperrors.CodeNotFound):
		status = http.StatusNotFound
		code = apperrors.CodeNotFound
	case apperrors.IsCode(err, apperrors.CodeConflict):
		status = http.StatusConflict
		code = apperrors.CodeConflict
	case apperrors.IsCode(err, apperrors.CodeForbidden):
		status = http.StatusForbidden
		code = apperrors.CodeForbidden
	case apperrors.IsCode(err, apperrors.CodeInvalidToken):
		status = http.StatusUnauthorized
		code = apperrors.CodeInvalidToken
	case apperrors.IsCode(err, apperrors.CodeAuth):
		status = http.StatusUnauthorized
		code = apperrors.CodeAuth
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
