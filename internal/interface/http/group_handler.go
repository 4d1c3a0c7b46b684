package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playfriends/playfriends/internal/domain/group"
)

// CreateGroup opens a new group owned by the caller.
func (h *Handler) CreateGroup(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	var req group.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	g, err := h.groupSvc.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		abortWithError(c, domainError(err, "group_create_failed"))
		return
	}
	c.JSON(http.StatusCreated, g)
}

// ListGroups returns every group.
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groupSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "groups_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetGroup returns one group by id.
func (h *Handler) GetGroup(c *gin.Context) {
	g, err := h.groupSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err, "group_failed"))
		return
	}
	c.JSON(http.StatusOK, g)
}

// UpdateGroup applies owner-only edits.
func (h *Handler) UpdateGroup(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	var req group.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	g, err := h.groupSvc.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		abortWithError(c, domainError(err, "group_update_failed"))
		return
	}
	c.JSON(http.StatusOK, g)
}

// DeleteGroup removes a group. Owner only.
func (h *Handler) DeleteGroup(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	if err := h.groupSvc.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		abortWithError(c, domainError(err, "group_delete_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// JoinGroup adds the caller to a group.
func (h *Handler) JoinGroup(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	if err := h.groupSvc.Join(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		abortWithError(c, domainError(err, "group_join_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": true})
}

// LeaveGroup removes the caller from a group.
func (h *Handler) LeaveGroup(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	if err := h.groupSvc.Leave(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		abortWithError(c, domainError(err, "group_leave_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}

type confirmScheduleRequest struct {
	Activities []group.ScheduledActivity `json:"scheduled_activities"`
}

// ConfirmSchedule persists the one schedule the group settles on.
func (h *Handler) ConfirmSchedule(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}
	var req confirmScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	s, err := h.groupSvc.ConfirmSchedule(c.Request.Context(), claims.UserID, c.Param("id"), req.Activities)
	if err != nil {
		abortWithError(c, domainError(err, "schedule_confirm_failed"))
		return
	}
	c.JSON(http.StatusCreated, s)
}

// ConfirmedSchedule returns a group's confirmed schedule.
func (h *Handler) ConfirmedSchedule(c *gin.Context) {
	s, err := h.groupSvc.ConfirmedSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err, "schedule_failed"))
		return
	}
	c.JSON(http.StatusOK, s)
}
