package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type recommendCategoriesRequest struct {
	TopN int `json:"top_n"`
}

// RecommendCategories ranks play categories for a group.
func (h *Handler) RecommendCategories(c *gin.Context) {
	var req recommendCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	categories, err := h.plannerSvc.RecommendCategories(c.Request.Context(), c.Param("id"), req.TopN)
	if err != nil {
		abortWithError(c, domainError(err, "recommend_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type previewSchedulesRequest struct {
	Categories []string `json:"categories"`
	TopN       int      `json:"top_n"`
}

// PreviewSchedules runs the composition pipeline for a group. An empty
// search space is a valid negative result and still answers 200; the
// outcome field tells the two cases apart.
func (h *Handler) PreviewSchedules(c *gin.Context) {
	var req previewSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	result, err := h.plannerSvc.ComposeSchedules(c.Request.Context(), c.Param("id"), req.Categories, req.TopN)
	if err != nil {
		abortWithError(c, domainError(err, "compose_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// TrendingCategories lists the most recommended category labels.
func (h *Handler) TrendingCategories(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}
	trending, err := h.plannerSvc.TrendingCategories(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, domainError(err, "trending_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"trending": trending})
}
