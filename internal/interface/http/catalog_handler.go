package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxPhotoBytes = 5 << 20

// ListCategories returns the full category tree.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalogSvc.Categories(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "categories_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetActivity returns one activity by id.
func (h *Handler) GetActivity(c *gin.Context) {
	activity, err := h.catalogSvc.Activity(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err, "activity_failed"))
		return
	}
	c.JSON(http.StatusOK, activity)
}

// UploadActivityPhoto stores a photo for an activity.
func (h *Handler) UploadActivityPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing file field", err))
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "file_too_large", "photo exceeds the size limit", nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "could not read file", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "could not read file", err))
		return
	}
	if len(data) > maxPhotoBytes {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "file_too_large", "photo exceeds the size limit", nil))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	key, err := h.catalogSvc.AttachPhoto(c.Request.Context(), c.Param("id"), data, mimeType)
	if err != nil {
		abortWithError(c, domainError(err, "photo_upload_failed"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo_key": key})
}

// ActivityPhotoURL returns a temporary download URL for an activity photo.
func (h *Handler) ActivityPhotoURL(c *gin.Context) {
	url, err := h.catalogSvc.PhotoURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err, "photo_url_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
