package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golfmatch/go-services/internal/profile"
	"github.com/golfmatch/go-services/internal/storage"
	"github.com/golfmatch/go-services/pkg/logger"
)

// ProfileHandler serves user profiles. Writes are restricted to the profile
// owner; the authenticated subject must match the path user id.
type ProfileHandler struct {
	svc     *profile.Service
	avatars *storage.MinIOStorage
}

// NewProfileHandler creates a profile handler. avatars may be nil when no
// object storage is configured; avatar upload then responds 503.
func NewProfileHandler(svc *profile.Service, avatars *storage.MinIOStorage) *ProfileHandler {
	return &ProfileHandler{svc: svc, avatars: avatars}
}

// Register mounts the profile routes under /api/profile.
func (h *ProfileHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	p := rg.Group("/profile", auth)
	p.GET("/:userId", h.Get)
	p.PUT("/:userId", h.Save)
	p.POST("/:userId/avatar", h.UploadAvatar)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID := c.Param("userId")
	prof, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		logger.Errorf("get profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, prof)
}

// Save upserts the profile. The LINE attributes are refreshed from the
// request, the form fields replace the stored ones.
func (h *ProfileHandler) Save(c *gin.Context) {
	userID := c.Param("userId")
	if claimSub(c) != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot edit another user's profile"})
		return
	}
	var req struct {
		LineProfile profile.LineProfile `json:"lineProfile"`
		FormData    profile.FormData    `json:"formData"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prof, err := h.svc.Save(c.Request.Context(), userID, req.LineProfile, req.FormData)
	if err != nil {
		logger.Errorf("save profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}
	c.JSON(http.StatusOK, prof)
}

// UploadAvatar stores a multipart avatar image and returns a presigned URL.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.Param("userId")
	if claimSub(c) != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot edit another user's profile"})
		return
	}
	if h.avatars == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "avatar storage is not configured"})
		return
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read avatar file"})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	key, err := h.avatars.UploadAvatar(c.Request.Context(), userID, f, fh.Size, contentType)
	if err != nil {
		logger.Errorf("avatar upload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	url, err := h.avatars.GetPresignedURL(c.Request.Context(), key, 24*time.Hour)
	if err != nil {
		logger.Errorf("avatar presign: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create avatar URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}
