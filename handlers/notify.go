package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golfmatch/go-services/internal/notify"
	"github.com/golfmatch/go-services/pkg/logger"
)

// NotifyHandler exposes the LINE notification endpoints.
type NotifyHandler struct {
	svc *notify.Service
}

func NewNotifyHandler(svc *notify.Service) *NotifyHandler {
	return &NotifyHandler{svc: svc}
}

// Register mounts the notify routes under /api/notify.
func (h *NotifyHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	n := rg.Group("/notify", auth)
	n.POST("/bulk", h.Bulk)
	n.POST("/guide", h.Guide)
	n.POST("/schedule-update", h.ScheduleUpdate)
	n.POST("/line", h.NotifyOwner)
}

func notifyErrStatus(err error) int {
	if errors.Is(err, notify.ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Bulk broadcasts a new-post announcement to users matching the selected
// notification tags, or to mahjong opt-ins when mahjongMode is set.
func (h *NotifyHandler) Bulk(c *gin.Context) {
	var req struct {
		ProfileCheckboxes    []string                `json:"profileCheckboxes"`
		MahjongRecruitNotify bool                    `json:"mahjongRecruitNotify"`
		ScheduleInfo         *notify.ScheduleSummary `json:"scheduleInfo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.Bulk(c.Request.Context(), req.ProfileCheckboxes, req.MahjongRecruitNotify, req.ScheduleInfo)
	if err != nil {
		status := notifyErrStatus(err)
		if status == http.StatusInternalServerError {
			logger.Errorf("bulk notify: %v", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Guide sends a free-text message to an explicit participant list.
func (h *NotifyHandler) Guide(c *gin.Context) {
	var req struct {
		ParticipantUserIDs []string `json:"participantUserIds"`
		Message            string   `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.Guide(c.Request.Context(), req.ParticipantUserIDs, req.Message)
	if err != nil {
		c.JSON(notifyErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ScheduleUpdate informs existing participants that a post changed.
// scheduleInfo may be a plain summary string or an object with a summary field.
func (h *NotifyHandler) ScheduleUpdate(c *gin.Context) {
	var req struct {
		ParticipantUserIDs []string        `json:"participantUserIds"`
		ScheduleInfo       json.RawMessage `json:"scheduleInfo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var summary string
	if len(req.ScheduleInfo) > 0 {
		if err := json.Unmarshal(req.ScheduleInfo, &summary); err != nil {
			var obj struct {
				Summary string `json:"summary"`
			}
			if err := json.Unmarshal(req.ScheduleInfo, &obj); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "scheduleInfo must be a string or an object with a summary"})
				return
			}
			summary = obj.Summary
		}
	}
	res, err := h.svc.ScheduleUpdate(c.Request.Context(), req.ParticipantUserIDs, summary)
	if err != nil {
		c.JSON(notifyErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// NotifyOwner pushes a join notification to a post owner.
func (h *NotifyHandler) NotifyOwner(c *gin.Context) {
	var req struct {
		OwnerUserID     string                  `json:"ownerUserId"`
		ParticipantName string                  `json:"participantName"`
		ScheduleInfo    *notify.ScheduleSummary `json:"scheduleInfo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.NotifyOwner(c.Request.Context(), req.OwnerUserID, req.ParticipantName, req.ScheduleInfo)
	if err != nil {
		status := notifyErrStatus(err)
		if status == http.StatusInternalServerError {
			logger.Errorf("owner notify: %v", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
