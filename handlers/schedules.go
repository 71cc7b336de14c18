package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golfmatch/go-services/internal/schedule"
	"github.com/golfmatch/go-services/pkg/logger"
)

// ScheduleHandler exposes one schedule collection (golf or mahjong) under a
// base path. The same handler type is instantiated once per collection.
type ScheduleHandler struct {
	svc *schedule.Service
}

func NewScheduleHandler(svc *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// Register mounts the schedule routes under base (e.g. "/schedules").
// Reads are open; writes require the auth middleware.
func (h *ScheduleHandler) Register(rg *gin.RouterGroup, base string, auth gin.HandlerFunc) {
	g := rg.Group(base)
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	w := g.Group("", auth)
	w.POST("", h.Create)
	w.PUT("/:id", h.Update)
	w.DELETE("/:id", h.Delete)
	w.POST("/:id/join", h.Join)
	w.POST("/:id/participants/:index/remove", h.RemoveParticipant)
}

// claimSub extracts the authenticated LINE user id set by the auth middleware.
func claimSub(c *gin.Context) string {
	v, ok := c.Get("claims")
	if !ok {
		return ""
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := cm["sub"].(string)
	return sub
}

func scheduleErrStatus(err error) int {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, schedule.ErrValidation), errors.Is(err, schedule.ErrInvalidType):
		return http.StatusBadRequest
	case errors.Is(err, schedule.ErrAlreadyJoined),
		errors.Is(err, schedule.ErrCapacityExhausted),
		errors.Is(err, schedule.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// List returns the schedules of one month, ordered by date then creation.
func (h *ScheduleHandler) List(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month query parameter is required (YYYY-MM)"})
		return
	}
	items, err := h.svc.ListByMonth(c.Request.Context(), month)
	if err != nil {
		status := scheduleErrStatus(err)
		if status == http.StatusInternalServerError {
			logger.Errorf("list schedules: %v", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": items})
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	s, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(scheduleErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var form schedule.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.Create(c.Request.Context(), claimSub(c), &form)
	if err != nil {
		status := scheduleErrStatus(err)
		if status == http.StatusInternalServerError {
			logger.Errorf("create schedule: %v", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update edits a recruit post. Only the poster may edit.
func (h *ScheduleHandler) Update(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(scheduleErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	if existing.PosterID != claimSub(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the poster can edit this schedule"})
		return
	}
	var upd schedule.RecruitUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateRecruit(c.Request.Context(), id, &upd); err != nil {
		c.JSON(scheduleErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Delete removes a post. Only the poster may delete.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(scheduleErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	if existing.PosterID != claimSub(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the poster can delete this schedule"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(scheduleErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Join adds the authenticated user as a participant and returns the
// remaining open slots.
func (h *ScheduleHandler) Join(c *gin.Context) {
	var req struct {
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	remaining, err := h.svc.Join(c.Request.Context(), c.Param("id"), req.DisplayName, claimSub(c))
	if err != nil {
		status := scheduleErrStatus(err)
		if status == http.StatusInternalServerError {
			logger.Errorf("join schedule: %v", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"remainingCount": remaining})
}

// RemoveParticipant drops the participant at the given index and frees a
// slot. Only the poster may remove participants.
func (h *ScheduleHandler) RemoveParticipant(c *gin.Context) {
	id := c.Param("id")
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participant index must be an integer"})
		return
	}
	existing, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(scheduleErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	if existing.PosterID != claimSub(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the poster can remove participants"})
		return
	}
	remaining, err := h.svc.RemoveParticipant(c.Request.Context(), id, idx)
	if err != nil {
		c.JSON(scheduleErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"remainingCount": remaining})
}
