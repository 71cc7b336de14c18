package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golfmatch/go-services/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authAs injects claims as the auth middleware would, without token plumbing.
func authAs(sub string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("claims", map[string]interface{}{"sub": sub})
		c.Next()
	}
}

func newScheduleRouter(sub string) (*gin.Engine, *schedule.Service) {
	svc := schedule.NewService(schedule.NewMemoryRepository())
	h := NewScheduleHandler(svc)
	g := gin.New()
	h.Register(g.Group("/api"), "/schedules", authAs(sub))
	return g, svc
}

func doJSON(t *testing.T, g *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func createRecruit(t *testing.T, g *gin.Engine) string {
	t.Helper()
	w := doJSON(t, g, http.MethodPost, "/api/schedules", gin.H{
		"type":         "RECRUIT",
		"dateStr":      "2026-09-12",
		"startTime":    "08:30",
		"venueName":    "Green Hills CC",
		"recruitCount": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])
	return resp["id"]
}

func TestScheduleCreateAndList(t *testing.T) {
	g, _ := newScheduleRouter("U-owner")
	id := createRecruit(t, g)

	w := doJSON(t, g, http.MethodGet, "/api/schedules?month=2026-09", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Schedules []*schedule.Schedule `json:"schedules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Schedules, 1)
	assert.Equal(t, id, resp.Schedules[0].ID)
	assert.Equal(t, "2026-09", resp.Schedules[0].MonthKey)
}

func TestScheduleList_RequiresMonth(t *testing.T) {
	g, _ := newScheduleRouter("U-owner")
	w := doJSON(t, g, http.MethodGet, "/api/schedules", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleCreate_InvalidDate(t *testing.T) {
	g, _ := newScheduleRouter("U-owner")
	w := doJSON(t, g, http.MethodPost, "/api/schedules", gin.H{
		"type":      "RECRUIT",
		"dateStr":   "12/09/2026",
		"venueName": "Green Hills CC",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleGet_NotFound(t *testing.T) {
	g, _ := newScheduleRouter("U-owner")
	w := doJSON(t, g, http.MethodGet, "/api/schedules/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleUpdate_OwnerOnly(t *testing.T) {
	g, svc := newScheduleRouter("U-owner")
	id := createRecruit(t, g)

	// another user hits the same service through a second router
	other := gin.New()
	NewScheduleHandler(svc).Register(other.Group("/api"), "/schedules", authAs("U-intruder"))

	upd := gin.H{
		"dateStr":      "2026-09-13",
		"venueName":    "Green Hills CC",
		"recruitCount": 2,
	}
	w := doJSON(t, other, http.MethodPut, "/api/schedules/"+id, upd)
	require.Equal(t, http.StatusForbidden, w.Code)

	w2 := doJSON(t, g, http.MethodPut, "/api/schedules/"+id, upd)
	require.Equal(t, http.StatusOK, w2.Code)

	got, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-13", got.DateStr)
}

func TestScheduleDelete_OwnerOnly(t *testing.T) {
	g, svc := newScheduleRouter("U-owner")
	id := createRecruit(t, g)

	other := gin.New()
	NewScheduleHandler(svc).Register(other.Group("/api"), "/schedules", authAs("U-intruder"))

	w := doJSON(t, other, http.MethodDelete, "/api/schedules/"+id, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w2 := doJSON(t, g, http.MethodDelete, "/api/schedules/"+id, nil)
	require.Equal(t, http.StatusNoContent, w2.Code)
}

func TestScheduleUpdate_MissingPosterStillGated(t *testing.T) {
	repo := schedule.NewMemoryRepository()
	svc := schedule.NewService(repo)
	g := gin.New()
	NewScheduleHandler(svc).Register(g.Group("/api"), "/schedules", authAs("U-someone"))

	// seeded outside the create path, with no poster recorded
	id, err := repo.Insert(context.Background(), &schedule.Schedule{
		Type:         schedule.TypeRecruit,
		DateStr:      "2026-09-20",
		MonthKey:     "2026-09",
		VenueName:    "Green Hills CC",
		RecruitCount: 2,
		Participants: []string{},
	})
	require.NoError(t, err)

	w := doJSON(t, g, http.MethodPut, "/api/schedules/"+id, gin.H{
		"dateStr":      "2026-09-21",
		"venueName":    "Green Hills CC",
		"recruitCount": 2,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w2 := doJSON(t, g, http.MethodDelete, "/api/schedules/"+id, nil)
	require.Equal(t, http.StatusForbidden, w2.Code)
}

func TestScheduleJoin(t *testing.T) {
	g, svc := newScheduleRouter("U-owner")
	id := createRecruit(t, g)

	j := gin.New()
	NewScheduleHandler(svc).Register(j.Group("/api"), "/schedules", authAs("U-joiner"))

	w := doJSON(t, j, http.MethodPost, "/api/schedules/"+id+"/join", gin.H{"displayName": "Hanako"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp["remainingCount"])

	// joining twice conflicts
	w2 := doJSON(t, j, http.MethodPost, "/api/schedules/"+id+"/join", gin.H{"displayName": "Hanako"})
	require.Equal(t, http.StatusConflict, w2.Code)
}

func TestScheduleRemoveParticipant(t *testing.T) {
	g, svc := newScheduleRouter("U-owner")
	id := createRecruit(t, g)

	j := gin.New()
	NewScheduleHandler(svc).Register(j.Group("/api"), "/schedules", authAs("U-joiner"))
	w := doJSON(t, j, http.MethodPost, "/api/schedules/"+id+"/join", gin.H{"displayName": "Hanako"})
	require.Equal(t, http.StatusOK, w.Code)

	// only the poster can remove
	w2 := doJSON(t, j, http.MethodPost, "/api/schedules/"+id+"/participants/0/remove", gin.H{})
	require.Equal(t, http.StatusForbidden, w2.Code)

	w3 := doJSON(t, g, http.MethodPost, "/api/schedules/"+id+"/participants/0/remove", gin.H{})
	require.Equal(t, http.StatusOK, w3.Code)
	var resp map[string]int
	require.NoError(t, json.Unmarshal(w3.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp["remainingCount"])
}
