package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golfmatch/go-services/internal/config"
	"github.com/golfmatch/go-services/internal/linetoken"
	"github.com/golfmatch/go-services/internal/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fake ID token verifier
type fakeLineVerifier struct {
	claims linetoken.Claims
	err    error
}

func (f *fakeLineVerifier) Verify(ctx context.Context, idToken string) (linetoken.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

// fake sessions repo
type fakeSessionsRepo struct {
	store map[string]*sessions.Session
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *sessions.Session) error {
	if f.store == nil {
		f.store = map[string]*sessions.Session{}
	}
	f.store[s.RefreshToken] = s
	return nil
}
func (f *fakeSessionsRepo) GetByRefresh(ctx context.Context, refresh string) (*sessions.Session, error) {
	s, ok := f.store[refresh]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (f *fakeSessionsRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	delete(f.store, refresh)
	return nil
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.CustomTokenTTL = time.Hour
	cfg.JWT.RefreshTTL = 24 * time.Hour
	return cfg
}

func newAuthRouter(h *AuthHandler) *gin.Engine {
	g := gin.New()
	h.Register(g.Group("/api"))
	return g
}

func postJSON(t *testing.T, g *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestExchangeLineToken_Success(t *testing.T) {
	ver := &fakeLineVerifier{claims: linetoken.Claims{"sub": "U1234567890", "name": "Taro"}}
	h := NewAuthHandler(testAuthConfig(), ver, sessions.NewService(&fakeSessionsRepo{}))
	g := newAuthRouter(h)

	w := postJSON(t, g, "/api/auth/line", gin.H{"idToken": "liff-token"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["customToken"])
	assert.NotEmpty(t, resp["refreshToken"])
}

func TestExchangeLineToken_MissingToken(t *testing.T) {
	h := NewAuthHandler(testAuthConfig(), &fakeLineVerifier{}, sessions.NewService(&fakeSessionsRepo{}))
	g := newAuthRouter(h)

	w := postJSON(t, g, "/api/auth/line", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExchangeLineToken_VerificationFailure(t *testing.T) {
	ver := &fakeLineVerifier{err: &linetoken.VerificationError{Status: 400, Detail: "expired"}}
	h := NewAuthHandler(testAuthConfig(), ver, sessions.NewService(&fakeSessionsRepo{}))
	g := newAuthRouter(h)

	w := postJSON(t, g, "/api/auth/line", gin.H{"idToken": "bad"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExchangeLineToken_NoSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWT.Secret = ""
	ver := &fakeLineVerifier{claims: linetoken.Claims{"sub": "U1"}}
	h := NewAuthHandler(cfg, ver, sessions.NewService(&fakeSessionsRepo{}))
	g := newAuthRouter(h)

	w := postJSON(t, g, "/api/auth/line", gin.H{"idToken": "liff-token"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	ver := &fakeLineVerifier{claims: linetoken.Claims{"sub": "U1"}}
	h := NewAuthHandler(testAuthConfig(), ver, sessions.NewService(&fakeSessionsRepo{}))
	g := newAuthRouter(h)

	w := postJSON(t, g, "/api/auth/line", gin.H{"idToken": "liff-token"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	refresh := resp["refreshToken"].(string)

	// refresh mints a new custom token
	w2 := postJSON(t, g, "/api/auth/refresh", gin.H{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, w2.Code)
	var resp2 map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.NotEmpty(t, resp2["customToken"])

	// logout invalidates the refresh token
	w3 := postJSON(t, g, "/api/auth/logout", gin.H{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, w3.Code)

	w4 := postJSON(t, g, "/api/auth/refresh", gin.H{"refreshToken": refresh})
	require.Equal(t, http.StatusUnauthorized, w4.Code)
}
