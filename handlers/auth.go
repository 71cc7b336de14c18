package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golfmatch/go-services/internal/config"
	"github.com/golfmatch/go-services/internal/linetoken"
	"github.com/golfmatch/go-services/internal/sessions"
	"github.com/golfmatch/go-services/internal/tokens"
	"github.com/golfmatch/go-services/pkg/logger"
)

// AuthHandler bridges LIFF ID tokens to backend-minted custom tokens.
type AuthHandler struct {
	cfg         *config.Config
	verifier    linetoken.Verifier
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, v linetoken.Verifier, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, verifier: v, sessionsSvc: s}
}

// Register routes under /api/auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/line", h.ExchangeLineToken)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// ExchangeLineToken verifies a LIFF ID token and returns a signed custom
// token plus a refresh token for session renewal.
func (h *AuthHandler) ExchangeLineToken(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idToken is required"})
		return
	}

	claims, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		var verr *linetoken.VerificationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ID token", "details": verr.Detail})
			return
		}
		logger.Errorf("ID token verification error: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ID token", "details": err.Error()})
		return
	}

	custom, err := tokens.GenerateCustomToken(h.cfg.JWT.Secret, claims.Sub(), h.cfg.JWT.CustomTokenTTL)
	if err != nil {
		if errors.Is(err, tokens.ErrNoSecret) {
			logger.Errorf("custom token requested but JWT secret is not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create custom token"})
		return
	}

	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), claims.Sub(), h.cfg.JWT.RefreshTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customToken":  custom,
		"refreshToken": rft,
		"expiresIn":    int(h.cfg.JWT.CustomTokenTTL.Seconds()),
	})
}

// Refresh accepts a refresh token and returns a new custom token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	custom, err := tokens.GenerateCustomToken(h.cfg.JWT.Secret, sess.UserID, h.cfg.JWT.CustomTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create custom token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customToken": custom, "expiresIn": int(h.cfg.JWT.CustomTokenTTL.Seconds())})
}

// Logout invalidates the refresh token and (optionally) blacklists the current custom token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// If the client supplied an Authorization Bearer token, attempt to blacklist it
	auth := c.GetHeader("Authorization")
	if auth != "" {
		var at string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if exp, err := parseExpFromJWT(at); err == nil {
				ttl := time.Until(exp)
				if ttl > 0 {
					if err := sessions.BlacklistAccessToken(c.Request.Context(), at, ttl); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist token"})
						return
					}
				}
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// parseExpFromJWT decodes the JWT payload and returns the `exp` claim as time.Time.
// This performs payload-only parsing (no signature verification) and is suitable
// for computing remaining TTLs for blacklisting purposes.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	payload := parts[1]
	b, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		// try standard base64 (pad) as a fallback
		b, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return time.Time{}, err
		}
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	v, ok := claims["exp"]
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	// exp may be float64 (json number) or json.Number; handle common cases
	switch vv := v.(type) {
	case float64:
		return time.Unix(int64(vv), 0), nil
	case int64:
		return time.Unix(vv, 0), nil
	case json.Number:
		i64, err := vv.Int64()
		if err != nil {
			f, err2 := vv.Float64()
			if err2 != nil {
				return time.Time{}, err
			}
			return time.Unix(int64(f), 0), nil
		}
		return time.Unix(i64, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported exp type %T", v)
	}
}
