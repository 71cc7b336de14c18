package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golfmatch/go-services/pkg/middleware"
)

// ErrNoSecret indicates the signing secret is absent; the auth bridge treats
// this as a hard configuration failure.
var ErrNoSecret = errors.New("JWT signing secret is not configured")

// GenerateCustomToken creates the signed session token the auth bridge hands
// back after a successful LIFF ID-token verification. The subject is the
// verified LINE user id.
func GenerateCustomToken(secret, sub string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// claimsToken adapts parsed JWT claims to the middleware Token interface.
type claimsToken struct {
	claims jwt.MapClaims
}

func (t *claimsToken) Claims(v interface{}) error {
	if m, ok := v.(*map[string]interface{}); ok {
		*m = t.claims
		return nil
	}
	return fmt.Errorf("unsupported claims type %T", v)
}

// Verifier validates backend-minted custom tokens; it satisfies
// middleware.Verifier so protected routes can use the shared auth middleware.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return &claimsToken{claims: claims}, nil
}
