package tokens

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func TestGenerateCustomToken_ValidAndClaims(t *testing.T) {
	tokenStr, err := GenerateCustomToken(testSecret, "U-line-123", 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateCustomToken error: %v", err)
	}

	// parse and validate
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatalf("token should be valid")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type assertion failed")
	}
	if claims["sub"] != "U-line-123" {
		t.Fatalf("unexpected sub claim: got=%v", claims["sub"])
	}
}

func TestGenerateCustomToken_NoSecret(t *testing.T) {
	if _, err := GenerateCustomToken("", "U1", time.Minute); err != ErrNoSecret {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestVerifier_RoundTrip(t *testing.T) {
	tokenStr, err := GenerateCustomToken(testSecret, "U-verify", 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateCustomToken error: %v", err)
	}
	tok, err := NewVerifier(testSecret).Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		t.Fatalf("Claims error: %v", err)
	}
	if claims["sub"] != "U-verify" {
		t.Fatalf("unexpected sub: %v", claims["sub"])
	}
}

func TestVerifier_Expiry(t *testing.T) {
	tokenStr, err := GenerateCustomToken(testSecret, "u2", 1*time.Second)
	if err != nil {
		t.Fatalf("GenerateCustomToken error: %v", err)
	}
	// wait for expiry
	time.Sleep(2 * time.Second)
	if _, err := NewVerifier(testSecret).Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verification to fail after expiry")
	}
}

func TestVerifier_WrongSecretFails(t *testing.T) {
	tokenStr, err := GenerateCustomToken(testSecret, "u3", 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateCustomToken error: %v", err)
	}
	if _, err := NewVerifier("different-secret-xxxxxxxxxxxxxxxx").Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

// Rejected when alg=none (unsigned token)
func TestVerifier_AlgNoneRejected(t *testing.T) {
	payload := `{"sub":"u-none","exp":9999999999}`
	headerEnc := new(jwt.Token).EncodeSegment([]byte(`{"alg":"none"}`))
	payloadEnc := new(jwt.Token).EncodeSegment([]byte(payload))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := NewVerifier(testSecret).Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}

// Tampering with payload must fail signature verification
func TestVerifier_TamperedPayload(t *testing.T) {
	tokenStr, err := GenerateCustomToken(testSecret, "user-t", 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateCustomToken error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := new(jwt.Parser).DecodeSegment(parts[1])
	payloadStr := strings.Replace(string(payloadBytes), "user-t", "attacker", 1)
	parts[1] = new(jwt.Token).EncodeSegment([]byte(payloadStr))
	tampered := strings.Join(parts, ".")
	if _, err := NewVerifier(testSecret).Verify(context.Background(), tampered); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}
