// Package linetoken verifies LIFF ID tokens. The default verifier calls
// LINE's token-verification endpoint; an OIDC-discovery verifier and an
// insecure test verifier are available as alternatives.
package linetoken

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Claims are the verified ID-token claims. LINE's verify endpoint returns
// the standard OIDC subset (sub, name, picture, ...).
type Claims map[string]interface{}

// Sub returns the verified subject (the LINE user id), empty when absent.
func (c Claims) Sub() string {
	s, _ := c["sub"].(string)
	return s
}

// Verifier validates a raw ID token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Claims, error)
}

// ErrVerificationFailed wraps any failure to validate the token itself, as
// opposed to transport problems reaching the verifier.
type VerificationError struct {
	Status int
	Detail string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("ID token verification failed (%d): %s", e.Status, e.Detail)
}

// RemoteVerifier verifies ID tokens against LINE's verification endpoint
// with a form-encoded POST of id_token and the configured client id.
type RemoteVerifier struct {
	verifyURL string
	clientID  string
	hc        *http.Client
}

func NewRemoteVerifier(verifyURL, clientID string) *RemoteVerifier {
	return &RemoteVerifier{
		verifyURL: verifyURL,
		clientID:  clientID,
		hc:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *RemoteVerifier) Verify(ctx context.Context, idToken string) (Claims, error) {
	form := url.Values{}
	form.Set("id_token", idToken)
	form.Set("client_id", v.clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &VerificationError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	if claims.Sub() == "" {
		return nil, &VerificationError{Status: resp.StatusCode, Detail: "verified token has no sub claim"}
	}
	return claims, nil
}
