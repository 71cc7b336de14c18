package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "golfmatch_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.Line.VerifyURL == "" || cfg.Line.MessagingAPIURL == "" {
		t.Fatalf("expected LINE endpoint defaults to be set: %+v", cfg.Line)
	}
}

func TestSanitizeToken_DropsPlaceholder(t *testing.T) {
	if got := sanitizeToken("your_channel_access_token_here"); got != "" {
		t.Fatalf("expected placeholder token to be dropped, got %q", got)
	}
	if got := sanitizeToken("  real-token  "); got != "real-token" {
		t.Fatalf("expected trimmed token, got %q", got)
	}
}
