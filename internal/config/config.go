package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Line      LineConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LineConfig holds LINE platform credentials: the LIFF/login channel id used
// to verify ID tokens and the Messaging API channel token used for push and
// multicast delivery. ChannelAccessToken may legitimately be empty — notify
// paths degrade to a soft "not configured" response in that case.
type LineConfig struct {
	ChannelAccessToken string
	LiffClientID       string
	VerifyURL          string
	MessagingAPIURL    string
	AppURL             string
	UseOIDC            bool
	OIDCIssuer         string
}

type JWTConfig struct {
	Secret         string
	CustomTokenTTL time.Duration
	RefreshTTL     time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "golfmatch")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("LINE_VERIFY_URL", "https://api.line.me/oauth2/v2.1/verify")
	viper.SetDefault("LINE_MESSAGING_API_URL", "https://api.line.me")
	viper.SetDefault("LINE_OIDC_ISSUER", "https://access.line.me")
	viper.SetDefault("APP_URL", "https://golf-matching-app.vercel.app/")
	viper.SetDefault("JWT_CUSTOM_TOKEN_TTL", 60)
	viper.SetDefault("JWT_REFRESH_TTL", 10080)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		Line: LineConfig{
			ChannelAccessToken: sanitizeToken(os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")),
			LiffClientID:       viper.GetString("LIFF_CLIENT_ID"),
			VerifyURL:          viper.GetString("LINE_VERIFY_URL"),
			MessagingAPIURL:    viper.GetString("LINE_MESSAGING_API_URL"),
			AppURL:             viper.GetString("APP_URL"),
			UseOIDC:            viper.GetBool("LINE_USE_OIDC"),
			OIDCIssuer:         viper.GetString("LINE_OIDC_ISSUER"),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			CustomTokenTTL: time.Duration(viper.GetInt("JWT_CUSTOM_TOKEN_TTL")) * time.Minute,
			RefreshTTL:     time.Duration(viper.GetInt("JWT_REFRESH_TTL")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	// Basic validation
	if cfg.JWT.Secret == "" {
		log.Println("WARNING: JWT_SECRET is not set; the auth bridge will refuse to mint tokens")
	}

	return cfg, nil
}

// sanitizeToken drops placeholder values that deployment templates leave
// behind so they behave as "not configured" rather than producing 401s from
// the LINE API.
func sanitizeToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "your_channel_access_token_here" {
		return ""
	}
	return v
}
