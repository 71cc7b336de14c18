package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golfmatch/go-services/handlers"
	"github.com/golfmatch/go-services/internal/config"
	"github.com/golfmatch/go-services/internal/database"
	"github.com/golfmatch/go-services/internal/linetoken"
	"github.com/golfmatch/go-services/internal/notify"
	"github.com/golfmatch/go-services/internal/profile"
	"github.com/golfmatch/go-services/internal/schedule"
	"github.com/golfmatch/go-services/internal/sessions"
	"github.com/golfmatch/go-services/internal/storage"
	"github.com/golfmatch/go-services/internal/tokens"
	"github.com/golfmatch/go-services/pkg/logger"
	"github.com/golfmatch/go-services/pkg/metrics"
	"github.com/golfmatch/go-services/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: line=%v mongo=%v redis=%v", cfg.Line.LiffClientID != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// shared runtime vars used by handlers/readiness
	var (
		sessionsSvc *sessions.Service
		golfSvc     *schedule.Service
		mahjongSvc  *schedule.Service
		profileSvc  *profile.Service
	)

	// Connect to Redis early so the rate-limiter and token blacklist can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err == nil {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		} else {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["sessions"] = sessionsSvc != nil
		if sessionsSvc == nil {
			ready = false
		}
		deps["schedules"] = golfSvc != nil && mahjongSvc != nil
		if !deps["schedules"] {
			ready = false
		}
		deps["profiles"] = profileSvc != nil
		if profileSvc == nil {
			ready = false
		}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// LIFF ID-token verifier. The remote verify endpoint is the default;
	// OIDC discovery is selected by config, and an insecure payload-only
	// verifier exists for integration tests.
	ctx := context.Background()
	var idVerifier linetoken.Verifier
	if cfg.Line.UseOIDC {
		ver, err := linetoken.NewOIDCVerifier(ctx, cfg.Line.OIDCIssuer, cfg.Line.LiffClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			idVerifier = ver
		}
	}
	if idVerifier == nil {
		idVerifier = linetoken.NewRemoteVerifier(cfg.Line.VerifyURL, cfg.Line.LiffClientID)
	}
	if strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN"))) == "true" {
		logger.Warn("enabling insecure ID-token verifier (integration mode)")
		idVerifier = linetoken.NewInsecureVerifier()
	}

	// Prefer Redis-based sessions when available (fast, self-expiring)
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("Using Redis for session storage")
	}

	// MongoDB-backed stores: golf schedules, mahjong schedules, profiles,
	// and sessions when Redis didn't claim them already.
	if cfg.MongoDB.URI != "" {
		// Retry/backoff when connecting to MongoDB to tolerate startup races
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)
			golfSvc = schedule.NewService(schedule.NewMongoRepository(db.Collection("schedules")))
			mahjongSvc = schedule.NewService(schedule.NewMongoRepository(db.Collection("mahjong_schedules")))
			profileSvc = profile.NewService(profile.NewMongoRepository(db.Collection("profiles")))

			if sessionsSvc == nil {
				srepo := sessions.NewMongoRepository(db.Collection("sessions"))
				if err := srepo.EnsureIndexes(ctx); err != nil {
					logger.Warnf("session index setup failed: %v", err)
				}
				sessionsSvc = sessions.NewService(srepo)
			}
		}
	}

	// Optional MinIO-backed avatar storage
	var avatars *storage.MinIOStorage
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		avatars, err = storage.NewMinIOStorage(mcfg)
		if err != nil {
			logger.Warnf("avatar storage unavailable: %v", err)
			avatars = nil
		}
	}

	api := r.Group("/api")
	authMW := middleware.AuthMiddleware(tokens.NewVerifier(cfg.JWT.Secret))

	if sessionsSvc != nil {
		handlers.NewAuthHandler(cfg, idVerifier, sessionsSvc).Register(api)
	} else {
		logger.Warnf("auth handlers not registered because no session store is available")
	}
	if golfSvc != nil && mahjongSvc != nil {
		handlers.NewScheduleHandler(golfSvc).Register(api, "/schedules", authMW)
		handlers.NewScheduleHandler(mahjongSvc).Register(api, "/mahjong", authMW)
	} else {
		logger.Warnf("schedule handlers not registered because MongoDB is unavailable")
	}
	if profileSvc != nil {
		handlers.NewProfileHandler(profileSvc, avatars).Register(api, authMW)

		lineClient := notify.NewLineClient(cfg.Line.MessagingAPIURL, cfg.Line.ChannelAccessToken)
		notifySvc := notify.NewService(lineClient, profileSvc, cfg.Line.AppURL)
		handlers.NewNotifyHandler(notifySvc).Register(api, authMW)
	} else {
		logger.Warnf("profile/notify handlers not registered because MongoDB is unavailable")
	}

	// Minimal Swagger UI + JSON for API documentation
	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Config summary: line=%v mongo=%v redis=%v jwt_secret_set=%v", cfg.Line.ChannelAccessToken != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.JWT.Secret != "")
	logger.Infof("Starting matching service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
