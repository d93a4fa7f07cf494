package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/estatedesk/estatedesk/handlers"
	"github.com/estatedesk/estatedesk/internal/agent"
	"github.com/estatedesk/estatedesk/internal/calendar"
	"github.com/estatedesk/estatedesk/internal/config"
	"github.com/estatedesk/estatedesk/internal/database"
	"github.com/estatedesk/estatedesk/internal/deal"
	"github.com/estatedesk/estatedesk/internal/lead"
	"github.com/estatedesk/estatedesk/internal/property"
	propertyhandler "github.com/estatedesk/estatedesk/internal/property/handler"
	propertyrepo "github.com/estatedesk/estatedesk/internal/property/repository"
	"github.com/estatedesk/estatedesk/internal/sessions"
	"github.com/estatedesk/estatedesk/internal/storage"
	"github.com/estatedesk/estatedesk/internal/task"
	"github.com/estatedesk/estatedesk/internal/users"
	"github.com/estatedesk/estatedesk/pkg/logger"
	"github.com/estatedesk/estatedesk/pkg/metrics"
	"github.com/estatedesk/estatedesk/pkg/middleware"
)

var startTime = time.Now()

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Server.LogLevel, cfg.Server.Environment)
	slog.Info("config loaded",
		"mongo", cfg.MongoDB.URI != "",
		"redis", cfg.Redis.Host != "",
		"minio", cfg.MinIO.Endpoint != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Simple permissive CORS for dev/test; production sits behind a gateway.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Connect Redis early so the rate limiter and token blacklist can use it.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable", "addr", cfg.Redis.Host+":"+cfg.Redis.Port, "error", err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			slog.Info("connected to redis", "addr", cfg.Redis.Host+":"+cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Connect MongoDB with retry to tolerate startup races; fall back to
	// in-memory stores so the API stays usable in local development.
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				break
			}
			slog.Warn("mongodb connect failed", "attempt", attempt, "error", err)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if mongoClient != nil {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			slog.Info("connected to mongodb", "database", cfg.MongoDB.Database)
		}
	}

	var (
		userRepo     users.Repository
		sessionRepo  sessions.Repository
		propRepo     propertyrepo.Repository
		leadRepo     lead.Repository
		dealRepo     deal.Repository
		taskRepo     task.Repository
		calendarRepo calendar.Repository
		agentRepo    agent.Repository
	)
	if mongoClient != nil {
		db := mongoClient.Database(cfg.MongoDB.Database)
		userRepo = users.NewMongoRepository(db.Collection("users"))
		propRepo = propertyrepo.NewMongoRepo(db.Collection("properties"))
		leadRepo = lead.NewMongoRepository(db.Collection("leads"))
		dealRepo = deal.NewMongoRepository(db.Collection("deals"))
		taskRepo = task.NewMongoRepository(db.Collection("tasks"))
		calendarRepo = calendar.NewMongoRepository(db.Collection("events"))
		agentRepo = agent.NewMongoRepository(db.Collection("agents"))
		sessionRepo = sessions.NewMongoRepository(db.Collection("sessions"))
	} else {
		slog.Warn("mongodb not configured or unreachable, using in-memory stores")
		userRepo = users.NewMemoryRepository()
		propRepo = propertyrepo.NewMemoryRepo()
		leadRepo = lead.NewMemoryRepository()
		dealRepo = deal.NewMemoryRepository()
		taskRepo = task.NewMemoryRepository()
		calendarRepo = calendar.NewMemoryRepository()
		agentRepo = agent.NewMemoryRepository()
		sessionRepo = sessions.NewMemoryRepository()
	}
	// Prefer Redis for sessions when available.
	if redisClient != nil {
		sessionRepo = sessions.NewRedisRepository(redisClient, "session:")
	}

	userSvc := users.NewService(userRepo)
	sessionSvc := sessions.NewService(sessionRepo)
	propSvc := property.NewService(propRepo)
	leadSvc := lead.NewService(leadRepo)
	taskSvc := task.NewService(taskRepo)
	calendarSvc := calendar.NewService(calendarRepo)
	agentSvc := agent.NewService(agentRepo)
	dealSvc := deal.NewService(dealRepo,
		func(ctx context.Context, id string) (bool, error) {
			_, err := propSvc.Get(ctx, id)
			if err == property.ErrNotFound {
				return false, nil
			}
			return err == nil, err
		},
		func(ctx context.Context, id string) (bool, error) {
			_, err := leadSvc.Get(ctx, id)
			if err == lead.ErrNotFound {
				return false, nil
			}
			return err == nil, err
		})

	var docStore *storage.DocumentStore
	if cfg.MinIO.Endpoint != "" {
		docStore, err = storage.NewDocumentStore(&cfg.MinIO)
		if err != nil {
			slog.Warn("object storage unavailable", "error", err)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"mongodb": mongoClient != nil,
			"redis":   redisClient != nil || cfg.Redis.Host == "",
			"storage": docStore != nil || cfg.MinIO.Endpoint == "",
		}
		ready := true
		if cfg.MongoDB.URI != "" && mongoClient == nil {
			ready = false
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	authn := middleware.AuthMiddleware(cfg)
	handlers.RegisterAuthRoutes(r, cfg, userSvc, sessionSvc, authn)
	handlers.RegisterSwagger(r)
	propertyhandler.RegisterPropertyRoutes(r, propSvc, docStore, authn)
	lead.RegisterRoutes(r, leadSvc, authn)
	deal.RegisterRoutes(r, dealSvc, authn)
	task.RegisterRoutes(r, taskSvc, authn)
	calendar.RegisterRoutes(r, calendarSvc, authn)
	agent.RegisterRoutes(r, agentSvc, authn)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
