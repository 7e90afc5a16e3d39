package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kurosh87/optimalflight/internal/cache"
	"github.com/kurosh87/optimalflight/internal/enrichment"
	"github.com/kurosh87/optimalflight/internal/handler"
	"github.com/kurosh87/optimalflight/internal/logger"
	"github.com/kurosh87/optimalflight/internal/providers"
	"github.com/kurosh87/optimalflight/internal/ratelimit"
	"github.com/kurosh87/optimalflight/internal/refstore"
	"github.com/kurosh87/optimalflight/internal/search"
	"github.com/kurosh87/optimalflight/internal/usage"
)

type Config struct {
	Port         string
	Env          string
	CacheEnabled bool
	RedisHost    string
	RedisPort    string
	DatabaseURL  string
	KiwiBaseURL  string
	KiwiAPIKey   string
	ADBBaseURL   string
	ADBAPIKey    string
}

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	appLog := logger.New(cfg.Env)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	discovery := providers.NewKiwiClient(cfg.KiwiBaseURL, cfg.KiwiAPIKey, appLog)
	schedule := providers.NewAeroDataBoxClient(cfg.ADBBaseURL, cfg.ADBAPIKey, appLog)

	limiter := ratelimit.New(ratelimit.DefaultConfig())
	limiter.SetLimit(discovery.Name(), 5, 10)
	limiter.SetLimit(schedule.Name(), 10, 20)

	var store enrichment.Store
	var recorder usage.Recorder
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			cancel()
			log.Fatalf("Failed to create database pool: %v", err)
		}
		if err := pool.Ping(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to reach database: %v", err)
		}
		cancel()
		defer pool.Close()
		store = refstore.NewPostgresStore(pool)
		recorder = usage.NewPostgresRecorder(pool)
		appLog.Info("reference store connected")
	} else {
		store = refstore.NewMemoryStore()
		recorder = usage.NewMemoryRecorder()
		appLog.Warn("DATABASE_URL unset; serving neutral enrichment from memory")
	}

	var resultCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		resultCache = redisCache
		appLog.Info("result cache enabled", "host", cfg.RedisHost, "port", cfg.RedisPort)
	} else {
		resultCache = cache.NewNoOpCache()
		appLog.Info("result cache disabled")
	}
	defer resultCache.Close()

	orch := search.New(search.Deps{
		Discovery: discovery,
		Schedule:  schedule,
		Store:     store,
		Cache:     resultCache,
		Usage:     recorder,
		Limiter:   limiter,
		Log:       appLog,
	}, search.DefaultConfig())

	searchHandler := handler.NewSearchHandler(orch)

	api := e.Group("/api/v1")
	api.POST("/flights/search", searchHandler.Search)
	api.GET("/flights/:carrier/:number", searchHandler.Lookup)
	e.GET("/health", handler.HealthHandler)

	appLog.Info("starting jetlag flight search server", "port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfig() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("APP_ENV", "development"),
		CacheEnabled: getEnvBool("CACHE_ENABLED", true),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		KiwiBaseURL:  getEnv("KIWI_BASE_URL", "https://api.tequila.kiwi.com"),
		KiwiAPIKey:   getEnv("KIWI_API_KEY", ""),
		ADBBaseURL:   getEnv("AERODATABOX_BASE_URL", "https://aerodatabox.p.rapidapi.com"),
		ADBAPIKey:    getEnv("AERODATABOX_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
