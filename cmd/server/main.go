package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wine-tier-service/internal/adapters/primary/http/handlers"
	"wine-tier-service/internal/adapters/primary/http/middleware"
	"wine-tier-service/internal/adapters/secondary/boltstore"
	"wine-tier-service/internal/adapters/secondary/filestore"
	"wine-tier-service/internal/adapters/secondary/model"
	"wine-tier-service/internal/adapters/secondary/postgres"
	"wine-tier-service/internal/adapters/secondary/registry"
	"wine-tier-service/internal/config"
	output "wine-tier-service/internal/core/ports/output"
	"wine-tier-service/internal/core/services"
	"wine-tier-service/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	m := metrics.New()

	// ============================================================================
	// Model Artifact
	// ============================================================================

	var source output.ArtifactSource
	switch cfg.Artifact.Source {
	case config.ArtifactSourceRegistry:
		source = registry.NewArtifactSource(&cfg.Registry, cfg.Artifact.Path)
	default:
		source = filestore.NewArtifactSource(cfg.Artifact.Path)
	}

	artifactSvc := services.NewArtifactService(source, model.NewDecoder(), m)
	artifact, err := artifactSvc.Load(context.Background())
	if err != nil {
		log.Fatalf("load model artifact: %v", err)
	}

	// ============================================================================
	// Prediction History (Optional - based on config)
	// ============================================================================

	var historyRepo output.PredictionRepository
	var pool *pgxpool.Pool
	if cfg.History.Enabled {
		switch cfg.History.Backend {
		case config.HistoryBackendPostgres:
			pool, err = newPool(cfg.Database)
			if err != nil {
				log.Fatalf("create db pool: %v", err)
			}
			defer pool.Close()
			historyRepo = postgres.NewPredictionRepository(pool)
		default:
			store, err := boltstore.Open(cfg.History.BoltPath)
			if err != nil {
				log.Fatalf("open history store: %v", err)
			}
			defer store.Close()
			historyRepo = store
		}
		log.WithField("backend", cfg.History.Backend).Info("prediction history enabled")
	} else {
		log.Info("prediction history disabled")
	}

	// Core Services (Application Layer)
	formSvc := services.NewFormService(artifact, m)
	predictionSvc, err := services.NewPredictionService(artifact, historyRepo, cfg.Prediction.CacheSize, m)
	if err != nil {
		log.Fatalf("create prediction service: %v", err)
	}

	// Warm the form schema so a vocabulary fallback is logged at start-up.
	if schema := formSvc.Schema(); !schema.CategoriesAvailable {
		log.Warn("model exposes no category vocabulary, categorical fields use free text")
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(artifact, formSvc, predictionSvc, cfg.Prediction.Currency)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.Server.CORSAllowedOrigins
		corsCfg.AddExposeHeaders("X-Request-ID")
		router.Use(cors.New(corsCfg))
	}
	router.SetHTMLTemplate(handlers.Templates())

	h.RegisterPages(router)
	api := router.Group("/api/v1/price-tier")
	h.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check, with DB ping when history is enabled
	router.GET("/healthz", func(c *gin.Context) {
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "features": len(artifact.UIFeatures)})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func newPool(dbCfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(dbCfg.MaxOpenConns)
	poolCfg.MinConns = int32(dbCfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = dbCfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	log.Info("database connection established")
	return pool, nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if cfg.Logger.File != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Logger.File,
			MaxSize:    cfg.Logger.MaxSizeMB,
			MaxBackups: cfg.Logger.MaxBackups,
			Compress:   true,
		}))
	}
}
