package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	catalogstore "github.com/studyalong/recommender/internal/catalog"
	"github.com/studyalong/recommender/internal/config"
	"github.com/studyalong/recommender/internal/db"
	dbRedis "github.com/studyalong/recommender/internal/db/redis"
	logpkg "github.com/studyalong/recommender/internal/logger"
	"github.com/studyalong/recommender/internal/metrics"
	chiTransport "github.com/studyalong/recommender/internal/transport/chi"
	coursesuc "github.com/studyalong/recommender/internal/usecase/courses"
	healthuc "github.com/studyalong/recommender/internal/usecase/health"
	vibesuc "github.com/studyalong/recommender/internal/usecase/vibes"
	"github.com/studyalong/recommender/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recommender API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("course_mode", cfg.Search.CourseMode),
		zap.String("vibe_fallback", cfg.Search.VibeFallback),
		zap.Bool("semantic", cfg.Embedding.Enabled()),
		zap.String("cache", cfg.Cache.Driver),
	)

	// Register embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()

	cat, err := catalogstore.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.Int("courses", len(cat.Courses)),
		zap.Int("vibes", len(cat.Vibes)),
	)

	ctx := context.Background()

	// Optional embedding cache store
	var store db.Store
	if cfg.Cache.Driver == config.CacheDriverRedis {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	emb := buildEmbedders(cfg.Embedding, cfg.Cache, store, logger)
	courseEngine, vibeEngine := buildEngines(cat, emb, cfg.Search, logger)

	if cfg.Search.WarmUp {
		warmUp(ctx, logger, courseEngine, vibeEngine)
	}

	// Use case services
	courseOpts := []coursesuc.Option{}
	if cfg.Search.CourseMode == config.CourseModeRetrieval {
		courseOpts = append(courseOpts, coursesuc.WithRetrieval(courseEngine, cfg.Search.CourseK))
		if cfg.Synthesis.Enabled {
			courseOpts = append(courseOpts, coursesuc.WithSynthesizer(buildSynthesizer(cfg.Synthesis, logger)))
		}
	}
	courseSvc := coursesuc.New(cat.Courses, logger, courseOpts...)
	vibeSvc := vibesuc.New(cat.Vibes, vibeEngine, logger)
	logger.Info("Services created", zap.Stringer("courses", courseSvc))

	// Health service; nil interfaces (not typed nil pointers) for absent components.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	var embeddingChecker healthuc.EmbeddingChecker
	if emb.checker != nil {
		embeddingChecker = emb.checker
	}
	engines := []healthuc.EngineProbe{vibeEngine}
	if courseSvc.Mode() == coursesuc.ModeRetrieval {
		engines = append(engines, courseEngine)
	}
	healthSvc := healthuc.New(cat, cachePinger, embeddingChecker, engines...)

	server := chiTransport.NewServer(cat, courseSvc, vibeSvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
