package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studyalong/recommender/internal/config"
	"github.com/studyalong/recommender/internal/db"
	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/domain/document"
	"github.com/studyalong/recommender/internal/engine"
	"github.com/studyalong/recommender/internal/metrics"
	"github.com/studyalong/recommender/internal/repository/embcache"
	openaiTransport "github.com/studyalong/recommender/internal/transport/openai"
	embeddinguc "github.com/studyalong/recommender/internal/usecase/embedding"
)

// embedders holds the document and query embedder chains. Both are nil when
// no embedding provider is configured.
type embedders struct {
	document domain.Embedder
	query    domain.Embedder
	checker  domain.HealthChecker
}

// buildEmbedders assembles the decorator chains:
// OpenAI -> Breaker -> Cached -> Instrumented -> Instruction.
func buildEmbedders(cfg config.EmbeddingConfig, cacheCfg config.CacheConfig, store db.Store, logger *zap.Logger) embedders {
	if !cfg.Enabled() {
		logger.Info("No embedding provider configured, semantic strategy disabled")
		return embedders{}
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Timeout:    cfg.Timeout(),
		Logger:     logger,
	})

	chain := func(role, instruction string) domain.Embedder {
		var e domain.Embedder = embeddinguc.NewBreaker(base, embeddinguc.BreakerConfig{
			Name:             "embedding_" + role,
			FailureThreshold: cfg.Breaker.FailureThreshold,
			OpenTimeout:      time.Duration(cfg.Breaker.OpenTimeoutSec) * time.Second,
			MaxHalfOpen:      cfg.Breaker.MaxHalfOpen,
		}, logger)

		if store != nil {
			e = embcache.New(e, store, metrics.EmbeddingCacheTotal, logger,
				embcache.WithNamespace(cfg.Model),
				embcache.WithTTL(time.Duration(cacheCfg.TTLSec)*time.Second),
			)
		}

		e = embeddinguc.NewInstrumentedEmbedder(e, cfg.Provider, cfg.Model, logger)

		// Instruction prefix is outermost so the cache key includes it.
		if instruction != "" {
			return domain.NewInstructionEmbedder(e, instruction)
		}
		return e
	}

	logger.Info("Embedders created",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Int("dimensions", cfg.Dimensions),
	)
	return embedders{
		document: chain("document", cfg.DocumentInstruction),
		query:    chain("query", cfg.QueryInstruction),
		checker:  base,
	}
}

// buildEngines creates the lazily built course and vibe indexes.
// Courses fall back semantic -> tfidf; vibes semantic -> overlap or tfidf.
func buildEngines(
	cat *catalog.Catalog, emb embedders, cfg config.SearchConfig, logger *zap.Logger,
) (*engine.Lazy[catalog.Course], *engine.Lazy[catalog.VibeProfile]) {
	courseDocs := document.Courses(cat.Courses)
	courseCandidates := []engine.Candidate[catalog.Course]{}
	if emb.document != nil {
		courseCandidates = append(courseCandidates, engine.SemanticCandidate[catalog.Course](emb.document, emb.query))
	}
	courseCandidates = append(courseCandidates, engine.TfIdfCandidate[catalog.Course]())

	vibeDocs := document.Vibes(cat.Vibes)
	vibeCandidates := []engine.Candidate[catalog.VibeProfile]{}
	if emb.document != nil {
		vibeCandidates = append(vibeCandidates, engine.SemanticCandidate[catalog.VibeProfile](emb.document, emb.query))
	}
	if cfg.VibeFallback == config.VibeFallbackTfIdf {
		vibeCandidates = append(vibeCandidates, engine.TfIdfCandidate[catalog.VibeProfile]())
	} else {
		vibeCandidates = append(vibeCandidates, engine.OverlapCandidate[catalog.VibeProfile]())
	}

	courses := engine.NewLazy("courses", func(ctx context.Context) (engine.Index[catalog.Course], error) {
		return engine.Build(ctx, logger, "courses", courseDocs, courseCandidates...)
	}, engine.WithBuildTimeout(cfg.BuildTimeout()))
	vibes := engine.NewLazy("vibes", func(ctx context.Context) (engine.Index[catalog.VibeProfile], error) {
		return engine.Build(ctx, logger, "vibes", vibeDocs, vibeCandidates...)
	}, engine.WithBuildTimeout(cfg.BuildTimeout()))
	return courses, vibes
}

type warmable interface {
	Catalog() string
	Strategy() (engine.Strategy, bool)
}

// warmUp builds every engine before the server accepts traffic. A failed
// build is logged and retried on first use.
func warmUp(ctx context.Context, logger *zap.Logger, courses *engine.Lazy[catalog.Course], vibes *engine.Lazy[catalog.VibeProfile]) {
	start := time.Now()
	if _, err := courses.Get(ctx); err != nil {
		logger.Error("Course engine warm-up failed", zap.Error(err))
	}
	if _, err := vibes.Get(ctx); err != nil {
		logger.Error("Vibe engine warm-up failed", zap.Error(err))
	}
	for _, w := range []warmable{courses, vibes} {
		logger.Info("Engine warm-up", zap.String("catalog", w.Catalog()), zap.String("strategy", describe(w)))
	}
	logger.Info("Engines warmed up", zap.Duration("took", time.Since(start)))
}

func describe(w warmable) string {
	if s, ok := w.Strategy(); ok {
		return string(s)
	}
	return "unavailable"
}

// buildSynthesizer creates the chat-completion answer generator.
func buildSynthesizer(cfg config.SynthesisConfig, logger *zap.Logger) *openaiTransport.Synthesizer {
	logger.Info("Answer synthesis enabled", zap.String("model", cfg.Model))
	return openaiTransport.NewSynthesizer(&openaiTransport.SynthesizerConfig{
		Config: openaiTransport.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: "openai",
			Timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
			Logger:   logger,
		},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
}
