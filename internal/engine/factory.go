package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/domain/document"
	"github.com/studyalong/recommender/internal/metrics"
)

// Candidate is one strategy the factory may build.
type Candidate[T any] struct {
	Strategy Strategy
	Build    func(ctx context.Context, docs []document.Document[T]) (Index[T], error)
}

// SemanticCandidate builds a SemanticIndex. A nil embedder makes the build fail
// with domain.ErrSemanticUnavailable.
func SemanticCandidate[T any](docEmbedder, queryEmbedder domain.Embedder) Candidate[T] {
	return Candidate[T]{
		Strategy: Semantic,
		Build: func(ctx context.Context, docs []document.Document[T]) (Index[T], error) {
			idx, err := NewSemantic(ctx, docEmbedder, queryEmbedder, docs)
			if err != nil {
				return nil, err
			}
			return idx, nil
		},
	}
}

// TfIdfCandidate builds a TfIdfIndex.
func TfIdfCandidate[T any]() Candidate[T] {
	return Candidate[T]{
		Strategy: TfIdf,
		Build: func(_ context.Context, docs []document.Document[T]) (Index[T], error) {
			return NewTfIdf(docs), nil
		},
	}
}

// OverlapCandidate builds an OverlapIndex.
func OverlapCandidate[T any]() Candidate[T] {
	return Candidate[T]{
		Strategy: Overlap,
		Build: func(_ context.Context, docs []document.Document[T]) (Index[T], error) {
			return NewOverlap(docs), nil
		},
	}
}

// Build tries each candidate in order and returns the first index that builds.
// When every candidate fails the error wraps domain.ErrEngineUnavailable and a
// *domain.BuildError for the last failure.
func Build[T any](
	ctx context.Context, logger *zap.Logger, catalog string,
	docs []document.Document[T], candidates ...Candidate[T],
) (Index[T], error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s: no strategies configured: %w", catalog, domain.ErrEngineUnavailable)
	}

	var last error
	for i, c := range candidates {
		idx, err := c.Build(ctx, docs)
		if err == nil && idx == nil {
			err = errors.New("builder returned no index")
		}
		if err != nil {
			metrics.EngineBuildsTotal.WithLabelValues(catalog, string(c.Strategy), "error").Inc()
			last = &domain.BuildError{Strategy: string(c.Strategy), Err: err}
			if i < len(candidates)-1 {
				logger.Warn("index strategy unavailable, falling back",
					zap.String("catalog", catalog),
					zap.String("strategy", string(c.Strategy)),
					zap.String("fallback", string(candidates[i+1].Strategy)),
					zap.Error(err),
				)
			}
			continue
		}

		metrics.EngineBuildsTotal.WithLabelValues(catalog, string(c.Strategy), "ok").Inc()
		for _, other := range candidates {
			metrics.EngineStrategy.WithLabelValues(catalog, string(other.Strategy)).Set(0)
		}
		metrics.EngineStrategy.WithLabelValues(catalog, string(c.Strategy)).Set(1)
		logger.Info("index built",
			zap.String("catalog", catalog),
			zap.String("strategy", string(c.Strategy)),
			zap.Int("documents", idx.Len()),
		)
		return idx, nil
	}

	logger.Error("no index strategy could be built",
		zap.String("catalog", catalog),
		zap.Error(last),
	)
	return nil, fmt.Errorf("%s: %w: %w", catalog, domain.ErrEngineUnavailable, last)
}
