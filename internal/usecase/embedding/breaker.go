// Package embedding holds decorators applied to the embedding provider.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/metrics"
)

// BreakerConfig tunes the circuit breaker around the embedding provider.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
	MaxHalfOpen      uint32
}

// Breaker stops calling the provider after repeated failures. While open,
// calls fail fast with domain.ErrEmbeddingProviderError.
type Breaker struct {
	inner domain.Embedder
	cb    *gobreaker.CircuitBreaker[domain.EmbeddingResult]
	batch *gobreaker.CircuitBreaker[domain.BatchEmbeddingResult]
}

// NewBreaker wraps inner with a circuit breaker.
func NewBreaker(inner domain.Embedder, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	if cfg.Name == "" {
		cfg.Name = "embedding"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: cfg.MaxHalfOpen,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.FailureThreshold
			},
			// A caller giving up says nothing about the provider.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.EmbeddingBreakerState.WithLabelValues(name).Set(float64(to))
				logger.Warn("embedding circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}
	}

	return &Breaker{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[domain.EmbeddingResult](settings(cfg.Name)),
		batch: gobreaker.NewCircuitBreaker[domain.BatchEmbeddingResult](settings(cfg.Name + "_batch")),
	}
}

// Embed calls the provider unless the breaker is open.
func (b *Breaker) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := b.cb.Execute(func() (domain.EmbeddingResult, error) {
		return b.inner.Embed(ctx, text)
	})
	if err != nil {
		return domain.EmbeddingResult{}, breakerError(err)
	}
	return res, nil
}

// BatchEmbed calls the provider's batch endpoint unless the breaker is open.
func (b *Breaker) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	res, err := b.batch.Execute(func() (domain.BatchEmbeddingResult, error) {
		return domain.EmbedAll(ctx, b.inner, texts)
	})
	if err != nil {
		return domain.BatchEmbeddingResult{}, breakerError(err)
	}
	return res, nil
}

// State reports the single-text breaker state.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	return err
}
