package health

import (
	"context"

	"github.com/studyalong/recommender/internal/engine"
)

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// EngineProbe reports which strategy a catalog index was built with.
type EngineProbe interface {
	Catalog() string
	Strategy() (engine.Strategy, bool)
}
