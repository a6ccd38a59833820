package vibes

import (
	"context"

	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/engine"
)

// Retriever finds the vibe profiles most similar to a description.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]engine.Hit[catalog.VibeProfile], error)
}
