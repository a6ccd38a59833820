package courses

import (
	"context"

	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/engine"
)

// Retriever finds the courses most similar to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]engine.Hit[catalog.Course], error)
}

// Synthesizer writes a free-text answer to query grounded on the retrieved courses.
type Synthesizer interface {
	Answer(ctx context.Context, query string, courses []catalog.Course) (string, error)
}
