package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/domain/document"
)

// SemanticIndex is an exact nearest-neighbour index over sentence embeddings.
type SemanticIndex[T any] struct {
	docs    []document.Document[T]
	vectors [][]float32
	norms   []float64
	query   domain.Embedder
}

var _ Index[struct{}] = (*SemanticIndex[struct{}])(nil)

// NewSemantic embeds every document with docs embedder and keeps query for
// embedding queries at retrieval time.
func NewSemantic[T any](
	ctx context.Context, docEmbedder, queryEmbedder domain.Embedder, docs []document.Document[T],
) (*SemanticIndex[T], error) {
	if docEmbedder == nil || queryEmbedder == nil {
		return nil, fmt.Errorf("no embedding provider configured: %w", domain.ErrSemanticUnavailable)
	}

	idx := &SemanticIndex[T]{docs: docs, query: queryEmbedder}
	if len(docs) == 0 {
		return idx, nil
	}

	res, err := domain.EmbedAll(ctx, docEmbedder, document.Texts(docs))
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w: %w", domain.ErrSemanticUnavailable, err)
	}
	if len(res.Embeddings) != len(docs) {
		return nil, fmt.Errorf("embed documents: got %d vectors for %d documents: %w",
			len(res.Embeddings), len(docs), domain.ErrSemanticUnavailable)
	}

	dim := len(res.Embeddings[0])
	idx.vectors = res.Embeddings
	idx.norms = make([]float64, len(docs))
	for i, v := range res.Embeddings {
		if len(v) == 0 || len(v) != dim {
			return nil, fmt.Errorf("document %d has dimension %d, want %d: %w",
				i, len(v), dim, domain.ErrSemanticUnavailable)
		}
		idx.norms[i] = norm(v)
	}
	return idx, nil
}

// Retrieve embeds the query and returns the k nearest documents by cosine similarity.
func (s *SemanticIndex[T]) Retrieve(ctx context.Context, query string, k int) ([]Hit[T], error) {
	if len(s.docs) == 0 {
		return nil, nil
	}

	res, err := s.query.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if len(res.Embedding) != len(s.vectors[0]) {
		return nil, fmt.Errorf("query dimension %d, index dimension %d: %w",
			len(res.Embedding), len(s.vectors[0]), domain.ErrEmbeddingProviderError)
	}

	qn := norm(res.Embedding)
	hits := make([]Hit[T], len(s.docs))
	for i, v := range s.vectors {
		hits[i] = Hit[T]{Document: s.docs[i], Score: cosine(res.Embedding, v, qn, s.norms[i])}
	}
	return rank(hits, k), nil
}

// Strategy reports Semantic.
func (s *SemanticIndex[T]) Strategy() Strategy { return Semantic }

// Len returns the number of indexed documents.
func (s *SemanticIndex[T]) Len() int { return len(s.docs) }

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}
