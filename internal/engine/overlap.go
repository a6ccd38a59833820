package engine

import (
	"context"
	"strings"

	"github.com/studyalong/recommender/internal/domain/document"
)

const (
	keywordWeight = 3
	tokenWeight   = 1
)

// OverlapIndex scores documents by substring overlap with the query: each
// document keyword found in the query adds 3, each description token adds 1.
// It never filters by score, so a non-empty corpus always yields a hit.
type OverlapIndex[T any] struct {
	docs   []document.Document[T]
	tokens [][]string
}

var _ Index[struct{}] = (*OverlapIndex[struct{}])(nil)

// NewOverlap pre-tokenizes docs.
func NewOverlap[T any](docs []document.Document[T]) *OverlapIndex[T] {
	tokens := make([][]string, len(docs))
	for i := range docs {
		for _, tok := range strings.Fields(docs[i].Text()) {
			if t := strings.Trim(strings.ToLower(tok), ".,"); t != "" {
				tokens[i] = append(tokens[i], t)
			}
		}
	}
	return &OverlapIndex[T]{docs: docs, tokens: tokens}
}

// Score returns the overlap score of document i against a lowercased query.
func (o *OverlapIndex[T]) Score(i int, query string) int {
	score := 0
	for _, kw := range o.docs[i].Keywords() {
		if kw != "" && strings.Contains(query, strings.ToLower(kw)) {
			score += keywordWeight
		}
	}
	for _, tok := range o.tokens[i] {
		if strings.Contains(query, tok) {
			score += tokenWeight
		}
	}
	return score
}

// Retrieve ranks every document by overlap score.
func (o *OverlapIndex[T]) Retrieve(_ context.Context, query string, k int) ([]Hit[T], error) {
	q := strings.ToLower(query)
	hits := make([]Hit[T], len(o.docs))
	for i := range o.docs {
		hits[i] = Hit[T]{Document: o.docs[i], Score: float64(o.Score(i, q))}
	}
	return rank(hits, k), nil
}

// Strategy reports Overlap.
func (o *OverlapIndex[T]) Strategy() Strategy { return Overlap }

// Len returns the number of indexed documents.
func (o *OverlapIndex[T]) Len() int { return len(o.docs) }
