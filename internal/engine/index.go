// Package engine builds and queries the similarity indexes behind course and
// vibe retrieval. Every index is immutable after construction and safe for
// concurrent Retrieve calls without locking.
package engine

import (
	"context"
	"sort"

	"github.com/studyalong/recommender/internal/domain/document"
)

// Strategy names an index implementation.
type Strategy string

const (
	// Semantic ranks by cosine similarity of sentence embeddings.
	Semantic Strategy = "semantic"
	// TfIdf ranks by cosine similarity of TF-IDF vectors.
	TfIdf Strategy = "tfidf"
	// Overlap ranks by weighted keyword overlap.
	Overlap Strategy = "overlap"
)

// Hit is a retrieved document with its similarity score.
type Hit[T any] struct {
	Document document.Document[T]
	Score    float64
}

// Index retrieves the documents most similar to a query.
type Index[T any] interface {
	// Retrieve returns at most k distinct hits, most similar first.
	Retrieve(ctx context.Context, query string, k int) ([]Hit[T], error)
	Strategy() Strategy
	Len() int
}

// rank orders hits by descending score, ties in catalog order, and keeps at most k.
func rank[T any](hits []Hit[T], k int) []Hit[T] {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Document.Position() < hits[j].Document.Position()
	})
	if k < 1 {
		k = 1
	}
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
