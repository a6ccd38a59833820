package engine

import (
	"context"
	"math"

	"github.com/studyalong/recommender/internal/domain/document"
)

// sparseVector maps a vocabulary term index to its weight.
type sparseVector map[int]float64

// TfIdfIndex is a lexical index over a vocabulary fixed at build time.
// Documents added later require a rebuild.
type TfIdfIndex[T any] struct {
	docs  []document.Document[T]
	vocab map[string]int
	idf   []float64
	rows  []sparseVector
}

var _ Index[struct{}] = (*TfIdfIndex[struct{}])(nil)

// NewTfIdf fits the vocabulary and IDF weights over docs. An empty corpus yields an empty index.
func NewTfIdf[T any](docs []document.Document[T]) *TfIdfIndex[T] {
	idx := &TfIdfIndex[T]{
		docs:  docs,
		vocab: make(map[string]int),
	}

	counts := make([]map[int]float64, len(docs))
	var df []int
	for i := range docs {
		counts[i] = make(map[int]float64)
		for _, tok := range tokenize(docs[i].Text()) {
			id, ok := idx.vocab[tok]
			if !ok {
				id = len(idx.vocab)
				idx.vocab[tok] = id
				df = append(df, 0)
			}
			if counts[i][id] == 0 {
				df[id]++
			}
			counts[i][id]++
		}
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1.
	n := float64(len(docs))
	idx.idf = make([]float64, len(df))
	for id, d := range df {
		idx.idf[id] = math.Log((1+n)/(1+float64(d))) + 1
	}

	idx.rows = make([]sparseVector, len(docs))
	for i, c := range counts {
		idx.rows[i] = idx.weigh(c)
	}
	return idx
}

// weigh applies IDF to raw counts and L2-normalizes the result.
func (t *TfIdfIndex[T]) weigh(counts map[int]float64) sparseVector {
	vec := make(sparseVector, len(counts))
	var norm float64
	for id, c := range counts {
		w := c * t.idf[id]
		vec[id] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for id := range vec {
			vec[id] /= norm
		}
	}
	return vec
}

// Vectorize projects text into the fitted vector space. Out-of-vocabulary terms are ignored.
func (t *TfIdfIndex[T]) Vectorize(text string) map[int]float64 {
	counts := make(map[int]float64)
	for _, tok := range tokenize(text) {
		if id, ok := t.vocab[tok]; ok {
			counts[id]++
		}
	}
	return t.weigh(counts)
}

// Retrieve scores every document with the linear kernel and drops non-positive scores,
// so fewer than k hits may be returned.
func (t *TfIdfIndex[T]) Retrieve(_ context.Context, query string, k int) ([]Hit[T], error) {
	if len(t.docs) == 0 {
		return nil, nil
	}
	q := t.Vectorize(query)
	if len(q) == 0 {
		return nil, nil
	}

	hits := make([]Hit[T], 0, len(t.docs))
	for i, row := range t.rows {
		var score float64
		for id, w := range q {
			score += w * row[id]
		}
		if score > 0 {
			hits = append(hits, Hit[T]{Document: t.docs[i], Score: score})
		}
	}
	return rank(hits, k), nil
}

// Strategy reports TfIdf.
func (t *TfIdfIndex[T]) Strategy() Strategy { return TfIdf }

// Len returns the number of indexed documents.
func (t *TfIdfIndex[T]) Len() int { return len(t.docs) }

// VocabularySize returns the number of distinct terms fitted at build time.
func (t *TfIdfIndex[T]) VocabularySize() int { return len(t.vocab) }
