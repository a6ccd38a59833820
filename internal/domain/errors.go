package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogInvalid signals a catalog that cannot be loaded or fails validation.
	ErrCatalogInvalid = errors.New("catalog invalid")
	// ErrEngineUnavailable signals that no similarity strategy could be built.
	ErrEngineUnavailable = errors.New("similarity engine unavailable")
	// ErrSemanticUnavailable signals that the embedding-backed strategy could not be built.
	ErrSemanticUnavailable = errors.New("semantic engine unavailable")
	// ErrNoMatch signals that retrieval produced no candidates.
	ErrNoMatch = errors.New("no match")
	// ErrInvalidRequest signals a request that failed schema validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSynthesisFailed signals a failed answer generation.
	ErrSynthesisFailed = errors.New("answer synthesis failed")
)

// BuildError records which strategy failed while building an index.
type BuildError struct {
	Strategy string
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s index: %s", e.Strategy, e.Err.Error())
}

func (e *BuildError) Unwrap() error { return e.Err }
