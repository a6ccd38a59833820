package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/studyalong/recommender/internal/metrics"
)

// LazyOption configures a Lazy handle.
type LazyOption func(*lazyConfig)

type lazyConfig struct {
	buildTimeout time.Duration
}

// WithBuildTimeout bounds a single index build. Zero means no limit.
func WithBuildTimeout(d time.Duration) LazyOption {
	return func(c *lazyConfig) { c.buildTimeout = d }
}

type builtIndex[T any] struct {
	idx Index[T]
}

// Lazy owns the single index of one catalog. The index is built on first use
// and kept for the process lifetime; a failed build is retried by the next caller.
// Reads of a built index take no lock.
type Lazy[T any] struct {
	catalog string
	build   func(ctx context.Context) (Index[T], error)
	cfg     lazyConfig

	// sem is held while a build runs.
	sem   chan struct{}
	built atomic.Pointer[builtIndex[T]]
}

// NewLazy returns a handle that builds its index with build on first Get.
func NewLazy[T any](catalog string, build func(ctx context.Context) (Index[T], error), opts ...LazyOption) *Lazy[T] {
	l := &Lazy[T]{catalog: catalog, build: build, sem: make(chan struct{}, 1)}
	for _, o := range opts {
		o(&l.cfg)
	}
	return l
}

// Get returns the index, building it if no build has succeeded yet.
// Concurrent callers wait for the same build, each until its own ctx is done.
// The build itself is detached from the caller's cancellation so a client
// leaving mid-build cannot push the catalog onto a fallback strategy.
func (l *Lazy[T]) Get(ctx context.Context) (Index[T], error) {
	if b := l.built.Load(); b != nil {
		return b.idx, nil
	}

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-l.sem }()

	if b := l.built.Load(); b != nil {
		return b.idx, nil
	}

	buildCtx := context.WithoutCancel(ctx)
	if l.cfg.buildTimeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(buildCtx, l.cfg.buildTimeout)
		defer cancel()
	}

	idx, err := l.build(buildCtx)
	if err != nil {
		return nil, err
	}
	l.built.Store(&builtIndex[T]{idx: idx})
	return idx, nil
}

// Retrieve builds the index if needed and queries it.
func (l *Lazy[T]) Retrieve(ctx context.Context, query string, k int) ([]Hit[T], error) {
	idx, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	hits, err := idx.Retrieve(ctx, query, k)
	metrics.RetrievalDuration.WithLabelValues(l.catalog, string(idx.Strategy())).Observe(time.Since(start).Seconds())
	return hits, err
}

// Strategy reports the strategy of the built index, or false before a build succeeded.
func (l *Lazy[T]) Strategy() (Strategy, bool) {
	b := l.built.Load()
	if b == nil {
		return "", false
	}
	return b.idx.Strategy(), true
}

// Catalog returns the catalog name the handle was created for.
func (l *Lazy[T]) Catalog() string { return l.catalog }
