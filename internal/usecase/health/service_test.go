package health

import (
	"context"
	"errors"
	"testing"

	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/engine"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

type mockEngine struct {
	name     string
	strategy engine.Strategy
}

func (m mockEngine) Catalog() string { return m.name }

func (m mockEngine) Strategy() (engine.Strategy, bool) { return m.strategy, m.strategy != "" }

var testCatalog = &catalog.Catalog{
	Courses: make([]catalog.Course, 6),
	Vibes:   make([]catalog.VibeProfile, 4),
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(testCatalog, &mockCachePinger{}, &mockEmbeddingChecker{},
		mockEngine{"courses", engine.Semantic}, mockEngine{"vibes", engine.Overlap})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
	if r.Checks["embedding"] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks["embedding"])
	}
	if r.CoursesLoaded != 6 || r.VibesLoaded != 4 {
		t.Errorf("expected 6 courses / 4 vibes, got %d / %d", r.CoursesLoaded, r.VibesLoaded)
	}
	if r.Engines["courses"] != "semantic" || r.Engines["vibes"] != "overlap" {
		t.Errorf("unexpected engines %v", r.Engines)
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(testCatalog, &mockCachePinger{err: errors.New("conn refused")}, &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["embedding"] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks["embedding"])
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(testCatalog, nil, &mockEmbeddingChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks["embedding"])
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_NoOptionalComponents(t *testing.T) {
	svc := New(testCatalog, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 0 {
		t.Errorf("expected no checks, got %v", r.Checks)
	}
}

func TestCheck_PendingEngineIsHealthy(t *testing.T) {
	svc := New(testCatalog, nil, nil, mockEngine{name: "vibes"})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Engines["vibes"] != EnginePending {
		t.Errorf("expected pending engine, got %q", r.Engines["vibes"])
	}
}

func TestReport_Serving(t *testing.T) {
	tests := []struct {
		name    string
		svc     *Service
		serving bool
	}{
		{"healthy", New(testCatalog, &mockCachePinger{}, nil, mockEngine{name: "vibes"}), true},
		{"degraded, engines pending", New(testCatalog, nil, &mockEmbeddingChecker{err: errors.New("down")},
			mockEngine{name: "vibes"}), false},
		{"degraded, lexical fallback serving", New(testCatalog, nil, &mockEmbeddingChecker{err: errors.New("down")},
			mockEngine{"vibes", engine.Overlap}), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.svc.Check(context.Background())
			if got := r.Serving(); got != tc.serving {
				t.Errorf("Serving() = %v, want %v (report %+v)", got, tc.serving, r)
			}
		})
	}
}
