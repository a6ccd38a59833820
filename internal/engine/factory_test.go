package engine

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/domain/document"
)

func TestBuild_PrefersFirstCandidate(t *testing.T) {
	emb := newAxisEmbedder("night")
	idx, err := Build(context.Background(), zap.NewNop(), "vibes", document.Vibes(testVibes),
		SemanticCandidate[catalog.VibeProfile](emb, emb),
		OverlapCandidate[catalog.VibeProfile](),
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.Strategy() != Semantic {
		t.Errorf("strategy = %s, want semantic", idx.Strategy())
	}
}

func TestBuild_FallsBackWhenSemanticUnavailable(t *testing.T) {
	idx, err := Build(context.Background(), zap.NewNop(), "courses", document.Courses(testCourses),
		SemanticCandidate[catalog.Course](nil, nil),
		TfIdfCandidate[catalog.Course](),
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.Strategy() != TfIdf {
		t.Errorf("strategy = %s, want tfidf", idx.Strategy())
	}
	if idx.Len() != len(testCourses) {
		t.Errorf("len = %d, want %d", idx.Len(), len(testCourses))
	}
}

func TestBuild_AllFail(t *testing.T) {
	_, err := Build(context.Background(), zap.NewNop(), "vibes", document.Vibes(testVibes),
		failingCandidate[catalog.VibeProfile](Semantic, domain.ErrSemanticUnavailable),
		failingCandidate[catalog.VibeProfile](Overlap, errProvider),
	)
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Fatalf("err = %v, want ErrEngineUnavailable", err)
	}
	var be *domain.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *BuildError", err)
	}
	if be.Strategy != string(Overlap) || !errors.Is(err, errProvider) {
		t.Errorf("build error = %+v, want last failure", be)
	}
}

func TestBuild_NoCandidates(t *testing.T) {
	_, err := Build[catalog.Course](context.Background(), zap.NewNop(), "courses", nil)
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Errorf("err = %v, want ErrEngineUnavailable", err)
	}
}

func TestBuild_NilIndexIsFailure(t *testing.T) {
	nilBuilder := Candidate[catalog.Course]{
		Strategy: TfIdf,
		Build: func(context.Context, []document.Document[catalog.Course]) (Index[catalog.Course], error) {
			return nil, nil
		},
	}
	_, err := Build(context.Background(), zap.NewNop(), "courses", document.Courses(testCourses), nilBuilder)
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Errorf("err = %v, want ErrEngineUnavailable", err)
	}
}
