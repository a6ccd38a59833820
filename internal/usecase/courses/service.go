// Package courses recommends courses for a free-text query. Recommendations
// never fail: degraded or empty results fall back to the head of the catalog
// with a warning.
package courses

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/metrics"
	"github.com/studyalong/recommender/internal/ranking"
)

// DegradedWarning accompanies the fallback courses returned after an internal failure.
const DegradedWarning = "Using fallback recommendations due to technical issues."

// DefaultRetrievalK is the number of documents retrieved in retrieval mode.
const DefaultRetrievalK = 3

// Mode selects how courses are ranked.
type Mode string

const (
	// ModeKeyword scores every course with the keyword heuristics.
	ModeKeyword Mode = "keyword"
	// ModeRetrieval ranks with the similarity engine.
	ModeRetrieval Mode = "retrieval"
)

// Request is a course recommendation request.
type Request struct {
	Query string
	Level string
}

// Result is an ordered list of at most three courses.
type Result struct {
	Courses []catalog.Course
	Warning string
	Answer  string
}

// Option configures a Service.
type Option func(*Service)

// WithRetrieval switches the service to retrieval mode over r, retrieving k documents.
func WithRetrieval(r Retriever, k int) Option {
	return func(s *Service) {
		s.mode = ModeRetrieval
		s.retriever = r
		if k > 0 {
			s.k = k
		}
	}
}

// WithSynthesizer attaches an answer generator, used in retrieval mode only.
func WithSynthesizer(syn Synthesizer) Option {
	return func(s *Service) { s.synth = syn }
}

// Service recommends courses from a fixed catalog.
type Service struct {
	courses   []catalog.Course
	mode      Mode
	retriever Retriever
	k         int
	synth     Synthesizer
	logger    *zap.Logger
}

// New creates a Service in keyword mode unless an option says otherwise.
func New(courses []catalog.Course, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		courses: courses,
		mode:    ModeKeyword,
		k:       DefaultRetrievalK,
		logger:  logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Mode reports the ranking mode.
func (s *Service) Mode() Mode { return s.mode }

// Courses returns a copy of the full course catalog.
func (s *Service) Courses() []catalog.Course {
	out := make([]catalog.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// Recommend returns up to three courses for req. A blank query returns the
// first three courses without a warning.
func (s *Service) Recommend(ctx context.Context, req Request) (res Result) {
	if strings.TrimSpace(req.Query) == "" {
		courses, _ := ranking.FilterLevel(s.courses, "", ranking.ResultLimit)
		return Result{Courses: courses}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("course ranking panicked", zap.Any("panic", r), zap.String("mode", string(s.mode)))
			res = s.fallback(req.Level, DegradedWarning, "panic")
		}
	}()

	if s.mode == ModeRetrieval {
		return s.recommendRetrieved(ctx, req)
	}
	return s.recommendKeyword(req)
}

func (s *Service) recommendKeyword(req Request) Result {
	scored := ranking.ScoreCourses(s.courses, req.Query)
	if len(scored) == 0 {
		return s.fallback(req.Level, ranking.NoMatchWarning, "no_match")
	}
	courses, warning := ranking.FilterLevel(ranking.Courses(scored), req.Level, ranking.ResultLimit)
	return Result{Courses: courses, Warning: warning}
}

func (s *Service) recommendRetrieved(ctx context.Context, req Request) Result {
	hits, err := s.retriever.Retrieve(ctx, req.Query, s.k)
	if err != nil {
		s.logger.Warn("course retrieval failed, using fallback", zap.Error(err))
		return s.fallback(req.Level, DegradedWarning, "error")
	}
	if len(hits) == 0 {
		return s.fallback(req.Level, ranking.NoMatchWarning, "no_match")
	}

	candidates := make([]catalog.Course, len(hits))
	for i := range hits {
		candidates[i] = hits[i].Document.Item()
	}
	courses, warning := ranking.FilterLevel(candidates, req.Level, ranking.ResultLimit)
	res := Result{Courses: courses, Warning: warning}

	if s.synth != nil {
		answer, err := s.synth.Answer(ctx, req.Query, courses)
		if err != nil {
			s.logger.Warn("answer synthesis failed", zap.Error(err))
		} else {
			res.Answer = answer
		}
	}
	return res
}

func (s *Service) fallback(level, warning, reason string) Result {
	metrics.RecommendationFallbacksTotal.WithLabelValues("courses", reason).Inc()
	courses, w := ranking.Fallback(s.courses, level, warning)
	return Result{Courses: courses, Warning: w}
}

// String describes the configured mode for logs.
func (s *Service) String() string {
	if s.mode == ModeRetrieval {
		return fmt.Sprintf("courses(%s, k=%d, synthesis=%t)", s.mode, s.k, s.synth != nil)
	}
	return fmt.Sprintf("courses(%s)", s.mode)
}
