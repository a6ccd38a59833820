package health

import (
	"context"

	"github.com/studyalong/recommender/internal/domain/catalog"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "healthy"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// EnginePending is reported for an index that has not been built yet.
const EnginePending = "pending"

// Report aggregates health check results.
type Report struct {
	Status        Status
	CoursesLoaded int
	VibesLoaded   int
	Engines       map[string]string
	Checks        map[string]CheckResult
}

// Serving reports whether the process answers requests despite failed checks:
// it is healthy, or at least one engine has resolved a strategy. Lexical
// strategies keep serving while the cache or embedding provider is down.
func (r Report) Serving() bool {
	if r.Status == Healthy {
		return true
	}
	for _, strategy := range r.Engines {
		if strategy != EnginePending {
			return true
		}
	}
	return false
}

// Service coordinates health checks.
type Service struct {
	catalog   *catalog.Catalog
	cache     CachePinger
	embedding EmbeddingChecker
	engines   []EngineProbe
}

// New creates a Service. cache and embedding can be nil.
func New(c *catalog.Catalog, cache CachePinger, embedding EmbeddingChecker, engines ...EngineProbe) *Service {
	return &Service{catalog: c, cache: cache, embedding: embedding, engines: engines}
}

// Check runs health checks against all components. Engines that have not been
// built yet are reported as pending and do not degrade the status.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}
	if s.embedding != nil {
		checks["embedding"] = result(s.embedding.HealthCheck(ctx))
	}

	engines := make(map[string]string, len(s.engines))
	for _, e := range s.engines {
		if strategy, ok := e.Strategy(); ok {
			engines[e.Catalog()] = string(strategy)
		} else {
			engines[e.Catalog()] = EnginePending
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status:        status,
		CoursesLoaded: len(s.catalog.Courses),
		VibesLoaded:   len(s.catalog.Vibes),
		Engines:       engines,
		Checks:        checks,
	}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
