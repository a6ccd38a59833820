package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/domain/catalog"
	logpkg "github.com/studyalong/recommender/internal/logger"
	coursesuc "github.com/studyalong/recommender/internal/usecase/courses"
	healthuc "github.com/studyalong/recommender/internal/usecase/health"
	vibesuc "github.com/studyalong/recommender/internal/usecase/vibes"
	"github.com/studyalong/recommender/internal/validation"
	"github.com/studyalong/recommender/internal/version"
)

// ServiceName is reported by GET /health.
const ServiceName = "study-recommendations"

const rootMessage = "Course Recommendation API with Study Vibe Profiler"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the recommendation endpoints.
type Server struct {
	catalog       *catalog.Catalog
	courses       *coursesuc.Service
	vibes         *vibesuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	c *catalog.Catalog,
	courses *coursesuc.Service,
	vibes *vibesuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog: c,
		courses: courses,
		vibes:   vibes,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidRequest, http.StatusUnprocessableEntity, CodeInvalidRequest),
		sentinelHandler(domain.ErrEngineUnavailable, http.StatusServiceUnavailable, CodeEngineUnavailable),
		sentinelHandler(domain.ErrNoMatch, http.StatusNotFound, CodeNoMatch),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:        rootMessage,
		Version:        version.Version,
		Status:         string(healthuc.Healthy),
		TotalCourses:   len(s.catalog.Courses),
		AvailableVibes: len(s.catalog.Vibes),
	})
}

// HealthCheck handles GET /health. A degraded report answers 503 only while
// no engine is serving.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if !report.Serving() {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:        string(report.Status),
		Service:       ServiceName,
		CoursesLoaded: report.CoursesLoaded,
		VibesLoaded:   report.VibesLoaded,
		Engines:       report.Engines,
		Checks:        checks,
	})
}

// ListCourses handles GET /courses.
func (s *Server) ListCourses(w http.ResponseWriter, _ *http.Request) {
	courses := s.courses.Courses()
	writeJSON(w, http.StatusOK, CourseListResponse{Courses: courses, Total: len(courses)})
}

// ListVibes handles GET /available-vibes.
func (s *Server) ListVibes(w http.ResponseWriter, _ *http.Request) {
	vibes := s.vibes.Vibes()
	writeJSON(w, http.StatusOK, VibeListResponse{Vibes: vibes, Total: len(vibes)})
}

// RecommendCourses handles POST /courserecommendations.
func (s *Server) RecommendCourses(w http.ResponseWriter, r *http.Request) {
	var req CourseRecommendationRequest
	if err := decode(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res := s.courses.Recommend(ctx, coursesuc.Request{
		Query: *req.Query,
		Level: deref(req.Level),
	})

	logpkg.FromContextOr(r.Context(), s.logger).Debug("courses recommended",
		zap.Int("count", len(res.Courses)),
		zap.Bool("warning", res.Warning != ""),
	)
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, courseResponse(res))
}

// VibeProfile handles POST /get-study-vibe-profile.
func (s *Server) VibeProfile(w http.ResponseWriter, r *http.Request) {
	var req VibeProfileRequest
	if err := decode(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	profile, err := s.vibes.Match(ctx, vibesuc.Request{
		UserID:      *req.UserID,
		Description: *req.Description,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	logpkg.FromContextOr(r.Context(), s.logger).Info("study vibe profile generated",
		zap.String("user_id", profile.UserID),
		zap.String("vibe_tag", profile.Tag),
	)
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, vibeResponse(profile))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body into v and validates it. Both malformed JSON and
// failed rules are reported as domain.ErrInvalidRequest.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w: %w", domain.ErrInvalidRequest, err)
	}
	if err := validation.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return nil
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// publicMessages are the client-facing texts of the mapped sentinels.
var publicMessages = []struct {
	err error
	msg string
}{
	{domain.ErrInvalidRequest, "Invalid request body."},
	{domain.ErrEngineUnavailable, "Study vibe profiling service is currently unavailable."},
	{domain.ErrNoMatch, "Could not determine a study vibe from your description. Please try rephrasing."},
}

// safeDomainMessage returns a client message for err without exposing internals.
func safeDomainMessage(err error) string {
	for _, p := range publicMessages {
		if errors.Is(err, p.err) {
			return p.msg
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports failed field rules with one message per field.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return false
	}
	fields := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = f.Message
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: msg,
		Fields:  fields,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
