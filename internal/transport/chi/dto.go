package chi

import (
	"github.com/studyalong/recommender/internal/domain/catalog"
	coursesuc "github.com/studyalong/recommender/internal/usecase/courses"
	vibesuc "github.com/studyalong/recommender/internal/usecase/vibes"
)

// CourseRecommendationRequest is the body of POST /courserecommendations.
// Query is a pointer so that a missing field can be told apart from an empty one.
type CourseRecommendationRequest struct {
	Query *string `json:"query" validate:"required,max=1000"`
	Level *string `json:"level,omitempty" validate:"omitempty,max=50"`
}

// CourseRecommendationResponse is returned by POST /courserecommendations.
type CourseRecommendationResponse struct {
	Courses []catalog.Course `json:"courses"`
	Warning *string          `json:"warning,omitempty"`
	Answer  *string          `json:"answer,omitempty"`
}

// VibeProfileRequest is the body of POST /get-study-vibe-profile.
type VibeProfileRequest struct {
	UserID      *string `json:"user_id" validate:"required,max=200"`
	Description *string `json:"description" validate:"required,max=2000"`
}

// VibeProfileResponse is returned by POST /get-study-vibe-profile.
type VibeProfileResponse struct {
	UserID          string                 `json:"user_id"`
	VibeTag         string                 `json:"vibe_tag"`
	Parameters      catalog.VibeParameters `json:"parameters"`
	Description     string                 `json:"description"`
	Recommendations []string               `json:"recommendations,omitempty"`
	Warning         *string                `json:"warning,omitempty"`
}

// RootResponse is returned by GET /.
type RootResponse struct {
	Message        string `json:"message"`
	Version        string `json:"version"`
	Status         string `json:"status"`
	TotalCourses   int    `json:"total_courses"`
	AvailableVibes int    `json:"available_vibes"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string            `json:"status"`
	Service       string            `json:"service"`
	CoursesLoaded int               `json:"courses_loaded"`
	VibesLoaded   int               `json:"vibes_loaded"`
	Engines       map[string]string `json:"engines"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// CourseListResponse is returned by GET /courses.
type CourseListResponse struct {
	Courses []catalog.Course `json:"courses"`
	Total   int              `json:"total"`
}

// VibeListResponse is returned by GET /available-vibes.
type VibeListResponse struct {
	Vibes []catalog.VibeProfile `json:"vibes"`
	Total int                   `json:"total"`
}

// ErrorResponse is the body of every error status.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// Error codes.
const (
	CodeInvalidRequest    = "invalid_request"
	CodeNoMatch           = "no_match"
	CodeEngineUnavailable = "engine_unavailable"
	CodeInternalError     = "internal_error"
)

func courseResponse(res coursesuc.Result) CourseRecommendationResponse {
	courses := res.Courses
	if courses == nil {
		courses = []catalog.Course{}
	}
	return CourseRecommendationResponse{
		Courses: courses,
		Warning: optional(res.Warning),
		Answer:  optional(res.Answer),
	}
}

func vibeResponse(p vibesuc.Profile) VibeProfileResponse {
	return VibeProfileResponse{
		UserID:          p.UserID,
		VibeTag:         p.Tag,
		Parameters:      p.Parameters,
		Description:     p.Description,
		Recommendations: p.Recommendations,
		Warning:         optional(p.Warning),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
