package vibes

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/metrics"
	"github.com/studyalong/recommender/internal/ranking"
)

// DegradedWarning accompanies the default profile returned after a retrieval failure.
const DegradedWarning = "Study vibe matching is temporarily degraded. Showing a default profile."

// Request asks for the vibe profile matching a study-habit description.
type Request struct {
	UserID      string
	Description string
}

// Profile is the matched vibe profile with its study tips.
type Profile struct {
	UserID          string
	Tag             string
	Parameters      catalog.VibeParameters
	Description     string
	Recommendations []string
	Warning         string
}

// Service matches descriptions to vibe profiles.
type Service struct {
	vibes     []catalog.VibeProfile
	retriever Retriever
	logger    *zap.Logger
}

// New creates a Service.
func New(vibes []catalog.VibeProfile, retriever Retriever, logger *zap.Logger) *Service {
	return &Service{vibes: vibes, retriever: retriever, logger: logger}
}

// Vibes returns a copy of the vibe catalog.
func (s *Service) Vibes() []catalog.VibeProfile {
	out := make([]catalog.VibeProfile, len(s.vibes))
	copy(out, s.vibes)
	return out
}

// Match returns the single best profile for req.
//
// Errors: domain.ErrEngineUnavailable when no index could be built,
// domain.ErrNoMatch when retrieval yields nothing. Any other retrieval error
// degrades to the first catalog profile with a warning, and so does a panic
// raised while retrieving or scoring.
func (s *Service) Match(ctx context.Context, req Request) (p Profile, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("vibe matching panicked", zap.Any("panic", r), zap.String("user_id", req.UserID))
			p, err = s.fallback(req.UserID, fmt.Errorf("panic: %v", r))
		}
	}()

	hits, err := s.retriever.Retrieve(ctx, req.Description, 1)
	if err != nil {
		if errors.Is(err, domain.ErrEngineUnavailable) {
			return Profile{}, fmt.Errorf("match vibe: %w", err)
		}
		s.logger.Warn("vibe retrieval failed, using default profile",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return s.fallback(req.UserID, err)
	}
	if len(hits) == 0 {
		return Profile{}, fmt.Errorf("match vibe for %q: %w", req.UserID, domain.ErrNoMatch)
	}

	v := hits[0].Document.Item()
	s.logger.Debug("vibe matched",
		zap.String("user_id", req.UserID),
		zap.String("vibe_tag", v.Tag),
		zap.Float64("score", hits[0].Score),
	)
	return newProfile(req.UserID, v, ""), nil
}

func (s *Service) fallback(userID string, cause error) (Profile, error) {
	if len(s.vibes) == 0 {
		return Profile{}, fmt.Errorf("no default profile: %w: %w", domain.ErrNoMatch, cause)
	}
	metrics.RecommendationFallbacksTotal.WithLabelValues("vibes", "error").Inc()
	return newProfile(userID, s.vibes[0], DegradedWarning), nil
}

func newProfile(userID string, v catalog.VibeProfile, warning string) Profile {
	return Profile{
		UserID:          userID,
		Tag:             v.Tag,
		Parameters:      v.Parameters,
		Description:     v.Description,
		Recommendations: ranking.Tips(v.Parameters),
		Warning:         warning,
	}
}
