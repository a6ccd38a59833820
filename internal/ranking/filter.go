package ranking

import (
	"fmt"
	"strings"

	"github.com/studyalong/recommender/internal/domain/catalog"
)

// NoMatchWarning accompanies the default courses returned for a query nothing matched.
const NoMatchWarning = "No courses matched your query. Showing popular courses instead."

// LevelWarning is attached when the level filter would leave no courses.
func LevelWarning(level string) string {
	return fmt.Sprintf("No courses found for level '%s'. Showing best matches instead.", level)
}

// FilterLevel keeps the candidates whose level equals level case-insensitively
// and truncates to limit. When none match, the unfiltered candidates are kept
// and a warning naming the level is returned. A blank level disables the filter.
func FilterLevel(candidates []catalog.Course, level string, limit int) ([]catalog.Course, string) {
	level = strings.TrimSpace(level)
	if level == "" {
		return truncate(candidates, limit), ""
	}

	var filtered []catalog.Course
	for _, c := range candidates {
		if strings.EqualFold(c.Level, level) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return truncate(candidates, limit), LevelWarning(level)
	}
	return truncate(filtered, limit), ""
}

// Fallback returns the head of the catalog filtered by level, with warning
// followed by any level warning.
func Fallback(courses []catalog.Course, level, warning string) ([]catalog.Course, string) {
	out, levelWarning := FilterLevel(truncate(courses, ResultLimit), level, ResultLimit)
	return out, JoinWarnings(warning, levelWarning)
}

// JoinWarnings joins the non-empty warnings with a space.
func JoinWarnings(warnings ...string) string {
	var parts []string
	for _, w := range warnings {
		if w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}

func truncate(courses []catalog.Course, limit int) []catalog.Course {
	if limit < 1 {
		limit = 1
	}
	if len(courses) > limit {
		courses = courses[:limit]
	}
	out := make([]catalog.Course, len(courses))
	copy(out, courses)
	return out
}
