// Package ranking turns retrieved or scored catalog items into the final
// recommendation: the course keyword scorer, the level filter and the study
// tips attached to a matched vibe profile.
package ranking

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/domain/document"
	"github.com/studyalong/recommender/internal/engine"
)

const (
	categoryBonus = 10
	titleBonus    = 5
	domainBonus   = 15

	// CandidateLimit bounds the scored candidate set before filtering.
	CandidateLimit = 6
	// ResultLimit bounds the final course list.
	ResultLimit = 3
)

// Domain keyword lists. A query containing any of them earns the domain bonus
// for courses whose category names that domain.
var (
	WebKeywords    = []string{"web", "react", "javascript", "html", "css", "frontend", "backend", "fullstack", "full-stack"}
	DataKeywords   = []string{"data", "science", "python", "machine", "learning", "ai", "analytics"}
	DesignKeywords = []string{"design", "ui", "ux", "figma", "prototype", "wireframe"}
)

var domains = []struct {
	keywords   []string
	categories []string
}{
	{WebKeywords, []string{"web development"}},
	{DataKeywords, []string{"data science", "machine learning"}},
	{DesignKeywords, []string{"design"}},
}

// ScoredCourse is a course with its keyword score.
type ScoredCourse struct {
	Course catalog.Course
	Score  int
}

// QueryKeywords lowercases and whitespace-splits query, dropping single-character
// words and English stop words.
func QueryKeywords(query string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(w) < 2 || engine.IsStopWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// ScoreCourse scores c against lowercased keywords.
func ScoreCourse(c catalog.Course, keywords []string) int {
	text := document.MatchText(c)
	category := strings.ToLower(c.Category)
	title := strings.ToLower(c.Title)

	score := 0
	for _, kw := range keywords {
		score += strings.Count(text, kw)
	}
	if anyContained(keywords, category) {
		score += categoryBonus
	}
	if anyContained(keywords, title) {
		score += titleBonus
	}
	for _, d := range domains {
		if !anyEqual(keywords, d.keywords) {
			continue
		}
		for _, cat := range d.categories {
			if strings.Contains(category, cat) {
				score += domainBonus
				break
			}
		}
	}
	return score
}

// ScoreCourses returns the courses with a positive score, best first, ties in
// catalog order, at most CandidateLimit of them.
func ScoreCourses(courses []catalog.Course, query string) []ScoredCourse {
	keywords := QueryKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	var scored []ScoredCourse
	for _, c := range courses {
		if s := ScoreCourse(c, keywords); s > 0 {
			scored = append(scored, ScoredCourse{Course: c, Score: s})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > CandidateLimit {
		scored = scored[:CandidateLimit]
	}
	return scored
}

// Courses returns the courses of scored in order.
func Courses(scored []ScoredCourse) []catalog.Course {
	out := make([]catalog.Course, len(scored))
	for i, s := range scored {
		out[i] = s.Course
	}
	return out
}

func anyContained(keywords []string, s string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func anyEqual(keywords, list []string) bool {
	for _, kw := range keywords {
		for _, l := range list {
			if kw == l {
				return true
			}
		}
	}
	return false
}
