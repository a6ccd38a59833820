package ranking

import (
	"reflect"
	"strings"
	"testing"

	"github.com/studyalong/recommender/internal/catalog"
	domcat "github.com/studyalong/recommender/internal/domain/catalog"
)

func loadCourses(t *testing.T) []domcat.Course {
	t.Helper()
	c, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	return c.Courses
}

func TestQueryKeywords(t *testing.T) {
	got := QueryKeywords("I want to learn about Smart Contracts")
	want := []string{"want", "learn", "smart", "contracts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QueryKeywords = %v, want %v", got, want)
	}
	if got := QueryKeywords("  the of a  "); len(got) != 0 {
		t.Errorf("QueryKeywords(stop words) = %v, want none", got)
	}
}

func TestScoreCourses_SmartContracts(t *testing.T) {
	courses := loadCourses(t)

	scored := ScoreCourses(courses, "I want to learn about smart contracts")
	if len(scored) == 0 {
		t.Fatal("expected scored courses")
	}
	top := scored[0].Course
	if top.Category != "DEVELOPMENT" || !strings.Contains(top.Title, "Smart Contract") {
		t.Errorf("top course = %q (%s), want the smart contract course", top.Title, top.Category)
	}
	for _, s := range scored[1:] {
		if s.Score >= scored[0].Score {
			t.Errorf("%q score %d not below top score %d", s.Course.Title, s.Score, scored[0].Score)
		}
	}
}

func TestScoreCourse_WebDomainBonus(t *testing.T) {
	web := domcat.Course{ID: "w", Title: "Modern Frontend", Description: "Components and state.", Category: "Web Development", Level: "BEGINNER"}
	sc := domcat.Course{ID: "s", Title: "Smart Contract Development", Description: "Solidity.", Category: "DEVELOPMENT", Level: "ADVANCED"}

	keywords := QueryKeywords("web development")
	// 2 occurrences + category 10 + domain 15
	if got := ScoreCourse(web, keywords); got != 27 {
		t.Errorf("web course score = %d, want 27", got)
	}

	scored := ScoreCourses([]domcat.Course{sc, web}, "web development")
	if len(scored) != 2 || scored[0].Course.ID != "w" {
		t.Fatalf("ranking = %+v, want web course first", scored)
	}
	if scored[0].Score-ScoreCourse(web, []string{"development"}) < domainBonus {
		t.Errorf("web score %d lacks the domain bonus", scored[0].Score)
	}
}

func TestScoreCourse_DesignAndDataBonus(t *testing.T) {
	design := domcat.Course{Title: "X", Category: "DESIGN"}
	if got := ScoreCourse(design, []string{"figma"}); got != domainBonus {
		t.Errorf("design score = %d, want %d", got, domainBonus)
	}
	ml := domcat.Course{Title: "X", Category: "Machine Learning"}
	if got := ScoreCourse(ml, []string{"python"}); got != domainBonus {
		t.Errorf("data score = %d, want %d", got, domainBonus)
	}
}

func TestScoreCourse_MonotonicInOccurrences(t *testing.T) {
	prev := -1
	for n := 0; n < 5; n++ {
		c := domcat.Course{Title: "Course", Category: "DEVELOPMENT", Description: strings.Repeat("solidity ", n)}
		got := ScoreCourse(c, []string{"solidity", "course"})
		if got < prev {
			t.Errorf("score with %d occurrences = %d, below %d", n, got, prev)
		}
		prev = got
	}
}

func TestScoreCourses_ExcludesZeroAndCaps(t *testing.T) {
	var courses []domcat.Course
	for i := 0; i < 10; i++ {
		courses = append(courses, domcat.Course{ID: string(rune('a' + i)), Title: "Rust", Category: "SYSTEMS"})
	}
	courses = append(courses, domcat.Course{ID: "z", Title: "Go", Category: "SYSTEMS"})

	scored := ScoreCourses(courses, "rust")
	if len(scored) != CandidateLimit {
		t.Fatalf("got %d candidates, want %d", len(scored), CandidateLimit)
	}
	for i, s := range scored {
		if s.Course.ID != string(rune('a'+i)) {
			t.Errorf("candidate %d = %s, ties must keep catalog order", i, s.Course.ID)
		}
	}
}
