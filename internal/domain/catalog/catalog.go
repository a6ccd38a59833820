// Package catalog holds the typed catalog records served by the recommender.
// Records are immutable after ingestion: the loader validates them once and
// every consumer receives copies.
package catalog

// Course is a recommendable course.
type Course struct {
	ID          string  `yaml:"id" json:"id" validate:"required"`
	Title       string  `yaml:"title" json:"title" validate:"required"`
	Description string  `yaml:"description" json:"description"`
	Price       float64 `yaml:"price" json:"price" validate:"gte=0"`
	Duration    int     `yaml:"duration" json:"duration" validate:"gte=0"`
	Level       string  `yaml:"level" json:"level" validate:"required"`
	Thumbnail   string  `yaml:"thumbnail" json:"thumbnail"`
	Category    string  `yaml:"category" json:"category" validate:"required"`
	EducatorID  string  `yaml:"educator_id" json:"educatorId"`
	Published   bool    `yaml:"published" json:"published"`
}

// VibeParameters are the structured study-habit dimensions of a vibe profile.
type VibeParameters struct {
	Sound  string `yaml:"sound" json:"sound" validate:"required"`
	Rhythm string `yaml:"rhythm" json:"rhythm" validate:"required"`
	Time   string `yaml:"time" json:"time" validate:"required"`
}

// Values returns the parameter values in sound, rhythm, time order.
func (p VibeParameters) Values() []string {
	return []string{p.Sound, p.Rhythm, p.Time}
}

// VibeProfile is a study-habit archetype matched from free text.
type VibeProfile struct {
	Tag         string         `yaml:"vibe_tag" json:"vibe_tag" validate:"required"`
	Parameters  VibeParameters `yaml:"parameters" json:"parameters"`
	Description string         `yaml:"description" json:"description" validate:"required"`
}

// Catalog is the full static catalog of the process.
type Catalog struct {
	Courses []Course      `yaml:"courses" validate:"dive"`
	Vibes   []VibeProfile `yaml:"vibes" validate:"dive"`
}
