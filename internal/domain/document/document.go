package document

import (
	"fmt"
	"strings"

	"github.com/studyalong/recommender/internal/domain/catalog"
)

// Document is the searchable projection of one catalog item (immutable value object).
type Document[T any] struct {
	id       string
	text     string
	keywords []string
	position int
	item     T
}

// New creates a Document. position is the item's index in the catalog and
// breaks score ties in catalog order.
func New[T any](id, text string, keywords []string, position int, item T) Document[T] {
	return Document[T]{
		id:       id,
		text:     text,
		keywords: append([]string(nil), keywords...),
		position: position,
		item:     item,
	}
}

// ID returns the identifier of the originating catalog item.
func (d *Document[T]) ID() string { return d.id }

// Text returns the text blob used for matching.
func (d *Document[T]) Text() string { return d.text }

// Keywords returns the structured terms weighted above free text by keyword matching.
func (d *Document[T]) Keywords() []string { return d.keywords }

// Position returns the item's index in the catalog.
func (d *Document[T]) Position() int { return d.position }

// Item returns the originating catalog item.
func (d *Document[T]) Item() T { return d.item }

// FromCourse projects a course into its retrieval text.
func FromCourse(c catalog.Course, position int) Document[catalog.Course] {
	text := fmt.Sprintf("Title: %s. Description: %s. Level: %s. Category: %s.",
		c.Title, c.Description, c.Level, c.Category)
	return New(c.ID, text, nil, position, c)
}

// FromVibe projects a vibe profile; its parameter values become keywords.
func FromVibe(v catalog.VibeProfile, position int) Document[catalog.VibeProfile] {
	return New(v.Tag, v.Description, v.Parameters.Values(), position, v)
}

// Courses projects the course catalog in order.
func Courses(courses []catalog.Course) []Document[catalog.Course] {
	docs := make([]Document[catalog.Course], len(courses))
	for i, c := range courses {
		docs[i] = FromCourse(c, i)
	}
	return docs
}

// Vibes projects the vibe catalog in order.
func Vibes(vibes []catalog.VibeProfile) []Document[catalog.VibeProfile] {
	docs := make([]Document[catalog.VibeProfile], len(vibes))
	for i, v := range vibes {
		docs[i] = FromVibe(v, i)
	}
	return docs
}

// Texts returns the text blobs of docs in order.
func Texts[T any](docs []Document[T]) []string {
	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].text
	}
	return texts
}

// MatchText returns the lowercased "title description category" blob used by keyword scoring.
func MatchText(c catalog.Course) string {
	return strings.ToLower(c.Title + " " + c.Description + " " + c.Category)
}
