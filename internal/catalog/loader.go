// Package catalog loads the static course and vibe catalog served by the process.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/studyalong/recommender/internal/domain"
	domcat "github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/validation"
)

//go:embed data/catalog.yaml
var embedded []byte

// Load reads the catalog from path, or the embedded catalog when path is empty.
// Every failure wraps domain.ErrCatalogInvalid: the process must not serve without a catalog.
func Load(path string) (*domcat.Catalog, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w: %w", path, domain.ErrCatalogInvalid, err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document. Unknown keys are rejected.
func Parse(data []byte) (*domcat.Catalog, error) {
	var c domcat.Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse catalog: %w: %w", domain.ErrCatalogInvalid, err)
	}
	if err := validation.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate catalog: %w: %w", domain.ErrCatalogInvalid, err)
	}
	if err := checkUnique(&c); err != nil {
		return nil, fmt.Errorf("validate catalog: %w: %w", domain.ErrCatalogInvalid, err)
	}
	return &c, nil
}

// checkUnique enforces one document per identifier.
func checkUnique(c *domcat.Catalog) error {
	ids := make(map[string]struct{}, len(c.Courses))
	for i, course := range c.Courses {
		if _, dup := ids[course.ID]; dup {
			return fmt.Errorf("courses[%d]: duplicate id %q", i, course.ID)
		}
		ids[course.ID] = struct{}{}
	}

	tags := make(map[string]struct{}, len(c.Vibes))
	for i, v := range c.Vibes {
		if _, dup := tags[v.Tag]; dup {
			return fmt.Errorf("vibes[%d]: duplicate vibe_tag %q", i, v.Tag)
		}
		tags[v.Tag] = struct{}{}
	}
	return nil
}
