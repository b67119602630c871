// Package seed loads an exercise catalog from YAML into a store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var ErrEmptyCatalog = errors.New("catalog has no exercises")

// Catalog is the document layout of a seed file:
//
//	exercises:
//	  - id: bench-press
//	    name: Bench Press
//	    category: chest
//	    muscle_group: Chest,Triceps
//	    equipment: Barbell,Bench
type Catalog struct {
	Exercises []domain.Exercise `yaml:"exercises"`
}

// Decode parses and validates a catalog. Every invalid entry is reported.
func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Exercises) == 0 {
		return nil, ErrEmptyCatalog
	}

	var errs error
	seen := make(map[string]int, len(c.Exercises))
	for i := range c.Exercises {
		e := &c.Exercises[i]
		normalize(e)
		if err := validate(e); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exercise #%d (%q): %w", i+1, e.ID, err))
			continue
		}
		if first, dup := seen[e.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("exercise #%d: id %q already used by #%d", i+1, e.ID, first))
			continue
		}
		seen[e.ID] = i + 1
	}
	if errs != nil {
		return nil, errs
	}
	return &c, nil
}

// LoadFile decodes the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Apply upserts every exercise of c and returns how many were written. It
// stops at the first store error.
func Apply(ctx context.Context, repo repository.ExerciseRepository, c *Catalog) (int, error) {
	for i := range c.Exercises {
		e := c.Exercises[i]
		if err := repo.Upsert(ctx, &e); err != nil {
			return i, fmt.Errorf("upsert %q: %w", e.ID, err)
		}
	}
	log.WithField("exercises", len(c.Exercises)).Info("Exercise catalog seeded")
	return len(c.Exercises), nil
}

func normalize(e *domain.Exercise) {
	e.ID = strings.TrimSpace(e.ID)
	e.Name = strings.TrimSpace(e.Name)
	e.Category = domain.Category(strings.ToLower(strings.TrimSpace(string(e.Category))))
	e.MuscleGroup = strings.Join(splitTrim(e.MuscleGroup), ",")
	e.Equipment = strings.Join(splitTrim(e.Equipment), ",")
}

func splitTrim(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validate(e *domain.Exercise) error {
	switch {
	case e.ID == "":
		return errors.New("id is required")
	case e.Name == "":
		return errors.New("name is required")
	case !e.Category.Valid():
		return fmt.Errorf("unknown category %q", e.Category)
	case e.MuscleGroup == "":
		return errors.New("muscle_group is required")
	}
	return nil
}
