// Package catalog narrows the exercise catalog by tags and free text and
// pages through the result.
package catalog

import (
	"strings"

	"alcyxob/workout-tracker/internal/domain"
)

// DefaultPageSize is the number of exercises shown per page.
const DefaultPageSize = 24

// Criteria selects exercises. Zero values match everything. Equipment and
// MuscleGroups use AND semantics: every listed tag must be present.
type Criteria struct {
	Category     domain.Category `json:"category,omitempty" form:"category"`
	Equipment    []string        `json:"equipment,omitempty" form:"equipment"`
	MuscleGroups []string        `json:"muscle_groups,omitempty" form:"muscle_group"`
	Text         string          `json:"q,omitempty" form:"q"`
}

// SplitTags splits a comma-joined tag list, trimming blanks and dropping
// empty entries.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// hasAll reports whether every required tag is in the comma-joined list.
func hasAll(list string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := SplitTags(list)
	for _, want := range required {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		found := false
		for _, h := range have {
			if strings.EqualFold(h, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Match reports whether e satisfies every part of c.
func (c Criteria) Match(e domain.Exercise) bool {
	if c.Category != "" && !strings.EqualFold(string(c.Category), string(e.Category)) {
		return false
	}
	if !hasAll(e.Equipment, c.Equipment) || !hasAll(e.MuscleGroup, c.MuscleGroups) {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(c.Text))
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), text) ||
		strings.Contains(strings.ToLower(e.MuscleGroup), text)
}

// Filter returns the exercises matching c, in their original order.
func Filter(exercises []domain.Exercise, c Criteria) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(exercises))
	for _, e := range exercises {
		if c.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
