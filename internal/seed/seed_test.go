package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
exercises:
  - id: bench-press
    name: Bench Press
    category: Chest
    muscle_group: " Chest , Triceps "
    equipment: Barbell,Bench
    description: Flat barbell press
  - id: squat
    name: Squat
    category: legs
    muscle_group: Quadriceps
    equipment: Barbell
`

func TestDecode(t *testing.T) {
	c, err := Decode(strings.NewReader(catalogYAML))
	require.NoError(t, err)
	require.Len(t, c.Exercises, 2)

	bench := c.Exercises[0]
	assert.Equal(t, domain.CategoryChest, bench.Category)
	assert.Equal(t, "Chest,Triceps", bench.MuscleGroup)
	assert.Equal(t, "Flat barbell press", bench.Description)
}

func TestDecodeReportsEveryInvalidEntry(t *testing.T) {
	doc := `
exercises:
  - id: ""
    name: Nameless
    category: chest
    muscle_group: Chest
  - id: plank
    name: Plank
    category: abs
    muscle_group: Core
  - id: squat
    name: Squat
    category: legs
    muscle_group: Quadriceps
  - id: squat
    name: Squat again
    category: legs
    muscle_group: Quadriceps
`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
	assert.Contains(t, err.Error(), `unknown category "abs"`)
	assert.Contains(t, err.Error(), `id "squat" already used by #3`)
}

func TestDecodeRejectsUnknownFieldsAndEmptyDocuments(t *testing.T) {
	_, err := Decode(strings.NewReader("exercises:\n  - id: x\n    colour: red\n"))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = Decode(strings.NewReader("exercises: []\n"))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	c, err := Decode(strings.NewReader(catalogYAML))
	require.NoError(t, err)

	n, err := Apply(ctx, store.Exercises, c)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = Apply(ctx, store.Exercises, c)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.Exercises.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

type failingExercises struct {
	repository.ExerciseRepository
}

func (failingExercises) Upsert(context.Context, *domain.Exercise) error {
	return errors.New("disk full")
}

func TestApplyStopsOnStoreError(t *testing.T) {
	c, err := Decode(strings.NewReader(catalogYAML))
	require.NoError(t, err)

	n, err := Apply(context.Background(), failingExercises{}, c)
	assert.Zero(t, n)
	assert.ErrorContains(t, err, `upsert "bench-press"`)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exercises.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Exercises, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := LoadFile(filepath.Join("..", "..", "configs", "exercises.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.Exercises)
}
