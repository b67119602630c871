package postgres

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const exerciseTable = "exercises"

var exerciseColumns = []string{"id", "name", "category", "muscle_group", "equipment", "description", "img_url", "created_at"}

type exerciseRepository struct {
	db *sqlx.DB
}

func NewExerciseRepository(db *sqlx.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}
	err := selectInto(ctx, r.db, &exercises, psql.Select(exerciseColumns...).From(exerciseTable).OrderBy("name"))
	return exercises, err
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := getInto(ctx, r.db, &exercise, psql.Select(exerciseColumns...).From(exerciseTable).Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *exerciseRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}
	if len(ids) == 0 {
		return exercises, nil
	}
	err := selectInto(ctx, r.db, &exercises, psql.Select(exerciseColumns...).From(exerciseTable).Where(sq.Eq{"id": ids}))
	return exercises, err
}

// Upsert inserts a catalog entry or overwrites the one with the same ID.
func (r *exerciseRepository) Upsert(ctx context.Context, e *domain.Exercise) error {
	if e.ID == "" || e.Name == "" {
		return errors.New("exercise id and name are required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	b := psql.Insert(exerciseTable).
		Columns(exerciseColumns...).
		Values(e.ID, e.Name, e.Category, e.MuscleGroup, e.Equipment, e.Description, e.ImgURL, e.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category,
			muscle_group = EXCLUDED.muscle_group, equipment = EXCLUDED.equipment,
			description = EXCLUDED.description, img_url = EXCLUDED.img_url`)
	_, err := exec(ctx, r.db, b)
	return err
}
