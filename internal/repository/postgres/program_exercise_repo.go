package postgres

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const programExerciseTable = "program_exercises"

var programExerciseColumns = []string{"id", "program_id", "exercise_id", "order_index", "sets_target", "reps_target", "created_at"}

type programExerciseRepository struct {
	db *sqlx.DB
}

func NewProgramExerciseRepository(db *sqlx.DB) repository.ProgramExerciseRepository {
	return &programExerciseRepository{db: db}
}

func (r *programExerciseRepository) Create(ctx context.Context, pe *domain.ProgramExercise) (string, error) {
	if pe.ProgramID == "" || pe.ExerciseID == "" {
		return "", errors.New("program exercise requires program_id and exercise_id")
	}
	pe.ID = uuid.NewString()
	pe.CreatedAt = time.Now().UTC()

	b := psql.Insert(programExerciseTable).
		Columns(programExerciseColumns...).
		Values(pe.ID, pe.ProgramID, pe.ExerciseID, pe.OrderIndex, pe.SetsTarget, pe.RepsTarget, pe.CreatedAt)
	if _, err := exec(ctx, r.db, b); err != nil {
		return "", err
	}
	return pe.ID, nil
}

func (r *programExerciseRepository) GetByID(ctx context.Context, id string) (*domain.ProgramExercise, error) {
	var pe domain.ProgramExercise
	b := psql.Select(programExerciseColumns...).From(programExerciseTable).Where(sq.Eq{"id": id})
	if err := getInto(ctx, r.db, &pe, b); err != nil {
		return nil, err
	}
	return &pe, nil
}

func (r *programExerciseRepository) CountByProgram(ctx context.Context, programID string) (int, error) {
	var n int
	err := getInto(ctx, r.db, &n, psql.Select("COUNT(*)").From(programExerciseTable).Where(sq.Eq{"program_id": programID}))
	return n, err
}

func (r *programExerciseRepository) ListByPrograms(ctx context.Context, programIDs []string) ([]domain.ProgramExercise, error) {
	items := []domain.ProgramExercise{}
	if len(programIDs) == 0 {
		return items, nil
	}
	b := psql.Select(programExerciseColumns...).From(programExerciseTable).
		Where(sq.Eq{"program_id": programIDs}).
		OrderBy("program_id", "order_index")
	err := selectInto(ctx, r.db, &items, b)
	return items, err
}

func (r *programExerciseRepository) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.db, psql.Delete(programExerciseTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *programExerciseRepository) DeleteByProgram(ctx context.Context, programID string) error {
	_, err := exec(ctx, r.db, psql.Delete(programExerciseTable).Where(sq.Eq{"program_id": programID}))
	return err
}
