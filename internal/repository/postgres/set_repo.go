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

const setTable = "workout_sets"

var setColumns = []string{"id", "user_id", "workout_log_id", "set_number", "weight", "reps", "is_completed", "created_at"}

type setRepository struct {
	db *sqlx.DB
}

func NewSetRepository(db *sqlx.DB) repository.SetRepository {
	return &setRepository{db: db}
}

// CreateMany inserts every set in a single statement and stamps IDs in place.
func (r *setRepository) CreateMany(ctx context.Context, sets []domain.WorkoutSet) error {
	if len(sets) == 0 {
		return nil
	}
	now := time.Now().UTC()
	b := psql.Insert(setTable).Columns(setColumns...)
	for i := range sets {
		s := &sets[i]
		if s.WorkoutLogID == "" {
			return errors.New("set requires workout_log_id")
		}
		s.ID = uuid.NewString()
		s.CreatedAt = now
		b = b.Values(s.ID, s.UserID, s.WorkoutLogID, s.SetNumber, s.Weight, s.Reps, s.IsCompleted, s.CreatedAt)
	}
	_, err := exec(ctx, r.db, b)
	return err
}

func (r *setRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutSet, error) {
	var s domain.WorkoutSet
	if err := getInto(ctx, r.db, &s, psql.Select(setColumns...).From(setTable).Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *setRepository) ListByLogIDs(ctx context.Context, logIDs []string) ([]domain.WorkoutSet, error) {
	if len(logIDs) == 0 {
		return []domain.WorkoutSet{}, nil
	}
	return r.list(ctx, sq.Eq{"workout_log_id": logIDs})
}

func (r *setRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSet, error) {
	return r.list(ctx, sq.Eq{"user_id": userID})
}

func (r *setRepository) Update(ctx context.Context, s *domain.WorkoutSet) error {
	b := psql.Update(setTable).
		Set("weight", s.Weight).
		Set("reps", s.Reps).
		Where(sq.Eq{"id": s.ID})
	n, err := exec(ctx, r.db, b)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *setRepository) list(ctx context.Context, where sq.Eq) ([]domain.WorkoutSet, error) {
	sets := []domain.WorkoutSet{}
	b := psql.Select(setColumns...).From(setTable).Where(where).OrderBy("workout_log_id", "set_number")
	err := selectInto(ctx, r.db, &sets, b)
	return sets, err
}
