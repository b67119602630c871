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

const logTable = "workout_logs"

var logColumns = []string{"id", "user_id", "exercise_id", "workout_session_id", "notes", "created_at", "updated_at"}

type logRepository struct {
	db *sqlx.DB
}

func NewLogRepository(db *sqlx.DB) repository.LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, l *domain.WorkoutLog) (string, error) {
	if l.UserID == "" || l.ExerciseID == "" || l.WorkoutSessionID == "" {
		return "", errors.New("log requires user_id, exercise_id and workout_session_id")
	}
	l.ID = uuid.NewString()
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	b := psql.Insert(logTable).
		Columns(logColumns...).
		Values(l.ID, l.UserID, l.ExerciseID, l.WorkoutSessionID, l.Notes, l.CreatedAt, l.UpdatedAt)
	if _, err := exec(ctx, r.db, b); err != nil {
		return "", err
	}
	return l.ID, nil
}

func (r *logRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutLog, error) {
	return r.list(ctx, sq.Eq{"user_id": userID})
}

func (r *logRepository) ListByUserAndExercises(ctx context.Context, userID string, exerciseIDs []string) ([]domain.WorkoutLog, error) {
	if len(exerciseIDs) == 0 {
		return []domain.WorkoutLog{}, nil
	}
	return r.list(ctx, sq.Eq{"user_id": userID, "exercise_id": exerciseIDs})
}

func (r *logRepository) ListBySession(ctx context.Context, userID, sessionID string) ([]domain.WorkoutLog, error) {
	return r.list(ctx, sq.Eq{"user_id": userID, "workout_session_id": sessionID})
}

func (r *logRepository) list(ctx context.Context, where sq.Eq) ([]domain.WorkoutLog, error) {
	logs := []domain.WorkoutLog{}
	b := psql.Select(logColumns...).From(logTable).Where(where).OrderBy("created_at DESC", "id DESC")
	err := selectInto(ctx, r.db, &logs, b)
	return logs, err
}
