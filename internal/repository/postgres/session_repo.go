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

const sessionTable = "workout_sessions"

// session_date is a DATE column; it is read back as YYYY-MM-DD text.
var sessionColumns = []string{
	"id", "user_id", "session_date::text AS session_date", "session_name", "duration_minutes", "created_at", "updated_at",
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*domain.WorkoutSession, error) {
	return r.get(ctx, sq.Eq{"user_id": userID, "session_date": date})
}

// Create inserts a session. A concurrent insert for the same (user_id,
// session_date) fails the UNIQUE constraint and returns ErrDuplicate.
func (r *sessionRepository) Create(ctx context.Context, s *domain.WorkoutSession) (string, error) {
	if s.UserID == "" || s.SessionDate == "" {
		return "", errors.New("session requires user_id and session_date")
	}
	s.ID = uuid.NewString()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	b := psql.Insert(sessionTable).
		Columns("id", "user_id", "session_date", "session_name", "duration_minutes", "created_at", "updated_at").
		Values(s.ID, s.UserID, s.SessionDate, s.SessionName, s.DurationMinutes, s.CreatedAt, s.UpdatedAt)
	if _, err := exec(ctx, r.db, b); err != nil {
		return "", err
	}
	return s.ID, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	return r.get(ctx, sq.Eq{"id": id})
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	sessions := []domain.WorkoutSession{}
	b := psql.Select(sessionColumns...).From(sessionTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("workout_sessions.session_date DESC")
	err := selectInto(ctx, r.db, &sessions, b)
	return sessions, err
}

func (r *sessionRepository) Update(ctx context.Context, s *domain.WorkoutSession) error {
	if s.ID == "" {
		return errors.New("session ID is required for update")
	}
	s.UpdatedAt = time.Now().UTC()
	b := psql.Update(sessionTable).
		Set("session_name", s.SessionName).
		Set("duration_minutes", s.DurationMinutes).
		Set("updated_at", s.UpdatedAt).
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

func (r *sessionRepository) get(ctx context.Context, where sq.Eq) (*domain.WorkoutSession, error) {
	var s domain.WorkoutSession
	if err := getInto(ctx, r.db, &s, psql.Select(sessionColumns...).From(sessionTable).Where(where)); err != nil {
		return nil, err
	}
	return &s, nil
}
