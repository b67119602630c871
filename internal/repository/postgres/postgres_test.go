package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "session_date", "session_name", "duration_minutes", "created_at", "updated_at"}

	t.Run("find by user and date", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewSessionRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, session_date::text AS session_date, session_name, duration_minutes, created_at, updated_at FROM workout_sessions WHERE session_date = $1 AND user_id = $2")).
			WithArgs("2024-03-01", "u1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("s1", "u1", "2024-03-01", "Workout", nil, now, now))

		session, err := repo.FindByUserAndDate(ctx, "u1", "2024-03-01")
		require.NoError(t, err)
		assert.Equal(t, "s1", session.ID)
		assert.Equal(t, "2024-03-01", session.SessionDate)
		assert.Nil(t, session.DurationMinutes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing session", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewSessionRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM workout_sessions").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.FindByUserAndDate(ctx, "u1", "2024-03-01")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("unique violation maps to duplicate", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewSessionRepository(db)

		mock.ExpectExec("INSERT INTO workout_sessions").
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"uniq_user_session_date\""})

		_, err := repo.Create(ctx, &domain.WorkoutSession{UserID: "u1", SessionDate: "2024-03-01", SessionName: "Workout"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update missing session", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewSessionRepository(db)

		mock.ExpectExec("UPDATE workout_sessions SET session_name = \\$1, duration_minutes = \\$2, updated_at = \\$3 WHERE id = \\$4").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &domain.WorkoutSession{ID: "nope", SessionName: "Legs"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSetRepository(t *testing.T) {
	ctx := context.Background()
	cols := []string{"id", "user_id", "workout_log_id", "set_number", "weight", "reps", "is_completed", "created_at"}
	now := time.Now().UTC()

	t.Run("numeric weights are coerced", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewSetRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM workout_sets WHERE workout_log_id IN ($1,$2) ORDER BY workout_log_id, set_number")).
			WithArgs("l1", "l2").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("a", "u1", "l1", 1, []byte("20.5"), 10, true, now).
				AddRow("b", "u1", "l1", 2, nil, 8, true, now).
				AddRow("c", "u1", "l2", 1, int64(30), 5, true, now))

		sets, err := repo.ListByLogIDs(ctx, []string{"l1", "l2"})
		require.NoError(t, err)
		require.Len(t, sets, 3)
		assert.Equal(t, 20.5, sets[0].Weight.Float64())
		assert.Equal(t, 0.0, sets[1].Weight.Float64())
		assert.Equal(t, 30.0, sets[2].Weight.Float64())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ids skip the query", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewSetRepository(db)

		sets, err := repo.ListByLogIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, sets)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create many is one statement", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewSetRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO workout_sets (id,user_id,workout_log_id,set_number,weight,reps,is_completed,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8),($9,$10,$11,$12,$13,$14,$15,$16)")).
			WillReturnResult(sqlmock.NewResult(0, 2))

		sets := []domain.WorkoutSet{
			{UserID: "u1", WorkoutLogID: "l1", SetNumber: 1, Weight: 20, Reps: 10, IsCompleted: true},
			{UserID: "u1", WorkoutLogID: "l1", SetNumber: 2, Weight: 25, Reps: 8, IsCompleted: true},
		}
		require.NoError(t, repo.CreateMany(ctx, sets))
		assert.NotEmpty(t, sets[0].ID)
		assert.NotEmpty(t, sets[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShareRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("list for sharer or recipient", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewShareRepository(db)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("WHERE (shared_by_user_id = $1 OR shared_with_user_id = $2) ORDER BY created_at DESC")).
			WithArgs("u1", "u1").
			WillReturnRows(sqlmock.NewRows(shareColumns).
				AddRow("sh2", "p2", "u3", "u1", now).
				AddRow("sh1", "p1", "u1", "u2", now.Add(-time.Hour)))

		shares, err := repo.ListForUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, shares, 2)
		assert.Equal(t, "sh2", shares[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate share", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewShareRepository(db)

		mock.ExpectExec("INSERT INTO program_shares").
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(ctx, &domain.ProgramShare{ProgramID: "p1", SharedByUserID: "u1", SharedWithUserID: "u2"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestLogRepository_UnknownExercise(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLogRepository(db)

	mock.ExpectExec("INSERT INTO workout_logs").
		WillReturnError(&pq.Error{Code: "23503", Message: "insert or update on table \"workout_logs\" violates foreign key constraint"})

	_, err := repo.Create(context.Background(), &domain.WorkoutLog{UserID: "u1", ExerciseID: "no-such-exercise", WorkoutSessionID: "s1"})
	assert.ErrorIs(t, err, repository.ErrMissingReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramExerciseRepository_CountByProgram(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProgramExerciseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM program_exercises WHERE program_id = $1")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByProgram(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepository_DeleteScopedToOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProgramRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM programs WHERE id = $1 AND user_id = $2")).
		WithArgs("p1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "p1", "intruder")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_PermissionDenied(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET role").
		WillReturnError(&pq.Error{Code: "42501", Message: "permission denied for table users"})

	err := repo.UpdateRole(context.Background(), "u2", domain.RoleAdmin)
	assert.ErrorIs(t, err, repository.ErrPermissionDenied)
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`(?s)CREATE TABLE IF NOT EXISTS users.*exercise_id +TEXT NOT NULL REFERENCES exercises\(id\)`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
