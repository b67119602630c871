package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const defaultTimeout = 10 * time.Second

// Postgres error codes surfaced by the store.
const (
	codeUniqueViolation       = "23505"
	codeForeignKeyViolation   = "23503"
	codeInsufficientPrivilege = "42501"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	username      TEXT NOT NULL DEFAULT '',
	full_name     TEXT NOT NULL DEFAULT '',
	avatar_url    TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'coach', 'owner', 'admin')),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS uniq_users_username ON users(username) WHERE username <> '';

CREATE TABLE IF NOT EXISTS exercises (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	muscle_group TEXT NOT NULL DEFAULT '',
	equipment    TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	img_url      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_exercises_name ON exercises(name);

CREATE TABLE IF NOT EXISTS workout_sessions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	session_date     DATE NOT NULL,
	session_name     TEXT NOT NULL DEFAULT '',
	duration_minutes INT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT uniq_user_session_date UNIQUE (user_id, session_date)
);

CREATE TABLE IF NOT EXISTS workout_logs (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	exercise_id        TEXT NOT NULL REFERENCES exercises(id),
	workout_session_id TEXT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
	notes              TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_workout_logs_user_exercise ON workout_logs(user_id, exercise_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_workout_logs_session ON workout_logs(workout_session_id);

CREATE TABLE IF NOT EXISTS workout_sets (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	workout_log_id TEXT NOT NULL REFERENCES workout_logs(id) ON DELETE CASCADE,
	set_number     INT NOT NULL,
	weight         NUMERIC,
	reps           INT NOT NULL DEFAULT 0,
	is_completed   BOOLEAN NOT NULL DEFAULT false,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_workout_sets_log ON workout_sets(workout_log_id, set_number);
CREATE INDEX IF NOT EXISTS idx_workout_sets_user ON workout_sets(user_id);

CREATE TABLE IF NOT EXISTS programs (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	name        TEXT NOT NULL,
	focus_area  TEXT NOT NULL,
	level       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_programs_user ON programs(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS program_exercises (
	id          TEXT PRIMARY KEY,
	program_id  TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
	exercise_id TEXT NOT NULL REFERENCES exercises(id),
	order_index INT NOT NULL,
	sets_target INT NOT NULL DEFAULT 3,
	reps_target INT NOT NULL DEFAULT 10,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_program_exercises_program ON program_exercises(program_id, order_index);

CREATE TABLE IF NOT EXISTS program_shares (
	id                  TEXT PRIMARY KEY,
	program_id          TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
	shared_by_user_id   TEXT NOT NULL,
	shared_with_user_id TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT uniq_program_recipient UNIQUE (program_id, shared_with_user_id)
);
`

// Connect opens a pooled connection to dsn and pings it.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return sqlx.ConnectContext(ctx, "postgres", dsn)
}

// Migrate ensures tables and constraints exist. Call once at startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// NewStore wires every table-backed repository of db.
func NewStore(db *sqlx.DB) *repository.Store {
	return &repository.Store{
		Exercises:        NewExerciseRepository(db),
		Sessions:         NewSessionRepository(db),
		Logs:             NewLogRepository(db),
		Sets:             NewSetRepository(db),
		Programs:         NewProgramRepository(db),
		ProgramExercises: NewProgramExerciseRepository(db),
		Shares:           NewShareRepository(db),
		Users:            NewUserRepository(db),
	}
}

// mapError converts driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return repository.ErrDuplicate
		case codeForeignKeyViolation:
			return repository.ErrMissingReference
		case codeInsufficientPrivilege:
			return repository.ErrPermissionDenied
		}
	}
	return err
}

func selectInto(ctx context.Context, db *sqlx.DB, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return mapError(db.SelectContext(ctx, dest, query, args...))
}

func getInto(ctx context.Context, db *sqlx.DB, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return mapError(db.GetContext(ctx, dest, query, args...))
}

// exec runs b and returns the number of affected rows.
func exec(ctx context.Context, db *sqlx.DB, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}
