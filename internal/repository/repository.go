package repository

import (
	"alcyxob/workout-tracker/internal/domain" // Import our defined domain models
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound         = RepositoryError("not found")
	ErrDuplicate        = RepositoryError("duplicate key")
	ErrPermissionDenied = RepositoryError("permission denied")
	ErrUpdateFailed     = RepositoryError("update failed")
	ErrDeleteFailed     = RepositoryError("delete failed")
	// ErrMissingReference is returned when a row points at a row that does not exist.
	ErrMissingReference = RepositoryError("referenced row not found")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseRepository reads the exercise catalog. Upsert exists for seeding only.
type ExerciseRepository interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Exercise, error)
	Upsert(ctx context.Context, exercise *domain.Exercise) error
}

// SessionRepository stores workout sessions. Create returns ErrDuplicate when
// the (user, date) pair already has a session.
type SessionRepository interface {
	FindByUserAndDate(ctx context.Context, userID, date string) (*domain.WorkoutSession, error)
	Create(ctx context.Context, session *domain.WorkoutSession) (string, error)
	GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error)
	ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error) // newest session_date first
	Update(ctx context.Context, session *domain.WorkoutSession) error
}

// LogRepository stores workout logs. All list methods return newest first.
type LogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.WorkoutLog, error)
	ListByUserAndExercises(ctx context.Context, userID string, exerciseIDs []string) ([]domain.WorkoutLog, error)
	ListBySession(ctx context.Context, userID, sessionID string) ([]domain.WorkoutLog, error)
}

// SetRepository stores workout sets. List methods order by set_number.
type SetRepository interface {
	CreateMany(ctx context.Context, sets []domain.WorkoutSet) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutSet, error)
	ListByLogIDs(ctx context.Context, logIDs []string) ([]domain.WorkoutSet, error)
	ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSet, error)
	Update(ctx context.Context, set *domain.WorkoutSet) error
}

// ProgramRepository stores programs. Delete is scoped to the owner.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Program, error) // newest first
	Update(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id, userID string) error
}

// ProgramExerciseRepository stores the exercises of programs.
type ProgramExerciseRepository interface {
	Create(ctx context.Context, pe *domain.ProgramExercise) (string, error)
	GetByID(ctx context.Context, id string) (*domain.ProgramExercise, error)
	CountByProgram(ctx context.Context, programID string) (int, error)
	ListByPrograms(ctx context.Context, programIDs []string) ([]domain.ProgramExercise, error) // order_index ascending
	Delete(ctx context.Context, id string) error
	DeleteByProgram(ctx context.Context, programID string) error
}

// ShareRepository stores program shares. Create returns ErrDuplicate when the
// program is already shared with the recipient.
type ShareRepository interface {
	FindByProgramAndRecipient(ctx context.Context, programID, sharedWithUserID string) (*domain.ProgramShare, error)
	Create(ctx context.Context, share *domain.ProgramShare) (string, error)
	GetByID(ctx context.Context, id string) (*domain.ProgramShare, error)
	ListForUser(ctx context.Context, userID string) ([]domain.ProgramShare, error) // shared by or with userID, newest first
	Delete(ctx context.Context, id string) error
	DeleteByProgram(ctx context.Context, programID string) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error) // newest first
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Exercises        ExerciseRepository
	Sessions         SessionRepository
	Logs             LogRepository
	Sets             SetRepository
	Programs         ProgramRepository
	ProgramExercises ProgramExerciseRepository
	Shares           ShareRepository
	Users            UserRepository
}
