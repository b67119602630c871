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

const userTable = "users"

var userColumns = []string{"id", "email", "username", "full_name", "avatar_url", "password_hash", "role", "created_at", "updated_at"}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	if u.Email == "" || u.PasswordHash == "" || u.Role == "" {
		return "", errors.New("user email, password hash, and role are required")
	}
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	b := psql.Insert(userTable).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Username, u.FullName, u.AvatarURL, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if _, err := exec(ctx, r.db, b); err != nil {
		return "", err
	}
	return u.ID, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, sq.Eq{"email": email})
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, sq.Eq{"id": id})
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := selectInto(ctx, r.db, &users, psql.Select(userColumns...).From(userTable).OrderBy("created_at DESC"))
	return users, err
}

// UpdateRole fails with ErrPermissionDenied when the database role lacks the
// privilege, which row-level security policies enforce for non-admins.
func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	b := psql.Update(userTable).
		Set("role", role).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	n, err := exec(ctx, r.db, b)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.db, psql.Delete(userTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) get(ctx context.Context, where sq.Eq) (*domain.User, error) {
	var u domain.User
	if err := getInto(ctx, r.db, &u, psql.Select(userColumns...).From(userTable).Where(where)); err != nil {
		return nil, err
	}
	return &u, nil
}
