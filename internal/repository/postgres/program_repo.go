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

const programTable = "programs"

var programColumns = []string{"id", "user_id", "name", "focus_area", "level", "description", "created_at", "updated_at"}

type programRepository struct {
	db *sqlx.DB
}

func NewProgramRepository(db *sqlx.DB) repository.ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, p *domain.Program) (string, error) {
	if p.UserID == "" || p.Name == "" {
		return "", errors.New("program requires user_id and name")
	}
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	b := psql.Insert(programTable).
		Columns(programColumns...).
		Values(p.ID, p.UserID, p.Name, p.FocusArea, p.Level, p.Description, p.CreatedAt, p.UpdatedAt)
	if _, err := exec(ctx, r.db, b); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (r *programRepository) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	var p domain.Program
	if err := getInto(ctx, r.db, &p, psql.Select(programColumns...).From(programTable).Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *programRepository) ListByUser(ctx context.Context, userID string) ([]domain.Program, error) {
	programs := []domain.Program{}
	b := psql.Select(programColumns...).From(programTable).Where(sq.Eq{"user_id": userID}).OrderBy("created_at DESC")
	err := selectInto(ctx, r.db, &programs, b)
	return programs, err
}

func (r *programRepository) Update(ctx context.Context, p *domain.Program) error {
	if p.ID == "" {
		return errors.New("program ID is required for update")
	}
	p.UpdatedAt = time.Now().UTC()
	b := psql.Update(programTable).
		SetMap(map[string]interface{}{
			"name":        p.Name,
			"focus_area":  p.FocusArea,
			"level":       p.Level,
			"description": p.Description,
			"updated_at":  p.UpdatedAt,
		}).
		Where(sq.Eq{"id": p.ID})
	n, err := exec(ctx, r.db, b)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program owned by userID. Its exercises and shares go with
// it through ON DELETE CASCADE.
func (r *programRepository) Delete(ctx context.Context, id, userID string) error {
	if id == "" || userID == "" {
		return errors.New("program ID and user ID are required for deletion")
	}
	n, err := exec(ctx, r.db, psql.Delete(programTable).Where(sq.Eq{"id": id, "user_id": userID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
