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

const shareTable = "program_shares"

var shareColumns = []string{"id", "program_id", "shared_by_user_id", "shared_with_user_id", "created_at"}

type shareRepository struct {
	db *sqlx.DB
}

func NewShareRepository(db *sqlx.DB) repository.ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) FindByProgramAndRecipient(ctx context.Context, programID, sharedWithUserID string) (*domain.ProgramShare, error) {
	return r.get(ctx, sq.Eq{"program_id": programID, "shared_with_user_id": sharedWithUserID})
}

func (r *shareRepository) Create(ctx context.Context, s *domain.ProgramShare) (string, error) {
	if s.ProgramID == "" || s.SharedByUserID == "" || s.SharedWithUserID == "" {
		return "", errors.New("share requires program_id, shared_by_user_id and shared_with_user_id")
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()

	b := psql.Insert(shareTable).
		Columns(shareColumns...).
		Values(s.ID, s.ProgramID, s.SharedByUserID, s.SharedWithUserID, s.CreatedAt)
	if _, err := exec(ctx, r.db, b); err != nil {
		return "", err
	}
	return s.ID, nil
}

func (r *shareRepository) GetByID(ctx context.Context, id string) (*domain.ProgramShare, error) {
	return r.get(ctx, sq.Eq{"id": id})
}

func (r *shareRepository) ListForUser(ctx context.Context, userID string) ([]domain.ProgramShare, error) {
	shares := []domain.ProgramShare{}
	b := psql.Select(shareColumns...).From(shareTable).
		Where(sq.Or{sq.Eq{"shared_by_user_id": userID}, sq.Eq{"shared_with_user_id": userID}}).
		OrderBy("created_at DESC")
	err := selectInto(ctx, r.db, &shares, b)
	return shares, err
}

func (r *shareRepository) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.db, psql.Delete(shareTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *shareRepository) DeleteByProgram(ctx context.Context, programID string) error {
	_, err := exec(ctx, r.db, psql.Delete(shareTable).Where(sq.Eq{"program_id": programID}))
	return err
}

func (r *shareRepository) get(ctx context.Context, where sq.Eq) (*domain.ProgramShare, error) {
	var s domain.ProgramShare
	if err := getInto(ctx, r.db, &s, psql.Select(shareColumns...).From(shareTable).Where(where)); err != nil {
		return nil, err
	}
	return &s, nil
}
