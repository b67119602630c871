package memory

import (
	"context"
	"errors"
	"slices"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
)

type programRepository struct{ *db }

func (r *programRepository) Create(_ context.Context, program *domain.Program) (string, error) {
	if program.UserID == "" || program.Name == "" {
		return "", errors.New("program requires user_id and name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	program.ID = uuid.NewString()
	program.CreatedAt = r.now()
	program.UpdatedAt = program.CreatedAt
	stored := *program
	stored.Exercises = nil
	r.programs[program.ID] = row[domain.Program]{seq: r.next(), val: stored}
	return program.ID, nil
}

func (r *programRepository) GetByID(_ context.Context, id string) (*domain.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := p.val
	return &v, nil
}

func (r *programRepository) ListByUser(_ context.Context, userID string) ([]domain.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.programs,
		func(p domain.Program) bool { return p.UserID == userID },
		func(a, b domain.Program) int { return b.CreatedAt.Compare(a.CreatedAt) },
		true), nil
}

func (r *programRepository) Update(_ context.Context, program *domain.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[program.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.val.Name = program.Name
	p.val.FocusArea = program.FocusArea
	p.val.Level = program.Level
	p.val.Description = program.Description
	p.val.UpdatedAt = r.now()
	program.UpdatedAt = p.val.UpdatedAt
	r.programs[program.ID] = p
	return nil
}

// Delete removes the program and, like the SQL cascade, its exercises and shares.
func (r *programRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok || p.val.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.programs, id)
	for k, pe := range r.programExercises {
		if pe.val.ProgramID == id {
			delete(r.programExercises, k)
		}
	}
	for k, s := range r.shares {
		if s.val.ProgramID == id {
			delete(r.shares, k)
		}
	}
	return nil
}

type programExerciseRepository struct{ *db }

func (r *programExerciseRepository) Create(_ context.Context, pe *domain.ProgramExercise) (string, error) {
	if pe.ProgramID == "" || pe.ExerciseID == "" {
		return "", errors.New("program exercise requires program_id and exercise_id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pe.ID = uuid.NewString()
	pe.CreatedAt = r.now()
	stored := *pe
	stored.Exercise = nil
	r.programExercises[pe.ID] = row[domain.ProgramExercise]{seq: r.next(), val: stored}
	return pe.ID, nil
}

func (r *programExerciseRepository) GetByID(_ context.Context, id string) (*domain.ProgramExercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pe, ok := r.programExercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := pe.val
	return &v, nil
}

func (r *programExerciseRepository) CountByProgram(_ context.Context, programID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, pe := range r.programExercises {
		if pe.val.ProgramID == programID {
			n++
		}
	}
	return n, nil
}

func (r *programExerciseRepository) ListByPrograms(_ context.Context, programIDs []string) ([]domain.ProgramExercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.programExercises,
		func(pe domain.ProgramExercise) bool { return slices.Contains(programIDs, pe.ProgramID) },
		func(a, b domain.ProgramExercise) int {
			if c := strings.Compare(a.ProgramID, b.ProgramID); c != 0 {
				return c
			}
			return a.OrderIndex - b.OrderIndex
		},
		false), nil
}

func (r *programExerciseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programExercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.programExercises, id)
	return nil
}

func (r *programExerciseRepository) DeleteByProgram(_ context.Context, programID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, pe := range r.programExercises {
		if pe.val.ProgramID == programID {
			delete(r.programExercises, k)
		}
	}
	return nil
}

type shareRepository struct{ *db }

func (r *shareRepository) FindByProgramAndRecipient(_ context.Context, programID, sharedWithUserID string) (*domain.ProgramShare, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.shares {
		if s.val.ProgramID == programID && s.val.SharedWithUserID == sharedWithUserID {
			v := s.val
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *shareRepository) Create(_ context.Context, share *domain.ProgramShare) (string, error) {
	if share.ProgramID == "" || share.SharedByUserID == "" || share.SharedWithUserID == "" {
		return "", errors.New("share requires program_id, shared_by_user_id and shared_with_user_id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shares {
		if s.val.ProgramID == share.ProgramID && s.val.SharedWithUserID == share.SharedWithUserID {
			return "", repository.ErrDuplicate
		}
	}
	share.ID = uuid.NewString()
	share.CreatedAt = r.now()
	r.shares[share.ID] = row[domain.ProgramShare]{seq: r.next(), val: *share}
	return share.ID, nil
}

func (r *shareRepository) GetByID(_ context.Context, id string) (*domain.ProgramShare, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shares[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := s.val
	return &v, nil
}

func (r *shareRepository) ListForUser(_ context.Context, userID string) ([]domain.ProgramShare, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.shares,
		func(s domain.ProgramShare) bool { return s.SharedByUserID == userID || s.SharedWithUserID == userID },
		func(a, b domain.ProgramShare) int { return b.CreatedAt.Compare(a.CreatedAt) },
		true), nil
}

func (r *shareRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shares[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.shares, id)
	return nil
}

func (r *shareRepository) DeleteByProgram(_ context.Context, programID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, s := range r.shares {
		if s.val.ProgramID == programID {
			delete(r.shares, k)
		}
	}
	return nil
}
