package memory

import (
	"context"
	"errors"
	"slices"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

type exerciseRepository struct{ *db }

func byName(a, b domain.Exercise) int { return strings.Compare(a.Name, b.Name) }

func (r *exerciseRepository) List(_ context.Context) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.exercises, func(domain.Exercise) bool { return true }, byName, false), nil
}

func (r *exerciseRepository) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := e.val
	return &v, nil
}

func (r *exerciseRepository) GetByIDs(_ context.Context, ids []string) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.exercises, func(e domain.Exercise) bool { return slices.Contains(ids, e.ID) }, byName, false), nil
}

func (r *exerciseRepository) Upsert(_ context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" || exercise.Name == "" {
		return errors.New("exercise id and name are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = r.now()
	}
	seq := r.next()
	if existing, ok := r.exercises[exercise.ID]; ok {
		seq = existing.seq
	}
	r.exercises[exercise.ID] = row[domain.Exercise]{seq: seq, val: *exercise}
	return nil
}
