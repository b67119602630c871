package memory

import (
	"context"
	"errors"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct{ *db }

func (r *userRepository) Create(_ context.Context, user *domain.User) (string, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return "", errors.New("user email, password hash, and role are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.val.Email == user.Email || (user.Username != "" && u.val.Username == user.Username) {
			return "", repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = row[domain.User]{seq: r.next(), val: *user}
	return user.ID, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.val.Email == email {
			v := u.val
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := u.val
	return &v, nil
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.users,
		func(domain.User) bool { return true },
		func(a, b domain.User) int { return b.CreatedAt.Compare(a.CreatedAt) },
		true), nil
}

func (r *userRepository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.val.Role = role
	u.val.UpdatedAt = r.now()
	r.users[id] = u
	return nil
}

func (r *userRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
