package service

import (
	"context"
	"errors"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCannotDemoteSelf = errors.New("admins cannot change their own role")
	ErrCannotDeleteSelf = errors.New("admins cannot delete their own account")
)

// UserService exposes profiles and the admin user management screen.
// Mutations by non-admins fail with ErrInsufficientPermissions, as do
// mutations the store itself refuses on privilege grounds.
type UserService interface {
	Profile(ctx context.Context, id domain.Identity) (*domain.User, error)
	List(ctx context.Context, id domain.Identity) ([]domain.User, error)
	UpdateRole(ctx context.Context, id domain.Identity, userID string, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id domain.Identity, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Profile(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return s.getUser(ctx, id.UserID)
}

func (s *userService) List(ctx context.Context, id domain.Identity) ([]domain.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, permissionError(err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) UpdateRole(ctx context.Context, id domain.Identity, userID string, role domain.Role) (*domain.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if userID == id.UserID && role != domain.RoleAdmin {
		return nil, ErrCannotDemoteSelf
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		log.WithError(err).WithFields(log.Fields{"admin_id": id.UserID, "user_id": userID}).Error("update role")
		return nil, permissionError(err)
	}
	log.WithFields(log.Fields{"admin_id": id.UserID, "user_id": userID, "role": role}).Info("role updated")
	return s.getUser(ctx, userID)
}

func (s *userService) Delete(ctx context.Context, id domain.Identity, userID string) error {
	if err := requireAdmin(id); err != nil {
		return err
	}
	if userID == id.UserID {
		return ErrCannotDeleteSelf
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		log.WithError(err).WithFields(log.Fields{"admin_id": id.UserID, "user_id": userID}).Error("delete user")
		return permissionError(err)
	}
	log.WithFields(log.Fields{"admin_id": id.UserID, "user_id": userID}).Info("user deleted")
	return nil
}

func (s *userService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, permissionError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func requireAdmin(id domain.Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !id.IsAdmin() {
		return ErrInsufficientPermissions
	}
	return nil
}
