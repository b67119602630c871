package service

import (
	"context"
	"testing"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deniedUsers refuses every mutation the way a row-level security policy would.
type deniedUsers struct {
	repository.UserRepository
}

func (deniedUsers) UpdateRole(context.Context, string, domain.Role) error {
	return repository.ErrPermissionDenied
}

func (deniedUsers) Delete(context.Context, string) error {
	return repository.ErrPermissionDenied
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newClock())
	user := createUser(t, store, domain.RoleCoach)
	svc := NewUserService(store.Users)

	u, err := svc.Profile(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, u.ID)
	assert.Equal(t, domain.RoleCoach, u.Role)
	assert.Empty(t, u.PasswordHash)

	_, err = svc.Profile(ctx, domain.Identity{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Profile(ctx, domain.Identity{UserID: "ghost", Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_NonAdminMutationsAreRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newClock())
	owner := createUser(t, store, domain.RoleOwner)
	target := createUser(t, store, domain.RoleUser)
	svc := NewUserService(store.Users)

	_, err := svc.List(ctx, owner)
	assert.ErrorIs(t, err, ErrInsufficientPermissions)
	_, err = svc.UpdateRole(ctx, owner, target.UserID, domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrInsufficientPermissions)
	assert.ErrorIs(t, svc.Delete(ctx, owner, target.UserID), ErrInsufficientPermissions)

	u, err := store.Users.GetByID(ctx, target.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
}

func TestUserService_AdminManagesUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newClock())
	admin := createUser(t, store, domain.RoleAdmin)
	target := createUser(t, store, domain.RoleUser)
	svc := NewUserService(store.Users)

	users, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}

	u, err := svc.UpdateRole(ctx, admin, target.UserID, domain.RoleCoach)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCoach, u.Role)

	_, err = svc.UpdateRole(ctx, admin, target.UserID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.UpdateRole(ctx, admin, admin.UserID, domain.RoleUser)
	assert.ErrorIs(t, err, ErrCannotDemoteSelf)
	_, err = svc.UpdateRole(ctx, admin, "ghost", domain.RoleCoach)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, admin, admin.UserID), ErrCannotDeleteSelf)
	require.NoError(t, svc.Delete(ctx, admin, target.UserID))
	assert.ErrorIs(t, svc.Delete(ctx, admin, target.UserID), ErrUserNotFound)
}

func TestUserService_StorePermissionDenial(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newClock())
	admin := createUser(t, store, domain.RoleAdmin)
	target := createUser(t, store, domain.RoleUser)
	svc := NewUserService(deniedUsers{store.Users})

	_, err := svc.UpdateRole(ctx, admin, target.UserID, domain.RoleCoach)
	assert.ErrorIs(t, err, ErrInsufficientPermissions)
	assert.ErrorIs(t, svc.Delete(ctx, admin, target.UserID), ErrInsufficientPermissions)
}
