package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgramService(store *repository.Store) ProgramService {
	return NewProgramService(store.Programs, store.ProgramExercises, store.Shares, store.Exercises)
}

func TestProgramService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newClock())
	user := createUser(t, store, domain.RoleUser)
	svc := newProgramService(store)

	_, err := svc.Create(ctx, user, ProgramInput{Name: "  "})
	assert.ErrorIs(t, err, ErrProgramNameRequired)
	_, err = svc.Create(ctx, user, ProgramInput{Name: "PPL", FocusArea: "everything"})
	assert.ErrorIs(t, err, ErrInvalidFocusArea)
	_, err = svc.Create(ctx, user, ProgramInput{Name: "PPL", Level: "elite"})
	assert.ErrorIs(t, err, ErrInvalidLevel)

	p, err := svc.Create(ctx, user, ProgramInput{Name: " Push day ", FocusArea: domain.FocusPush, Level: domain.LevelBeginner})
	require.NoError(t, err)
	assert.Equal(t, "Push day", p.Name)
	assert.Equal(t, user.UserID, p.UserID)
	assert.Empty(t, p.Exercises)

	custom, err := svc.Create(ctx, user, ProgramInput{Name: "Anything"})
	require.NoError(t, err)
	assert.Equal(t, domain.FocusCustom, custom.FocusArea)
}

func TestProgramService_AddAndRemoveExercises(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newClock())
	seedExercises(t, store, benchPress(), squat(), pushUp())
	user := createUser(t, store, domain.RoleUser)
	svc := newProgramService(store)

	p, err := svc.Create(ctx, user, ProgramInput{Name: "Full body", FocusArea: domain.FocusFullBody})
	require.NoError(t, err)

	first, err := svc.AddExercise(ctx, user, p.ID, "squat", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.OrderIndex)
	assert.Equal(t, domain.DefaultSetsTarget, first.SetsTarget)
	assert.Equal(t, domain.DefaultRepsTarget, first.RepsTarget)
	require.NotNil(t, first.Exercise)
	assert.Equal(t, "Squat", first.Exercise.Name)

	second, err := svc.AddExercise(ctx, user, p.ID, "bench-press", 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, second.OrderIndex)

	require.NoError(t, svc.RemoveExercise(ctx, user, p.ID, first.ID))

	// order_index is count+1, so removal followed by an append can repeat an
	// index that is still in use; gaps and repeats are both tolerated.
	third, err := svc.AddExercise(ctx, user, p.ID, "push-up", 3, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, third.OrderIndex)

	_, err = svc.AddExercise(ctx, user, p.ID, "missing", 3, 10)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	_, err = svc.AddExercise(ctx, user, p.ID, "squat", -1, 10)
	assert.ErrorIs(t, err, ErrInvalidTargets)

	programs, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	require.Len(t, programs[0].Exercises, 2)
	for _, pe := range programs[0].Exercises {
		assert.NotNil(t, pe.Exercise)
		assert.Equal(t, 2, pe.OrderIndex)
	}

	assert.ErrorIs(t, svc.RemoveExercise(ctx, user, p.ID, first.ID), ErrProgramExerciseNotFound)
}

func TestProgramService_ListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	svc := newProgramService(store)

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, user, ProgramInput{Name: name})
		require.NoError(t, err)
		c.Advance(time.Minute)
	}
	programs, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, programs, 3)
	assert.Equal(t, "C", programs[0].Name)
	assert.Equal(t, "A", programs[2].Name)
}

func TestProgramService_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(newClock())
	seedExercises(t, store, squat())
	owner := createUser(t, store, domain.RoleUser)
	stranger := createUser(t, store, domain.RoleUser)
	friend := createUser(t, store, domain.RoleUser)
	svc := newProgramService(store)
	shares := NewShareService(store.Shares, store.Programs, store.Users)

	p, err := svc.Create(ctx, owner, ProgramInput{Name: "Legs", FocusArea: domain.FocusLegs})
	require.NoError(t, err)
	_, err = svc.AddExercise(ctx, owner, p.ID, "squat", 5, 5)
	require.NoError(t, err)

	_, err = svc.Update(ctx, stranger, p.ID, ProgramInput{Name: "Mine"})
	assert.ErrorIs(t, err, ErrProgramNotFound)
	_, err = svc.AddExercise(ctx, stranger, p.ID, "squat", 1, 1)
	assert.ErrorIs(t, err, ErrProgramNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, p.ID), ErrProgramNotFound)
	_, err = svc.Get(ctx, stranger, p.ID)
	assert.ErrorIs(t, err, ErrProgramNotFound)

	_, err = shares.Share(ctx, owner, p.ID, friend.UserID)
	require.NoError(t, err)
	got, err := svc.Get(ctx, friend, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Legs", got.Name)
	require.Len(t, got.Exercises, 1)
	_, err = svc.Update(ctx, friend, p.ID, ProgramInput{Name: "Mine"})
	assert.ErrorIs(t, err, ErrProgramNotFound)

	updated, err := svc.Update(ctx, owner, p.ID, ProgramInput{Name: "Leg day", FocusArea: domain.FocusLowerBody, Level: domain.LevelAdvanced})
	require.NoError(t, err)
	assert.Equal(t, "Leg day", updated.Name)
	assert.Len(t, updated.Exercises, 1)

	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	_, err = svc.Get(ctx, owner, p.ID)
	assert.ErrorIs(t, err, ErrProgramNotFound)
	remaining, err := shares.List(ctx, friend)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
