package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/memory"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

// clock is a settable time source shared by the store and the services.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(c *clock) *repository.Store {
	return memory.NewStore(memory.WithClock(c.Now))
}

func createUser(t *testing.T, store *repository.Store, role domain.Role) domain.Identity {
	t.Helper()
	u := &domain.User{
		Email:        gofakeit.Email(),
		Username:     gofakeit.Username(),
		FullName:     gofakeit.Name(),
		PasswordHash: "x",
		Role:         role,
	}
	id, err := store.Users.Create(context.Background(), u)
	require.NoError(t, err)
	return domain.Identity{UserID: id, Role: role}
}

// fakeEmail is a random address that always passes registration checks.
func fakeEmail() string {
	return strings.ToLower(gofakeit.LetterN(12)) + "@example.com"
}

func seedExercises(t *testing.T, store *repository.Store, exercises ...domain.Exercise) {
	t.Helper()
	for i := range exercises {
		require.NoError(t, store.Exercises.Upsert(context.Background(), &exercises[i]))
	}
}

// seedCatalog stores the exercises most tests log workouts against.
func seedCatalog(t *testing.T, store *repository.Store) {
	t.Helper()
	seedExercises(t, store, benchPress(), squat(), pushUp())
}

func benchPress() domain.Exercise {
	return domain.Exercise{ID: "bench-press", Name: "Bench Press", Category: domain.CategoryChest, MuscleGroup: "Chest,Triceps", Equipment: "Barbell,Bench"}
}

func squat() domain.Exercise {
	return domain.Exercise{ID: "squat", Name: "Squat", Category: domain.CategoryLegs, MuscleGroup: "Quadriceps,Glutes", Equipment: "Barbell"}
}

func pushUp() domain.Exercise {
	return domain.Exercise{ID: "push-up", Name: "Push Up", Category: domain.CategoryChest, MuscleGroup: "Chest", Equipment: "Bodyweight", ImgURL: "exercises/push-up/a.png"}
}

func completed(pairs ...float64) []domain.SetInput {
	var sets []domain.SetInput
	for i := 0; i+1 < len(pairs); i += 2 {
		sets = append(sets, domain.SetInput{SetNumber: len(sets) + 1, Weight: pairs[i], Reps: int(pairs[i+1]), Completed: true})
	}
	return sets
}
