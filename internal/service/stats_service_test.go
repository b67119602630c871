package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLogs and countingSets count the list queries the stats service issues.
type countingLogs struct {
	repository.LogRepository
	calls int
}

func (c *countingLogs) ListByUserAndExercises(ctx context.Context, userID string, ids []string) ([]domain.WorkoutLog, error) {
	c.calls++
	return c.LogRepository.ListByUserAndExercises(ctx, userID, ids)
}

type countingSets struct {
	repository.SetRepository
	calls int
	err   error
}

func (c *countingSets) ListByLogIDs(ctx context.Context, ids []string) ([]domain.WorkoutSet, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.SetRepository.ListByLogIDs(ctx, ids)
}

func saveAll(t *testing.T, svc WorkoutService, user domain.Identity, c *clock, entries map[string][][]float64) {
	t.Helper()
	for exerciseID, workouts := range entries {
		for _, pairs := range workouts {
			_, err := svc.SaveWorkout(context.Background(), user, SaveWorkoutInput{ExerciseID: exerciseID, Sets: completed(pairs...)})
			require.NoError(t, err)
			c.Advance(time.Minute)
		}
	}
}

func TestExerciseStats_Aggregation(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	writer := newWorkoutService(t, store, c)
	svc := NewStatsService(store.Logs, store.Sets, store.Exercises, WithClock(c.Now))

	_, err := writer.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "bench-press", Sets: completed(20, 10, 25, 8)})
	require.NoError(t, err)
	c.Advance(24 * time.Hour)
	_, err = writer.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "bench-press", Sets: completed(20, 6)})
	require.NoError(t, err)

	st, err := svc.ExerciseStats(ctx, user, "bench-press")
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalSets)
	assert.Equal(t, 24, st.TotalReps)
	assert.Equal(t, 25.0, st.MaxWeight)
	assert.Equal(t, 21.7, st.AvgWeight)
	assert.Equal(t, "2024-03-16", st.LastWorkout)
	require.Len(t, st.ProgressData, 2)
	assert.Equal(t, 25.0, st.ProgressData[0].Weight)
	assert.Equal(t, 18, st.ProgressData[0].Reps)
	assert.Equal(t, 400.0, st.ProgressData[0].Volume)
	assert.Equal(t, 120.0, st.ProgressData[1].Volume)
}

func TestExerciseStats_EmptyState(t *testing.T) {
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	sets := &countingSets{SetRepository: store.Sets}
	svc := NewStatsService(store.Logs, sets, store.Exercises)

	st, err := svc.ExerciseStats(context.Background(), user, "deadlift")
	require.NoError(t, err)
	assert.Equal(t, domain.NeverPerformed, st.LastWorkout)
	assert.Zero(t, st.TotalSets)
	assert.Empty(t, st.ProgressData)
	assert.True(t, st.Empty())
	assert.Zero(t, sets.calls, "no logs means no set query")
}

func TestExerciseStatsBatch_MatchesSingleWithTwoQueries(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	other := createUser(t, store, domain.RoleUser)
	writer := newWorkoutService(t, store, c)

	saveAll(t, writer, user, c, map[string][][]float64{
		"bench-press": {{60, 10, 65, 8}, {70, 5}},
		"squat":       {{100, 5}},
		"push-up":     {{0, 20, 0, 15}},
	})
	saveAll(t, writer, other, c, map[string][][]float64{"squat": {{200, 1}}})

	logs := &countingLogs{LogRepository: store.Logs}
	sets := &countingSets{SetRepository: store.Sets}
	batchSvc := NewStatsService(logs, sets, store.Exercises)
	single := NewStatsService(store.Logs, store.Sets, store.Exercises)

	ids := []string{"bench-press", "squat", "push-up", "never-logged", "squat"}
	batch, err := batchSvc.ExerciseStatsBatch(ctx, user, ids)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.calls)
	assert.Equal(t, 1, sets.calls)
	assert.Len(t, batch, 4)

	for _, id := range ids {
		want, err := single.ExerciseStats(ctx, user, id)
		require.NoError(t, err)
		assert.Equal(t, want, batch[id], id)
	}
	assert.Equal(t, 100.0, batch["squat"].MaxWeight)
}

func TestExerciseStatsBatch_NoIDsNoQueries(t *testing.T) {
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	logs := &countingLogs{LogRepository: store.Logs}
	svc := NewStatsService(logs, store.Sets, store.Exercises)

	got, err := svc.ExerciseStatsBatch(context.Background(), user, []string{"", ""})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, logs.calls)
}

func TestExerciseStatsBatch_FailureReturnsEmptyStats(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	saveAll(t, newWorkoutService(t, store, c), user, c, map[string][][]float64{"squat": {{100, 5}}})

	sets := &countingSets{SetRepository: store.Sets, err: errors.New("timeout")}
	svc := NewStatsService(store.Logs, sets, store.Exercises)

	got, err := svc.ExerciseStatsBatch(ctx, user, []string{"squat"})
	assert.ErrorContains(t, err, "failed to fetch workout sets")
	require.Contains(t, got, "squat")
	assert.Equal(t, domain.NeverPerformed, got["squat"].LastWorkout)
}

func TestGlobalStats(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	writer := newWorkoutService(t, store, c)

	for _, date := range []string{"2024-03-13", "2024-03-14", "2024-03-15"} {
		_, err := writer.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Date: date, Sets: completed(100, 5)})
		require.NoError(t, err)
	}

	svc := NewStatsService(store.Logs, store.Sets, store.Exercises, WithClock(c.Now))
	g, err := svc.GlobalStats(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 3, g.TotalWorkouts)
	assert.Equal(t, 3, g.TotalSets)
	assert.Equal(t, 15, g.TotalReps)
	assert.Equal(t, 1500.0, g.TotalVolume)
	assert.Equal(t, 3, g.WeeklyWorkouts[6], "logs are stamped with their creation time")
	assert.Equal(t, 1, g.CurrentStreak)
}

func TestRecentExercises(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	seedExercises(t, store, benchPress(), squat(), pushUp())
	user := createUser(t, store, domain.RoleUser)
	writer := newWorkoutService(t, store, c)

	for _, id := range []string{"squat", "bench-press", "squat", "retired", "push-up"} {
		if id == "retired" {
			// A log whose exercise has since left the catalog.
			_, err := store.Logs.Create(ctx, &domain.WorkoutLog{UserID: user.UserID, ExerciseID: id, WorkoutSessionID: "old-session"})
			require.NoError(t, err)
		} else {
			_, err := writer.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: id, Sets: completed(10, 10)})
			require.NoError(t, err)
		}
		c.Advance(time.Minute)
	}

	svc := NewStatsService(store.Logs, store.Sets, store.Exercises)
	recent, err := svc.RecentExercises(ctx, user, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "push-up", recent[0].ID)
	assert.Equal(t, "squat", recent[1].ID)
	assert.Equal(t, 2, recent[1].TotalWorkouts)
	assert.Equal(t, "bench-press", recent[2].ID)

	limited, err := svc.RecentExercises(ctx, user, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
