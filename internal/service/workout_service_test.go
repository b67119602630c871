package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWorkoutService seeds the exercises the workout tests log against.
func newWorkoutService(t *testing.T, store *repository.Store, c *clock, opts ...Option) WorkoutService {
	t.Helper()
	seedCatalog(t, store)
	opts = append([]Option{WithClock(c.Now)}, opts...)
	return NewWorkoutService(store.Sessions, store.Logs, store.Sets, store.Exercises, opts...)
}

func TestSaveWorkout_ReusesSessionForTheDay(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	svc := newWorkoutService(t, store, c)

	first, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "bench-press", Sets: completed(60, 10)})
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.True(t, first.SessionCreated)

	c.Advance(time.Hour)
	second, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: completed(100, 5)})
	require.NoError(t, err)
	assert.False(t, second.SessionCreated)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.NotEqual(t, first.LogID, second.LogID)

	sessions, err := svc.ListSessions(ctx, user)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "2024-03-15", sessions[0].SessionDate)
	assert.Equal(t, domain.DefaultSessionName, sessions[0].SessionName)
}

func TestSaveWorkout_PersistsOnlyCompletedSets(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	m := metrics.NewTestManager()
	svc := newWorkoutService(t, store, c, WithMetrics(m))

	res, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{
		ExerciseID: "bench-press",
		Sets: []domain.SetInput{
			{SetNumber: 1, Weight: 60, Reps: 10},
			{SetNumber: 2, Weight: 65, Reps: 8, Completed: true},
			{SetNumber: 3, Weight: 70, Reps: 6},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SetsSaved)

	sets, err := store.Sets.ListByLogIDs(ctx, []string{res.LogID})
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 2, sets[0].SetNumber)
	assert.Equal(t, 65.0, sets[0].Weight.Float64())
	assert.True(t, sets[0].IsCompleted)
	assert.Equal(t, user.UserID, sets[0].UserID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWorkoutsSaved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterSetsSaved))
}

func TestSaveWorkout_NoCompletedSetsStillLogs(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	svc := newWorkoutService(t, store, c)

	res, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: []domain.SetInput{{Weight: 100, Reps: 5}}})
	require.NoError(t, err)
	assert.Zero(t, res.SetsSaved)

	logs, err := store.Logs.ListByUser(ctx, user.UserID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestSaveWorkout_Validation(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	svc := newWorkoutService(t, store, c)

	_, err := svc.SaveWorkout(ctx, domain.Identity{}, SaveWorkoutInput{ExerciseID: "squat"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.SaveWorkout(ctx, user, SaveWorkoutInput{})
	assert.ErrorIs(t, err, ErrExerciseRequired)

	_, err = svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Date: "15/03/2024"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: completed(-5, 5)})
	assert.ErrorIs(t, err, ErrInvalidSet)

	_, err = svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: []domain.SetInput{
		{SetNumber: 1, Weight: 100, Reps: 5, Completed: true},
		{SetNumber: 1, Weight: 100, Reps: 5, Completed: true},
	}})
	assert.ErrorIs(t, err, ErrDuplicateSetNumber)

	for _, w := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: []domain.SetInput{{SetNumber: 1, Weight: w, Reps: 5, Completed: true}}})
		assert.ErrorIs(t, err, ErrInvalidSet, "%v", w)
	}

	_, err = svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "no-such-exercise", Sets: completed(100, 5)})
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	sessions, err := store.Sessions.ListByUser(ctx, user.UserID)
	require.NoError(t, err)
	assert.Empty(t, sessions, "validation failures must not write anything")
}

func TestSaveWorkout_CallerSuppliedDateAndSetNumbers(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	svc := newWorkoutService(t, store, c)

	res, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{
		ExerciseID: "squat",
		Date:       "2024-03-10",
		Sets: []domain.SetInput{
			{Weight: 100, Reps: 5, Completed: true},
			{Weight: 105, Reps: 3},
			{Weight: 110, Reps: 1, Completed: true},
		},
	})
	require.NoError(t, err)

	session, err := store.Sessions.GetByID(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", session.SessionDate)

	sets, err := store.Sets.ListByLogIDs(ctx, []string{res.LogID})
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, 1, sets[0].SetNumber)
	assert.Equal(t, 3, sets[1].SetNumber)
}

// racingSessions reports no session on the first lookup and then loses the
// insert to a concurrent writer.
type racingSessions struct {
	repository.SessionRepository
	winner  domain.WorkoutSession
	lookups int
}

func (r *racingSessions) FindByUserAndDate(_ context.Context, _, _ string) (*domain.WorkoutSession, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, repository.ErrNotFound
	}
	w := r.winner
	return &w, nil
}

func (r *racingSessions) Create(context.Context, *domain.WorkoutSession) (string, error) {
	return "", repository.ErrDuplicate
}

func TestSaveWorkout_DuplicateSessionInsertReusesWinner(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	seedCatalog(t, store)
	sessions := &racingSessions{winner: domain.WorkoutSession{ID: "winner", UserID: user.UserID, SessionDate: "2024-03-15"}}
	svc := NewWorkoutService(sessions, store.Logs, store.Sets, store.Exercises, WithClock(c.Now))

	res, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: completed(100, 5)})
	require.NoError(t, err)
	assert.Equal(t, "winner", res.SessionID)
	assert.False(t, res.SessionCreated)
	assert.Equal(t, 2, sessions.lookups)
}

type failingLogs struct {
	repository.LogRepository
	err error
}

func (f failingLogs) Create(context.Context, *domain.WorkoutLog) (string, error) {
	return "", f.err
}

type failingSets struct {
	repository.SetRepository
	err error
}

func (f failingSets) CreateMany(context.Context, []domain.WorkoutSet) error {
	return f.err
}

type failingSessions struct {
	repository.SessionRepository
	findErr, createErr error
}

func (f failingSessions) FindByUserAndDate(ctx context.Context, userID, date string) (*domain.WorkoutSession, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.SessionRepository.FindByUserAndDate(ctx, userID, date)
}

func (f failingSessions) Create(ctx context.Context, s *domain.WorkoutSession) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.SessionRepository.Create(ctx, s)
}

func TestSaveWorkout_StepFailures(t *testing.T) {
	boom := errors.New("connection reset")
	c := newClock()

	tests := []struct {
		name    string
		build   func(store *repository.Store) WorkoutService
		wantMsg string
		wantErr error
	}{
		{
			name: "fetch session",
			build: func(store *repository.Store) WorkoutService {
				return NewWorkoutService(failingSessions{SessionRepository: store.Sessions, findErr: boom}, store.Logs, store.Sets, store.Exercises, WithClock(c.Now))
			},
			wantMsg: "failed to fetch session",
			wantErr: boom,
		},
		{
			name: "create session",
			build: func(store *repository.Store) WorkoutService {
				return NewWorkoutService(failingSessions{SessionRepository: store.Sessions, createErr: boom}, store.Logs, store.Sets, store.Exercises, WithClock(c.Now))
			},
			wantMsg: "failed to create session",
			wantErr: boom,
		},
		{
			name: "create log",
			build: func(store *repository.Store) WorkoutService {
				return NewWorkoutService(store.Sessions, failingLogs{LogRepository: store.Logs, err: repository.ErrPermissionDenied}, store.Sets, store.Exercises, WithClock(c.Now))
			},
			wantMsg: "failed to create workout log",
			wantErr: ErrInsufficientPermissions,
		},
		{
			name: "exercise removed before the log insert",
			build: func(store *repository.Store) WorkoutService {
				return NewWorkoutService(store.Sessions, failingLogs{LogRepository: store.Logs, err: repository.ErrMissingReference}, store.Sets, store.Exercises, WithClock(c.Now))
			},
			wantMsg: ErrExerciseNotFound.Error(),
			wantErr: ErrExerciseNotFound,
		},
		{
			name: "save sets",
			build: func(store *repository.Store) WorkoutService {
				return NewWorkoutService(store.Sessions, store.Logs, failingSets{SetRepository: store.Sets, err: boom}, store.Exercises, WithClock(c.Now))
			},
			wantMsg: "failed to save sets",
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(c)
			seedCatalog(t, store)
			user := createUser(t, store, domain.RoleUser)

			res, err := tt.build(store).SaveWorkout(context.Background(), user, SaveWorkoutInput{ExerciseID: "squat", Sets: completed(100, 5)})
			assert.Nil(t, res)
			assert.ErrorContains(t, err, tt.wantMsg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSaveWorkout_SetFailureLeavesLog(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	seedCatalog(t, store)
	svc := NewWorkoutService(store.Sessions, store.Logs, failingSets{SetRepository: store.Sets, err: errors.New("boom")}, store.Exercises, WithClock(c.Now))

	_, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: completed(100, 5)})
	require.Error(t, err)

	logs, err := store.Logs.ListByUser(ctx, user.UserID)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "earlier writes are not rolled back")
}

func TestGetSessionDetails(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	seedExercises(t, store, benchPress(), squat())
	user := createUser(t, store, domain.RoleUser)
	other := createUser(t, store, domain.RoleUser)
	svc := newWorkoutService(t, store, c)

	first, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: []domain.SetInput{
		{SetNumber: 2, Weight: 110, Reps: 3, Completed: true},
		{SetNumber: 1, Weight: 100, Reps: 5, Completed: true},
	}})
	require.NoError(t, err)
	c.Advance(10 * time.Minute)
	_, err = svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "bench-press", Sets: completed(60, 10)})
	require.NoError(t, err)

	details, err := svc.GetSessionDetails(ctx, user, first.SessionID)
	require.NoError(t, err)
	require.Len(t, details.Logs, 2)
	assert.Equal(t, "squat", details.Logs[0].ExerciseID)
	require.NotNil(t, details.Logs[0].Exercise)
	assert.Equal(t, "Squat", details.Logs[0].Exercise.Name)
	require.Len(t, details.Logs[0].Sets, 2)
	assert.Equal(t, 1, details.Logs[0].Sets[0].SetNumber)
	assert.Equal(t, 2, details.Logs[0].Sets[1].SetNumber)
	assert.Equal(t, "bench-press", details.Logs[1].ExerciseID)

	_, err = svc.GetSessionDetails(ctx, other, first.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.GetSessionDetails(ctx, user, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateSessionAndSet(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	store := newTestStore(c)
	user := createUser(t, store, domain.RoleUser)
	other := createUser(t, store, domain.RoleUser)
	svc := newWorkoutService(t, store, c)

	res, err := svc.SaveWorkout(ctx, user, SaveWorkoutInput{ExerciseID: "squat", Sets: completed(100, 5)})
	require.NoError(t, err)

	minutes := 45
	session, err := svc.UpdateSession(ctx, user, res.SessionID, "  Leg day ", &minutes)
	require.NoError(t, err)
	assert.Equal(t, "Leg day", session.SessionName)
	require.NotNil(t, session.DurationMinutes)
	assert.Equal(t, 45, *session.DurationMinutes)

	session, err = svc.UpdateSession(ctx, user, res.SessionID, "Legs", nil)
	require.NoError(t, err)
	assert.Equal(t, "Legs", session.SessionName)
	require.NotNil(t, session.DurationMinutes, "an omitted duration is kept")
	assert.Equal(t, 45, *session.DurationMinutes)

	negative := -5
	_, err = svc.UpdateSession(ctx, user, res.SessionID, "", &negative)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	stored, err := store.Sessions.GetByID(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Legs", stored.SessionName)
	require.NotNil(t, stored.DurationMinutes)
	assert.Equal(t, 45, *stored.DurationMinutes)

	_, err = svc.UpdateSession(ctx, other, res.SessionID, "mine now", nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sets, err := store.Sets.ListByLogIDs(ctx, []string{res.LogID})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	updated, err := svc.UpdateSet(ctx, user, sets[0].ID, 102.5, 4)
	require.NoError(t, err)
	assert.Equal(t, 102.5, updated.Weight.Float64())
	assert.Equal(t, 4, updated.Reps)

	storedSet, err := store.Sets.GetByID(ctx, sets[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 102.5, storedSet.Weight.Float64())

	_, err = svc.UpdateSet(ctx, other, sets[0].ID, 1, 1)
	assert.ErrorIs(t, err, ErrSetNotFound)
	_, err = svc.UpdateSet(ctx, user, sets[0].ID, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidSet)
	_, err = svc.UpdateSet(ctx, user, sets[0].ID, math.NaN(), 1)
	assert.ErrorIs(t, err, ErrInvalidSet)
}
