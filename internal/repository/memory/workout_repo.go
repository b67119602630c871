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

type sessionRepository struct{ *db }

func (r *sessionRepository) FindByUserAndDate(_ context.Context, userID, date string) (*domain.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if s.val.UserID == userID && s.val.SessionDate == date {
			v := s.val
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *sessionRepository) Create(_ context.Context, session *domain.WorkoutSession) (string, error) {
	if session.UserID == "" || session.SessionDate == "" {
		return "", errors.New("session requires user_id and session_date")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.val.UserID == session.UserID && s.val.SessionDate == session.SessionDate {
			return "", repository.ErrDuplicate
		}
	}
	session.ID = uuid.NewString()
	session.CreatedAt = r.now()
	session.UpdatedAt = session.CreatedAt
	r.sessions[session.ID] = row[domain.WorkoutSession]{seq: r.next(), val: *session}
	return session.ID, nil
}

func (r *sessionRepository) GetByID(_ context.Context, id string) (*domain.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := s.val
	return &v, nil
}

func (r *sessionRepository) ListByUser(_ context.Context, userID string) ([]domain.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.sessions,
		func(s domain.WorkoutSession) bool { return s.UserID == userID },
		func(a, b domain.WorkoutSession) int { return strings.Compare(b.SessionDate, a.SessionDate) },
		true), nil
}

func (r *sessionRepository) Update(_ context.Context, session *domain.WorkoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[session.ID]
	if !ok {
		return repository.ErrNotFound
	}
	s.val.SessionName = session.SessionName
	s.val.DurationMinutes = session.DurationMinutes
	s.val.UpdatedAt = r.now()
	session.UpdatedAt = s.val.UpdatedAt
	r.sessions[session.ID] = s
	return nil
}

type logRepository struct{ *db }

func newestLog(a, b domain.WorkoutLog) int { return b.CreatedAt.Compare(a.CreatedAt) }

func (r *logRepository) Create(_ context.Context, log *domain.WorkoutLog) (string, error) {
	if log.UserID == "" || log.ExerciseID == "" || log.WorkoutSessionID == "" {
		return "", errors.New("log requires user_id, exercise_id and workout_session_id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = uuid.NewString()
	log.CreatedAt = r.now()
	log.UpdatedAt = log.CreatedAt
	r.logs[log.ID] = row[domain.WorkoutLog]{seq: r.next(), val: *log}
	return log.ID, nil
}

func (r *logRepository) ListByUser(_ context.Context, userID string) ([]domain.WorkoutLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.logs, func(l domain.WorkoutLog) bool { return l.UserID == userID }, newestLog, true), nil
}

func (r *logRepository) ListByUserAndExercises(_ context.Context, userID string, exerciseIDs []string) ([]domain.WorkoutLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.logs, func(l domain.WorkoutLog) bool {
		return l.UserID == userID && slices.Contains(exerciseIDs, l.ExerciseID)
	}, newestLog, true), nil
}

func (r *logRepository) ListBySession(_ context.Context, userID, sessionID string) ([]domain.WorkoutLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.logs, func(l domain.WorkoutLog) bool {
		return l.UserID == userID && l.WorkoutSessionID == sessionID
	}, newestLog, true), nil
}

type setRepository struct{ *db }

func bySetNumber(a, b domain.WorkoutSet) int {
	if c := strings.Compare(a.WorkoutLogID, b.WorkoutLogID); c != 0 {
		return c
	}
	return a.SetNumber - b.SetNumber
}

func (r *setRepository) CreateMany(_ context.Context, sets []domain.WorkoutSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for i := range sets {
		if sets[i].WorkoutLogID == "" {
			return errors.New("set requires workout_log_id")
		}
	}
	for i := range sets {
		sets[i].ID = uuid.NewString()
		sets[i].CreatedAt = now
		r.sets[sets[i].ID] = row[domain.WorkoutSet]{seq: r.next(), val: sets[i]}
	}
	return nil
}

func (r *setRepository) GetByID(_ context.Context, id string) (*domain.WorkoutSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := s.val
	return &v, nil
}

func (r *setRepository) ListByLogIDs(_ context.Context, logIDs []string) ([]domain.WorkoutSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.sets, func(s domain.WorkoutSet) bool { return slices.Contains(logIDs, s.WorkoutLogID) }, bySetNumber, false), nil
}

func (r *setRepository) ListByUser(_ context.Context, userID string) ([]domain.WorkoutSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.sets, func(s domain.WorkoutSet) bool { return s.UserID == userID }, bySetNumber, false), nil
}

func (r *setRepository) Update(_ context.Context, set *domain.WorkoutSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[set.ID]
	if !ok {
		return repository.ErrNotFound
	}
	s.val.Weight = set.Weight
	s.val.Reps = set.Reps
	r.sets[set.ID] = s
	return nil
}
