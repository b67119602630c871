package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound    = errors.New("workout session not found")
	ErrSetNotFound        = errors.New("workout set not found")
	ErrInvalidDate        = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidSet         = errors.New("weight and reps must be finite and not negative")
	ErrDuplicateSetNumber = errors.New("set numbers must be unique within a workout")
	ErrExerciseRequired   = errors.New("exercise id is required")
	ErrInvalidDuration    = errors.New("duration must not be negative")
)

// SaveWorkoutInput is one exercise performance submitted by the caller.
// Date defaults to the current UTC day. Sets not marked completed are dropped.
type SaveWorkoutInput struct {
	ExerciseID string
	Date       string
	Notes      string
	Sets       []domain.SetInput
}

// SaveWorkoutResult describes the rows written by SaveWorkout.
type SaveWorkoutResult struct {
	Success        bool   `json:"success"`
	LogID          string `json:"log_id"`
	SessionID      string `json:"session_id"`
	SessionCreated bool   `json:"session_created"`
	SetsSaved      int    `json:"sets_saved"`
}

type WorkoutService interface {
	SaveWorkout(ctx context.Context, id domain.Identity, in SaveWorkoutInput) (*SaveWorkoutResult, error)
	ListSessions(ctx context.Context, id domain.Identity) ([]domain.WorkoutSession, error)
	GetSessionDetails(ctx context.Context, id domain.Identity, sessionID string) (*domain.SessionDetails, error)
	UpdateSession(ctx context.Context, id domain.Identity, sessionID, name string, durationMinutes *int) (*domain.WorkoutSession, error)
	UpdateSet(ctx context.Context, id domain.Identity, setID string, weight float64, reps int) (*domain.WorkoutSet, error)
}

type workoutService struct {
	sessionRepo  repository.SessionRepository
	logRepo      repository.LogRepository
	setRepo      repository.SetRepository
	exerciseRepo repository.ExerciseRepository
	now          func() time.Time
	metrics      *metrics.Manager
	images       imageResolver
}

func NewWorkoutService(
	sessionRepo repository.SessionRepository,
	logRepo repository.LogRepository,
	setRepo repository.SetRepository,
	exerciseRepo repository.ExerciseRepository,
	opts ...Option,
) WorkoutService {
	o := buildOptions(opts)
	return &workoutService{
		sessionRepo:  sessionRepo,
		logRepo:      logRepo,
		setRepo:      setRepo,
		exerciseRepo: exerciseRepo,
		now:          o.now,
		metrics:      o.metrics,
		images:       o.images,
	}
}

// SaveWorkout finds or creates the caller's session for the day, adds one log
// for the exercise and stores the completed sets. The writes are sequential
// and a failure leaves earlier rows in place.
func (s *workoutService) SaveWorkout(ctx context.Context, id domain.Identity, in SaveWorkoutInput) (*SaveWorkoutResult, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	// 1. Validate the input before touching the store
	if strings.TrimSpace(in.ExerciseID) == "" {
		return nil, ErrExerciseRequired
	}
	date, err := s.sessionDate(in.Date)
	if err != nil {
		return nil, err
	}
	completed, err := completedSets(in.Sets)
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"user_id": id.UserID, "exercise_id": in.ExerciseID, "date": date})

	// 2. The log must reference a catalog exercise
	if _, err := s.exerciseRepo.GetByID(ctx, in.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		logger.WithError(err).Error("save workout")
		return nil, fmt.Errorf("failed to fetch exercise: %w", permissionError(err))
	}

	// 3. Find or create the session of the day
	session, created, err := s.findOrCreateSession(ctx, id.UserID, date)
	if err != nil {
		logger.WithError(err).Error("save workout")
		return nil, err
	}

	// 4. Create the workout log
	workoutLog := &domain.WorkoutLog{
		UserID:           id.UserID,
		ExerciseID:       in.ExerciseID,
		WorkoutSessionID: session.ID,
		Notes:            strings.TrimSpace(in.Notes),
	}
	logID, err := s.logRepo.Create(ctx, workoutLog)
	if err != nil {
		logger.WithError(err).Error("save workout")
		// The exercise was removed between the lookup and the insert.
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to create workout log: %w", permissionError(err))
	}

	// 5. Store the completed sets in one insert
	if len(completed) > 0 {
		rows := make([]domain.WorkoutSet, len(completed))
		for i, c := range completed {
			rows[i] = domain.WorkoutSet{
				UserID:       id.UserID,
				WorkoutLogID: logID,
				SetNumber:    c.SetNumber,
				Weight:       domain.Number(c.Weight),
				Reps:         c.Reps,
				IsCompleted:  true,
			}
		}
		if err := s.setRepo.CreateMany(ctx, rows); err != nil {
			logger.WithError(err).WithField("log_id", logID).Error("save workout")
			return nil, fmt.Errorf("failed to save sets: %w", permissionError(err))
		}
	}

	s.metrics.WorkoutSaved(len(completed))
	logger.WithFields(log.Fields{"log_id": logID, "sets": len(completed)}).Debug("workout saved")

	return &SaveWorkoutResult{
		Success:        true,
		LogID:          logID,
		SessionID:      session.ID,
		SessionCreated: created,
		SetsSaved:      len(completed),
	}, nil
}

func (s *workoutService) sessionDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.now().UTC().Format(domain.DateLayout), nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	return date, nil
}

// findOrCreateSession treats a missing session as the normal first-log-of-the-day
// branch. A concurrent writer winning the insert is resolved by re-reading.
func (s *workoutService) findOrCreateSession(ctx context.Context, userID, date string) (*domain.WorkoutSession, bool, error) {
	session, err := s.sessionRepo.FindByUserAndDate(ctx, userID, date)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to fetch session: %w", permissionError(err))
	}

	session = &domain.WorkoutSession{
		UserID:      userID,
		SessionDate: date,
		SessionName: domain.DefaultSessionName,
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, fmt.Errorf("failed to create session: %w", permissionError(err))
		}
		existing, ferr := s.sessionRepo.FindByUserAndDate(ctx, userID, date)
		if ferr != nil {
			return nil, false, fmt.Errorf("failed to fetch session: %w", permissionError(ferr))
		}
		return existing, false, nil
	}
	return session, true, nil
}

// completedSets keeps the inputs marked completed. Set numbers that are not
// positive are replaced by the 1-based position in the submitted list.
func completedSets(sets []domain.SetInput) ([]domain.SetInput, error) {
	out := make([]domain.SetInput, 0, len(sets))
	seen := make(map[int]struct{}, len(sets))
	for i, in := range sets {
		if !in.Completed {
			continue
		}
		if !domain.ValidWeight(in.Weight) || in.Reps < 0 {
			return nil, ErrInvalidSet
		}
		if in.SetNumber <= 0 {
			in.SetNumber = i + 1
		}
		if _, dup := seen[in.SetNumber]; dup {
			return nil, ErrDuplicateSetNumber
		}
		seen[in.SetNumber] = struct{}{}
		out = append(out, in)
	}
	return out, nil
}

func (s *workoutService) ListSessions(ctx context.Context, id domain.Identity) ([]domain.WorkoutSession, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, permissionError(err)
	}
	return sessions, nil
}

// GetSessionDetails returns the session with its logs in the order they were
// recorded, each joined with its exercise and its sets.
func (s *workoutService) GetSessionDetails(ctx context.Context, id domain.Identity, sessionID string) (*domain.SessionDetails, error) {
	session, err := s.ownedSession(ctx, id, sessionID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListBySession(ctx, id.UserID, session.ID)
	if err != nil {
		return nil, permissionError(err)
	}
	slices.Reverse(logs)

	details := &domain.SessionDetails{WorkoutSession: *session, Logs: make([]domain.LogWithSets, 0, len(logs))}
	if len(logs) == 0 {
		return details, nil
	}

	logIDs := make([]string, len(logs))
	exerciseIDs := make([]string, 0, len(logs))
	for i, l := range logs {
		logIDs[i] = l.ID
		if !slices.Contains(exerciseIDs, l.ExerciseID) {
			exerciseIDs = append(exerciseIDs, l.ExerciseID)
		}
	}

	sets, err := s.setRepo.ListByLogIDs(ctx, logIDs)
	if err != nil {
		return nil, permissionError(err)
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, permissionError(err)
	}

	setsByLog := make(map[string][]domain.WorkoutSet, len(logs))
	for _, set := range sets {
		setsByLog[set.WorkoutLogID] = append(setsByLog[set.WorkoutLogID], set)
	}
	s.images.resolveAll(ctx, exercises)
	exerciseByID := make(map[string]*domain.Exercise, len(exercises))
	for i := range exercises {
		exerciseByID[exercises[i].ID] = &exercises[i]
	}

	for _, l := range logs {
		logSets := setsByLog[l.ID]
		slices.SortStableFunc(logSets, func(a, b domain.WorkoutSet) int { return a.SetNumber - b.SetNumber })
		if logSets == nil {
			logSets = []domain.WorkoutSet{}
		}
		details.Logs = append(details.Logs, domain.LogWithSets{
			WorkoutLog: l,
			Exercise:   exerciseByID[l.ExerciseID],
			Sets:       logSets,
		})
	}
	return details, nil
}

// UpdateSession renames the session and sets its duration. An empty name or a
// nil duration keeps the current value.
func (s *workoutService) UpdateSession(ctx context.Context, id domain.Identity, sessionID, name string, durationMinutes *int) (*domain.WorkoutSession, error) {
	session, err := s.ownedSession(ctx, id, sessionID)
	if err != nil {
		return nil, err
	}
	if durationMinutes != nil && *durationMinutes < 0 {
		return nil, ErrInvalidDuration
	}
	if name = strings.TrimSpace(name); name != "" {
		session.SessionName = name
	}
	if durationMinutes != nil {
		session.DurationMinutes = durationMinutes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, permissionError(err)
	}
	return session, nil
}

func (s *workoutService) UpdateSet(ctx context.Context, id domain.Identity, setID string, weight float64, reps int) (*domain.WorkoutSet, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if !domain.ValidWeight(weight) || reps < 0 {
		return nil, ErrInvalidSet
	}
	set, err := s.setRepo.GetByID(ctx, setID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, permissionError(err)
	}
	if set.UserID != id.UserID {
		return nil, ErrSetNotFound
	}

	set.Weight = domain.Number(weight)
	set.Reps = reps
	if err := s.setRepo.Update(ctx, set); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, permissionError(err)
	}
	return set, nil
}

// ownedSession loads a session and hides sessions of other users behind
// ErrSessionNotFound.
func (s *workoutService) ownedSession(ctx context.Context, id domain.Identity, sessionID string) (*domain.WorkoutSession, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, permissionError(err)
	}
	if session.UserID != id.UserID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
