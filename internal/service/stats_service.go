package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/stats"

	log "github.com/sirupsen/logrus"
)

// DefaultRecentLimit is the number of recent exercises shown on the dashboard.
const DefaultRecentLimit = 6

// StatsService recomputes statistics from stored sets on every call.
type StatsService interface {
	ExerciseStats(ctx context.Context, id domain.Identity, exerciseID string) (domain.ExerciseStats, error)
	// ExerciseStatsBatch issues at most two store queries regardless of how
	// many exercise ids are requested.
	ExerciseStatsBatch(ctx context.Context, id domain.Identity, exerciseIDs []string) (map[string]domain.ExerciseStats, error)
	GlobalStats(ctx context.Context, id domain.Identity) (domain.GlobalStats, error)
	RecentExercises(ctx context.Context, id domain.Identity, limit int) ([]domain.RecentExercise, error)
}

type statsService struct {
	logRepo      repository.LogRepository
	setRepo      repository.SetRepository
	exerciseRepo repository.ExerciseRepository
	now          func() time.Time
	metrics      *metrics.Manager
	images       imageResolver
}

func NewStatsService(
	logRepo repository.LogRepository,
	setRepo repository.SetRepository,
	exerciseRepo repository.ExerciseRepository,
	opts ...Option,
) StatsService {
	o := buildOptions(opts)
	return &statsService{
		logRepo:      logRepo,
		setRepo:      setRepo,
		exerciseRepo: exerciseRepo,
		now:          o.now,
		metrics:      o.metrics,
		images:       o.images,
	}
}

func (s *statsService) ExerciseStats(ctx context.Context, id domain.Identity, exerciseID string) (domain.ExerciseStats, error) {
	empty := stats.Summarize(exerciseID, nil, nil)
	if err := requireIdentity(id); err != nil {
		return empty, err
	}
	s.metrics.StatsQuery(metrics.StatsSingle)

	logs, sets, err := s.logsWithSets(ctx, id.UserID, []string{exerciseID})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": id.UserID, "exercise_id": exerciseID}).Error("exercise stats")
		return empty, err
	}
	return stats.Summarize(exerciseID, logs, sets), nil
}

func (s *statsService) ExerciseStatsBatch(ctx context.Context, id domain.Identity, exerciseIDs []string) (map[string]domain.ExerciseStats, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	ids := uniqueIDs(exerciseIDs)
	if len(ids) == 0 {
		return map[string]domain.ExerciseStats{}, nil
	}
	s.metrics.StatsQuery(metrics.StatsBatch)

	logs, sets, err := s.logsWithSets(ctx, id.UserID, ids)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": id.UserID, "exercises": len(ids)}).Error("batch exercise stats")
		return stats.SummarizeBatch(ids, nil, nil), err
	}
	return stats.SummarizeBatch(ids, logs, sets), nil
}

// logsWithSets loads the logs of the exercises and then the sets of those
// logs. The second query is skipped when there are no logs.
func (s *statsService) logsWithSets(ctx context.Context, userID string, exerciseIDs []string) ([]domain.WorkoutLog, []domain.WorkoutSet, error) {
	logs, err := s.logRepo.ListByUserAndExercises(ctx, userID, exerciseIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch workout logs: %w", permissionError(err))
	}
	if len(logs) == 0 {
		return nil, nil, nil
	}
	logIDs := make([]string, len(logs))
	for i, l := range logs {
		logIDs[i] = l.ID
	}
	sets, err := s.setRepo.ListByLogIDs(ctx, logIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch workout sets: %w", permissionError(err))
	}
	return logs, sets, nil
}

func (s *statsService) GlobalStats(ctx context.Context, id domain.Identity) (domain.GlobalStats, error) {
	if err := requireIdentity(id); err != nil {
		return domain.GlobalStats{}, err
	}
	s.metrics.StatsQuery(metrics.StatsGlobal)

	logs, err := s.logRepo.ListByUser(ctx, id.UserID)
	if err != nil {
		log.WithError(err).WithField("user_id", id.UserID).Error("global stats")
		return domain.GlobalStats{}, fmt.Errorf("failed to fetch workout logs: %w", permissionError(err))
	}
	sets, err := s.setRepo.ListByUser(ctx, id.UserID)
	if err != nil {
		log.WithError(err).WithField("user_id", id.UserID).Error("global stats")
		return domain.GlobalStats{}, fmt.Errorf("failed to fetch workout sets: %w", permissionError(err))
	}
	return stats.Global(s.now(), logs, sets), nil
}

// RecentExercises returns the caller's most recently logged exercises joined
// with their catalog rows. Logs of exercises missing from the catalog are skipped.
func (s *statsService) RecentExercises(ctx context.Context, id domain.Identity, limit int) ([]domain.RecentExercise, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	s.metrics.StatsQuery(metrics.StatsRecent)

	logs, err := s.logRepo.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workout logs: %w", permissionError(err))
	}
	activity := stats.Recent(logs, limit)
	if len(activity) == 0 {
		return []domain.RecentExercise{}, nil
	}

	ids := make([]string, len(activity))
	for i, a := range activity {
		ids[i] = a.ExerciseID
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exercises: %w", permissionError(err))
	}
	s.images.resolveAll(ctx, exercises)
	byID := make(map[string]domain.Exercise, len(exercises))
	for _, e := range exercises {
		byID[e.ID] = e
	}

	out := make([]domain.RecentExercise, 0, len(activity))
	for _, a := range activity {
		e, ok := byID[a.ExerciseID]
		if !ok {
			continue
		}
		out = append(out, domain.RecentExercise{Exercise: e, LastPerformed: a.LastPerformed, TotalWorkouts: a.Count})
	}
	return out, nil
}

// uniqueIDs drops empty and repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
