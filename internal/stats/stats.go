// Package stats reduces workout logs and sets into the numbers shown on the
// progress and dashboard pages. Every function is pure: callers fetch the rows
// and pass them in.
package stats

import (
	"math"
	"sort"
	"time"

	"alcyxob/workout-tracker/internal/domain"
)

const day = 24 * time.Hour

// RoundTenth rounds x to one decimal place.
func RoundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

// FormatLastWorkout renders the date of the newest log, or "Never".
func FormatLastWorkout(t *time.Time) string {
	if t == nil {
		return domain.NeverPerformed
	}
	return t.UTC().Format(domain.DateLayout)
}

// Summarize computes the stats of one exercise from its logs and the sets of
// those logs. Sets belonging to other logs are ignored.
func Summarize(exerciseID string, logs []domain.WorkoutLog, sets []domain.WorkoutSet) domain.ExerciseStats {
	return summarize(exerciseID, logs, groupSets(sets))
}

// SummarizeBatch computes Summarize for every id from one slice of logs
// (covering all ids) and one slice of sets (covering all those logs).
// Every requested id gets an entry, empty when it has no logs.
func SummarizeBatch(exerciseIDs []string, logs []domain.WorkoutLog, sets []domain.WorkoutSet) map[string]domain.ExerciseStats {
	byExercise := make(map[string][]domain.WorkoutLog, len(exerciseIDs))
	for _, l := range logs {
		byExercise[l.ExerciseID] = append(byExercise[l.ExerciseID], l)
	}
	bySet := groupSets(sets)

	out := make(map[string]domain.ExerciseStats, len(exerciseIDs))
	for _, id := range exerciseIDs {
		out[id] = summarize(id, byExercise[id], bySet)
	}
	return out
}

func groupSets(sets []domain.WorkoutSet) map[string][]domain.WorkoutSet {
	byLog := make(map[string][]domain.WorkoutSet)
	for _, s := range sets {
		byLog[s.WorkoutLogID] = append(byLog[s.WorkoutLogID], s)
	}
	return byLog
}

func summarize(exerciseID string, logs []domain.WorkoutLog, setsByLog map[string][]domain.WorkoutSet) domain.ExerciseStats {
	st := domain.ExerciseStats{
		ExerciseID:   exerciseID,
		LastWorkout:  domain.NeverPerformed,
		ProgressData: []domain.ProgressPoint{},
	}
	if len(logs) == 0 {
		return st
	}

	ordered := make([]domain.WorkoutLog, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var weightSum float64
	for i, l := range ordered {
		point := domain.ProgressPoint{Date: l.CreatedAt}
		for j, s := range setsByLog[l.ID] {
			w := s.Weight.Float64()
			if j == 0 || w > point.Weight {
				point.Weight = w
			}
			point.Reps += s.Reps
			point.Volume += s.Volume()

			if st.TotalSets == 0 || w > st.MaxWeight {
				st.MaxWeight = w
			}
			st.TotalSets++
			st.TotalReps += s.Reps
			weightSum += w
		}
		st.ProgressData = append(st.ProgressData, point)

		if i == len(ordered)-1 {
			last := l.CreatedAt
			st.LastWorkoutAt = &last
		}
	}

	if st.TotalSets > 0 {
		st.AvgWeight = RoundTenth(weightSum / float64(st.TotalSets))
	}
	st.LastWorkout = FormatLastWorkout(st.LastWorkoutAt)
	return st
}

// Global computes the dashboard totals of one user as of now.
func Global(now time.Time, logs []domain.WorkoutLog, sets []domain.WorkoutSet) domain.GlobalStats {
	var g domain.GlobalStats

	for _, s := range sets {
		g.TotalSets++
		g.TotalReps += s.Reps
		g.TotalVolume += s.Volume()
	}

	sessions := make(map[string]struct{})
	days := make(map[time.Time]struct{})
	for _, l := range logs {
		sessions[l.WorkoutSessionID] = struct{}{}
		days[calendarDay(l.CreatedAt)] = struct{}{}

		age := now.Sub(l.CreatedAt)
		if age < 0 {
			continue
		}
		switch daysAgo := int(age / day); {
		case daysAgo < 7:
			g.WeeklyWorkouts[6-daysAgo]++
		case daysAgo < 14:
			g.PreviousWeeklyTotal++
		}
	}
	g.TotalWorkouts = len(sessions)
	g.CurrentStreak, g.LongestStreak = streaks(calendarDay(now), days)
	return g
}

func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// streaks returns the run of consecutive active days ending today (or
// yesterday, when nothing was logged yet today) and the longest run overall.
func streaks(today time.Time, days map[time.Time]struct{}) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	for i, d := range sorted {
		if i > 0 && d.Sub(sorted[i-1]) == day {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	cursor := today
	if _, ok := days[cursor]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for {
		if _, ok := days[cursor]; !ok {
			break
		}
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return current, longest
}

// Activity is how often and how recently one exercise was logged.
type Activity struct {
	ExerciseID    string
	LastPerformed time.Time
	Count         int
}

// Recent returns the distinct exercises of logs, most recently performed
// first. A limit of zero or less returns all of them.
func Recent(logs []domain.WorkoutLog, limit int) []Activity {
	index := make(map[string]int)
	var out []Activity
	for _, l := range logs {
		i, ok := index[l.ExerciseID]
		if !ok {
			index[l.ExerciseID] = len(out)
			out = append(out, Activity{ExerciseID: l.ExerciseID, LastPerformed: l.CreatedAt, Count: 1})
			continue
		}
		out[i].Count++
		if l.CreatedAt.After(out[i].LastPerformed) {
			out[i].LastPerformed = l.CreatedAt
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastPerformed.After(out[j].LastPerformed)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Activity{}
	}
	return out
}
