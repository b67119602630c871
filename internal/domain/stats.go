package domain

import "time"

// NeverPerformed is the LastWorkout value of an exercise without logs.
const NeverPerformed = "Never"

// ExerciseStats summarizes every set a user logged for one exercise.
// Nothing here is stored; it is recomputed from set rows on every read.
type ExerciseStats struct {
	ExerciseID    string          `json:"exercise_id"`
	TotalSets     int             `json:"total_sets"`
	TotalReps     int             `json:"total_reps"`
	MaxWeight     float64         `json:"max_weight"`
	AvgWeight     float64         `json:"avg_weight"`
	LastWorkout   string          `json:"last_workout"`
	LastWorkoutAt *time.Time      `json:"last_workout_at,omitempty"`
	ProgressData  []ProgressPoint `json:"progress_data"`
}

// Empty reports whether the exercise was never logged.
func (s ExerciseStats) Empty() bool {
	return s.LastWorkoutAt == nil
}

// ProgressPoint is the chart value of a single log.
type ProgressPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	Volume float64   `json:"volume"`
}

// GlobalStats are the dashboard totals of one user.
type GlobalStats struct {
	TotalWorkouts       int     `json:"total_workouts"`
	TotalSets           int     `json:"total_sets"`
	TotalReps           int     `json:"total_reps"`
	TotalVolume         float64 `json:"total_volume"`
	CurrentStreak       int     `json:"current_streak"`
	LongestStreak       int     `json:"longest_streak"`
	WeeklyWorkouts      [7]int  `json:"weekly_workouts"`
	PreviousWeeklyTotal int     `json:"previous_weekly_total"`
}

// RecentExercise is a catalog exercise annotated with the caller's history.
type RecentExercise struct {
	Exercise
	LastPerformed time.Time `json:"last_performed"`
	TotalWorkouts int       `json:"total_workouts"`
}
