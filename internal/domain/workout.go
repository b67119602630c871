package domain

import (
	"time"
)

const (
	// DateLayout is the calendar-day format of WorkoutSession.SessionDate.
	DateLayout = "2006-01-02"
	// DefaultSessionName is given to sessions created lazily by the writer.
	DefaultSessionName = "Workout"
)

// WorkoutSession is the per-user, per-day container for logs.
type WorkoutSession struct {
	ID              string    `bson:"_id" db:"id" json:"id"`
	UserID          string    `bson:"user_id" db:"user_id" json:"user_id"`
	SessionDate     string    `bson:"session_date" db:"session_date" json:"session_date"`
	SessionName     string    `bson:"session_name,omitempty" db:"session_name" json:"session_name,omitempty"`
	DurationMinutes *int      `bson:"duration_minutes,omitempty" db:"duration_minutes" json:"duration_minutes,omitempty"`
	CreatedAt       time.Time `bson:"created_at" db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" db:"updated_at" json:"updated_at"`
}

// WorkoutLog records one exercise performed within a session.
type WorkoutLog struct {
	ID               string    `bson:"_id" db:"id" json:"id"`
	UserID           string    `bson:"user_id" db:"user_id" json:"user_id"`
	ExerciseID       string    `bson:"exercise_id" db:"exercise_id" json:"exercise_id"`
	WorkoutSessionID string    `bson:"workout_session_id" db:"workout_session_id" json:"workout_session_id"`
	Notes            string    `bson:"notes,omitempty" db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time `bson:"created_at" db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" db:"updated_at" json:"updated_at"`
}

// WorkoutSet is one weight x reps data point of a log.
type WorkoutSet struct {
	ID           string    `bson:"_id" db:"id" json:"id"`
	UserID       string    `bson:"user_id" db:"user_id" json:"user_id"`
	WorkoutLogID string    `bson:"workout_log_id" db:"workout_log_id" json:"workout_log_id"`
	SetNumber    int       `bson:"set_number" db:"set_number" json:"set_number"`
	Weight       Number    `bson:"weight" db:"weight" json:"weight"`
	Reps         int       `bson:"reps" db:"reps" json:"reps"`
	IsCompleted  bool      `bson:"is_completed" db:"is_completed" json:"is_completed"`
	CreatedAt    time.Time `bson:"created_at" db:"created_at" json:"created_at"`
}

// Volume is weight x reps.
func (s WorkoutSet) Volume() float64 {
	return s.Weight.Float64() * float64(s.Reps)
}

// SetInput is one set entered by the caller. Only completed inputs are persisted.
type SetInput struct {
	SetNumber int     `json:"set_number"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// LogWithSets is a log joined with its sets ordered by set number.
type LogWithSets struct {
	WorkoutLog
	Exercise *Exercise    `json:"exercise,omitempty"`
	Sets     []WorkoutSet `json:"sets"`
}

// SessionDetails is a session with all of its logs.
type SessionDetails struct {
	WorkoutSession
	Logs []LogWithSets `json:"logs"`
}
