// internal/domain/program.go
package domain

import (
	"time"
)

// FocusArea tags what a program trains.
type FocusArea string

const (
	FocusUpperBody FocusArea = "upper body"
	FocusLowerBody FocusArea = "lower body"
	FocusFullBody  FocusArea = "full body"
	FocusPush      FocusArea = "push"
	FocusPull      FocusArea = "pull"
	FocusLegs      FocusArea = "legs"
	FocusChest     FocusArea = "chest"
	FocusBack      FocusArea = "back"
	FocusShoulders FocusArea = "shoulders"
	FocusArms      FocusArea = "arms"
	FocusCardio    FocusArea = "cardio"
	FocusCustom    FocusArea = "custom"
)

func (f FocusArea) Valid() bool {
	switch f {
	case FocusUpperBody, FocusLowerBody, FocusFullBody, FocusPush, FocusPull, FocusLegs,
		FocusChest, FocusBack, FocusShoulders, FocusArms, FocusCardio, FocusCustom:
		return true
	}
	return false
}

// Level is the optional difficulty tag of a program.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Valid accepts the empty level, which means "unset".
func (l Level) Valid() bool {
	switch l {
	case "", LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

const (
	DefaultSetsTarget = 3
	DefaultRepsTarget = 10
)

// Program is a named, ordered list of target exercises owned by one user.
type Program struct {
	ID          string    `bson:"_id" db:"id" json:"id"`
	UserID      string    `bson:"user_id" db:"user_id" json:"user_id"`
	Name        string    `bson:"name" db:"name" json:"name"`
	FocusArea   FocusArea `bson:"focus_area" db:"focus_area" json:"focus_area"`
	Level       Level     `bson:"level,omitempty" db:"level" json:"level,omitempty"`
	Description string    `bson:"description,omitempty" db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" db:"updated_at" json:"updated_at"`

	Exercises []ProgramExercise `bson:"-" db:"-" json:"exercises"`
}

// ProgramExercise places a catalog exercise in a program. OrderIndex is
// assigned on append and never renumbered, so gaps are expected.
type ProgramExercise struct {
	ID         string    `bson:"_id" db:"id" json:"id"`
	ProgramID  string    `bson:"program_id" db:"program_id" json:"program_id"`
	ExerciseID string    `bson:"exercise_id" db:"exercise_id" json:"exercise_id"`
	OrderIndex int       `bson:"order_index" db:"order_index" json:"order_index"`
	SetsTarget int       `bson:"sets_target" db:"sets_target" json:"sets_target"`
	RepsTarget int       `bson:"reps_target" db:"reps_target" json:"reps_target"`
	CreatedAt  time.Time `bson:"created_at" db:"created_at" json:"created_at"`

	Exercise *Exercise `bson:"-" db:"-" json:"exercise,omitempty"`
}

// ProgramShare grants SharedWithUserID read access to a program.
// At most one row exists per (ProgramID, SharedWithUserID).
type ProgramShare struct {
	ID               string    `bson:"_id" db:"id" json:"id"`
	ProgramID        string    `bson:"program_id" db:"program_id" json:"program_id"`
	SharedByUserID   string    `bson:"shared_by_user_id" db:"shared_by_user_id" json:"shared_by_user_id"`
	SharedWithUserID string    `bson:"shared_with_user_id" db:"shared_with_user_id" json:"shared_with_user_id"`
	CreatedAt        time.Time `bson:"created_at" db:"created_at" json:"created_at"`
}
