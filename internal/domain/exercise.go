// internal/domain/exercise.go
package domain

import "time"

// Category groups catalog exercises by body region.
type Category string

const (
	CategoryChest     Category = "chest"
	CategoryBack      Category = "back"
	CategoryShoulders Category = "shoulders"
	CategoryArms      Category = "arms"
	CategoryLegs      Category = "legs"
	CategoryCore      Category = "core"
	CategoryCardio    Category = "cardio"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryChest, CategoryBack, CategoryShoulders, CategoryArms, CategoryLegs, CategoryCore, CategoryCardio:
		return true
	}
	return false
}

// Exercise is a read-only catalog entry. MuscleGroup and Equipment are
// comma-joined multi-value strings, e.g. "Chest,Triceps".
type Exercise struct {
	ID          string    `bson:"_id" db:"id" json:"id" yaml:"id"`
	Name        string    `bson:"name" db:"name" json:"name" yaml:"name"`
	Category    Category  `bson:"category" db:"category" json:"category" yaml:"category"`
	MuscleGroup string    `bson:"muscle_group" db:"muscle_group" json:"muscle_group" yaml:"muscle_group"`
	Equipment   string    `bson:"equipment" db:"equipment" json:"equipment" yaml:"equipment"`
	Description string    `bson:"description,omitempty" db:"description" json:"description,omitempty" yaml:"description"`
	ImgURL      string    `bson:"img_url,omitempty" db:"img_url" json:"img_url,omitempty" yaml:"img_url"`
	CreatedAt   time.Time `bson:"created_at" db:"created_at" json:"created_at" yaml:"-"`
}
