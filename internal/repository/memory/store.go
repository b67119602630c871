// Package memory is a map-backed repository.Store for tests and local runs.
// It enforces the same uniqueness rules as the database backends.
package memory

import (
	"sort"
	"sync"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

type Option func(*db)

// WithClock overrides the clock used to stamp created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(d *db) {
		d.now = now
	}
}

// db holds every table. A single lock guards all of them.
type db struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	exercises        map[string]row[domain.Exercise]
	sessions         map[string]row[domain.WorkoutSession]
	logs             map[string]row[domain.WorkoutLog]
	sets             map[string]row[domain.WorkoutSet]
	programs         map[string]row[domain.Program]
	programExercises map[string]row[domain.ProgramExercise]
	shares           map[string]row[domain.ProgramShare]
	users            map[string]row[domain.User]
}

// row pairs a stored value with its insertion sequence, used to break
// timestamp ties deterministically.
type row[T any] struct {
	seq int64
	val T
}

// NewStore returns an empty in-memory store.
func NewStore(opts ...Option) *repository.Store {
	d := &db{
		now:              func() time.Time { return time.Now().UTC() },
		exercises:        map[string]row[domain.Exercise]{},
		sessions:         map[string]row[domain.WorkoutSession]{},
		logs:             map[string]row[domain.WorkoutLog]{},
		sets:             map[string]row[domain.WorkoutSet]{},
		programs:         map[string]row[domain.Program]{},
		programExercises: map[string]row[domain.ProgramExercise]{},
		shares:           map[string]row[domain.ProgramShare]{},
		users:            map[string]row[domain.User]{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return &repository.Store{
		Exercises:        &exerciseRepository{d},
		Sessions:         &sessionRepository{d},
		Logs:             &logRepository{d},
		Sets:             &setRepository{d},
		Programs:         &programRepository{d},
		ProgramExercises: &programExerciseRepository{d},
		Shares:           &shareRepository{d},
		Users:            &userRepository{d},
	}
}

func (d *db) next() int64 {
	d.seq++
	return d.seq
}

// collect returns the values of rows that match keep, sorted by less and then
// by insertion order.
func collect[T any](rows map[string]row[T], keep func(T) bool, less func(a, b T) int, newestFirst bool) []T {
	matched := make([]row[T], 0, len(rows))
	for _, r := range rows {
		if keep(r.val) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if c := less(matched[i].val, matched[j].val); c != 0 {
			return c < 0
		}
		if newestFirst {
			return matched[i].seq > matched[j].seq
		}
		return matched[i].seq < matched[j].seq
	})
	out := make([]T, len(matched))
	for i, r := range matched {
		out[i] = r.val
	}
	return out
}
