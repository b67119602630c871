package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestManager_WorkoutSaved(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.WorkoutSaved(3)
	m.WorkoutSaved(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterWorkoutsSaved))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CounterSetsSaved))

	n, err := testutil.GatherAndCount(reg, "workout_test_server_workouts_saved")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestManager_StatsQuery(t *testing.T) {
	m := NewTestManager()

	m.StatsQuery(StatsBatch)
	m.StatsQuery(StatsBatch)
	m.StatsQuery(StatsGlobal)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterStatsQueries.WithLabelValues(StatsBatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterStatsQueries.WithLabelValues(StatsGlobal)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CounterStatsQueries.WithLabelValues(StatsSingle)))
}

func TestManager_NilIsNoop(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.WorkoutSaved(1)
		m.StatsQuery(StatsRecent)
	})
}
