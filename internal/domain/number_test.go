package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{"", 0},
		{" 20.5 ", 20.5},
		{[]byte("42"), 42},
		{int64(30), 30},
		{int32(25), 25},
		{12.5, 12.5},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got.Float64(), "%v", tt.in)
	}
}

func TestParseNumber_RejectsNonFinite(t *testing.T) {
	for _, in := range []any{"NaN", "nan", "Inf", "-Inf", "Infinity", math.NaN(), math.Inf(1), Number(math.Inf(-1))} {
		_, err := ParseNumber(in)
		assert.ErrorIs(t, err, ErrNonFiniteNumber, "%v", in)
	}

	_, err := ParseNumber("heavy")
	assert.Error(t, err)
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var body struct {
		Weight Number `json:"weight"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"weight":"62.5"}`), &body))
	assert.Equal(t, 62.5, body.Weight.Float64())

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"weight":"NaN"}`), &body), ErrNonFiniteNumber)
}

func TestValidWeight(t *testing.T) {
	assert.True(t, ValidWeight(0))
	assert.True(t, ValidWeight(102.5))
	assert.False(t, ValidWeight(-1))
	assert.False(t, ValidWeight(math.NaN()))
	assert.False(t, ValidWeight(math.Inf(1)))
}
