package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyRuleMaterialize(t *testing.T) {
	sunday := time.Sunday
	rule := DailyRule{Start: "12:00", End: "13:00", Skip: &sunday}

	got, err := rule.Materialize(monday, 14)
	require.NoError(t, err)

	// Two Sundays in two weeks starting Monday.
	require.Len(t, got, 12)
	for _, iv := range got {
		assert.NotEqual(t, time.Sunday, iv.Start.Weekday())
		assert.Equal(t, 12, iv.Start.Hour())
		assert.Equal(t, time.Hour, iv.End.Sub(iv.Start))
	}
	assert.Equal(t, monday.Add(12*time.Hour), got[0].Start)
}

func TestDailyRuleNoSkip(t *testing.T) {
	got, err := DailyRule{Start: "12:00", End: "12:30"}.Materialize(monday, 365)
	require.NoError(t, err)
	assert.Len(t, got, 365)
}

func TestDailyRuleKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// DST ends 2026-11-01 in New York.
	from := time.Date(2026, 10, 30, 0, 0, 0, 0, loc)
	got, err := DailyRule{Start: "12:00", End: "13:00"}.Materialize(from, 4)
	require.NoError(t, err)
	for _, iv := range got {
		assert.Equal(t, 12, iv.Start.Hour())
	}
}

func TestDailyRuleInvalid(t *testing.T) {
	_, err := DailyRule{Start: "13:00", End: "12:00"}.Materialize(monday, 3)
	assert.ErrorIs(t, err, ErrInvalidDailyRange)

	_, err = DailyRule{Start: "noon", End: "13:00"}.Materialize(monday, 3)
	assert.ErrorIs(t, err, ErrInvalidDailyRange)
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 100}, {100, 200}, {200, 250}}, Chunk(250, 100))
	assert.Equal(t, [][2]int{{0, 3}}, Chunk(3, 0))
	assert.Empty(t, Chunk(0, 100))
}
