package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	assert.True(t, IsValid("Europe/Lisbon"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))

	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	assert.Equal(t, DefaultTimezone, Location("nope").String())
}

func TestDayHelpers(t *testing.T) {
	sp := Location("America/Sao_Paulo")

	// 01:30 UTC on the 20th is still the 19th in Sao Paulo (UTC-3).
	instant := time.Date(2026, 10, 20, 1, 30, 0, 0, time.UTC)
	start := StartOfDay(instant, sp)
	require.Equal(t, sp, start.Location())
	assert.Equal(t, 19, start.Day())
	assert.Equal(t, 0, start.Hour())

	d := Date(instant, sp)
	assert.Equal(t, 20, d.Day())
	assert.Equal(t, time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC), d.UTC())
}
