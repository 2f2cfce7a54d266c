package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameDate(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	assert.True(t, SameDate(base, base.Add(5*time.Hour)))
	assert.False(t, SameDate(base, base.AddDate(0, 0, 1)))
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	stamped := time.Date(2026, 9, 1, 23, 45, 0, 0, loc)

	date := DateOnly(stamped)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, loc), date)
	assert.Equal(t, loc, date.Location())
}

func TestDateBefore(t *testing.T) {
	sep1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, DateBefore(sep1, sep1.AddDate(0, 0, 1)))
	assert.False(t, DateBefore(sep1, sep1))
	assert.False(t, DateBefore(sep1.AddDate(0, 0, 1), sep1))
	assert.True(t, DateBefore(time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC), sep1))
}

func TestDateBeforeAcrossLocations(t *testing.T) {
	// A date parsed at UTC midnight is the same civil day as a clock
	// already late in the evening west of UTC; the instant ordering
	// must not leak into the date comparison.
	west := time.FixedZone("UTC-10", -10*60*60)
	utcMidnight := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	westEvening := time.Date(2026, 9, 1, 22, 0, 0, 0, west)

	assert.False(t, DateBefore(utcMidnight, westEvening))
	assert.False(t, DateBefore(westEvening, utcMidnight))
	assert.True(t, SameDate(utcMidnight, westEvening))
}
