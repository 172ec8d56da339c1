package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfLocalDay(t *testing.T) {
	t.Run("crosses the date line at +5:30", func(t *testing.T) {
		// 19:00 UTC is already 00:30 of the next day at +5:30, so the start of
		// that local day is 18:30 UTC.
		instant := time.Date(2025, 8, 10, 19, 0, 0, 0, time.UTC)
		got := StartOfLocalDay(instant, 330)
		assert.Equal(t, time.Date(2025, 8, 10, 18, 30, 0, 0, time.UTC), got)
	})

	t.Run("same local day before the offset boundary", func(t *testing.T) {
		instant := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
		got := StartOfLocalDay(instant, 330)
		assert.Equal(t, time.Date(2025, 8, 9, 18, 30, 0, 0, time.UTC), got)
	})

	t.Run("zero offset truncates to UTC midnight", func(t *testing.T) {
		instant := time.Date(2025, 8, 10, 23, 59, 59, 0, time.UTC)
		got := StartOfLocalDay(instant, 0)
		assert.Equal(t, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("negative offset", func(t *testing.T) {
		// 01:00 UTC is still the previous day at -5:00.
		instant := time.Date(2025, 8, 10, 1, 0, 0, 0, time.UTC)
		got := StartOfLocalDay(instant, -300)
		assert.Equal(t, time.Date(2025, 8, 9, 5, 0, 0, 0, time.UTC), got)
	})

	t.Run("ignores the instant's location", func(t *testing.T) {
		loc := time.FixedZone("elsewhere", -8*3600)
		instant := time.Date(2025, 8, 10, 19, 0, 0, 0, time.UTC)
		require.Equal(t,
			StartOfLocalDay(instant, 330),
			StartOfLocalDay(instant.In(loc), 330))
	})

	t.Run("idempotent on its own result", func(t *testing.T) {
		instant := time.Date(2025, 8, 10, 19, 0, 0, 0, time.UTC)
		start := StartOfLocalDay(instant, 330)
		assert.Equal(t, start, StartOfLocalDay(start, 330))
	})
}

func TestStartOfNextLocalDay(t *testing.T) {
	instant := time.Date(2025, 8, 10, 19, 0, 0, 0, time.UTC)

	next := StartOfNextLocalDay(instant, 330)
	assert.Equal(t, time.Date(2025, 8, 11, 18, 30, 0, 0, time.UTC), next)

	// Exactly one local day after the start of today.
	assert.Equal(t, StartOfLocalDay(instant, 330).Add(24*time.Hour), next)
}
