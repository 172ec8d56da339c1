package utils

import "time"

// DefaultOffsetMinutes is the fixed local offset used for day-boundary
// classification: UTC+5:30, regardless of where the server runs.
const DefaultOffsetMinutes = 330

// StartOfLocalDay returns the UTC instant of 00:00:00 in the given fixed
// offset, for the calendar day containing t in that offset.
//
// The instant is shifted into the offset, truncated to its calendar day and
// shifted back. Going through the host timezone instead would make event
// cutovers depend on where the process happens to run.
func StartOfLocalDay(t time.Time, offsetMinutes int) time.Time {
	offset := time.Duration(offsetMinutes) * time.Minute
	local := t.UTC().Add(offset)
	y, m, d := local.Date()
	startLocal := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return startLocal.Add(-offset)
}

// StartOfNextLocalDay returns the UTC instant of 00:00:00 of the following
// calendar day in the given fixed offset. Events strictly before this instant
// are "past"; events ending at or after StartOfLocalDay are "upcoming", so the
// two classifications partition the timeline with no gap or overlap.
func StartOfNextLocalDay(t time.Time, offsetMinutes int) time.Time {
	return StartOfLocalDay(t, offsetMinutes).Add(24 * time.Hour)
}
