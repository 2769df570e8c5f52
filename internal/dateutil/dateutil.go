// Package dateutil provides local-calendar date arithmetic for the rutina
// app. A "day" always means a local calendar day: day boundaries roll over
// at local midnight, never UTC midnight, so a task toggled at 23:50 lands
// on the date the user is looking at.
package dateutil

import "time"

// Layout is the canonical date-key format (YYYY-MM-DD).
const Layout = "2006-01-02"

// Key formats t as a YYYY-MM-DD date key using t's own calendar components.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// Parse converts a YYYY-MM-DD key back into local midnight of that day.
func Parse(key string) (time.Time, error) {
	return time.ParseInLocation(Layout, key, time.Local)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays returns t shifted by n calendar days. n may be negative.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DiffDays returns the number of whole calendar days a − b. Both times are
// aligned to their local midnights first, and the result is rounded rather
// than truncated so DST transitions (23h/25h days) cannot shift a date by
// one day.
func DiffDays(a, b time.Time) int {
	da := StartOfDay(a)
	db := StartOfDay(b)
	hours := da.Sub(db).Hours()
	if hours >= 0 {
		return int((hours + 12) / 24)
	}
	return -int((-hours + 12) / 24)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}
