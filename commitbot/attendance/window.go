package attendance

import (
	"time"
)

// dateKeyLayout is the history map key format, e.g. "2025-09-01".
const dateKeyLayout = "2006-01-02"

// DateKey returns the calendar-day key for t in the bot's civil timezone.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateKeyLayout)
}

// ParseDateKey is the inverse of DateKey; the returned time is midnight
// of that day in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, loc)
}

// DayWindow returns the inclusive start and exclusive end instants of the
// civil day containing t in loc.
func DayWindow(t time.Time, loc *time.Location) (start, end time.Time) {
	local := t.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// QueryWindow widens the day window by one day on each side. Remote
// sources are loose about timezones near day boundaries; the matcher is
// the authoritative filter, so the widening only buys safety margin.
func QueryWindow(t time.Time, loc *time.Location) (since, until time.Time) {
	start, end := DayWindow(t, loc)
	return start.AddDate(0, 0, -1), end.AddDate(0, 0, 1)
}

// PeriodStart returns the most recent weekly boundary instant at or
// before now: the given weekday at hour:minute in loc.
func PeriodStart(now time.Time, weekday time.Weekday, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	boundary := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	daysBack := (int(local.Weekday()) - int(weekday) + 7) % 7
	boundary = boundary.AddDate(0, 0, -daysBack)
	if boundary.After(local) {
		boundary = boundary.AddDate(0, 0, -7)
	}
	return boundary
}
