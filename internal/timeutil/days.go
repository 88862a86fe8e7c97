package timeutil

import (
	"fmt"
	"time"
)

// DaysBetween returns every UTC day from start to end inclusive. An end before start is an error.
func DaysBetween(start, end time.Time) ([]time.Time, error) {
	from := TruncateDay(start)
	to := TruncateDay(end)
	if to.Before(from) {
		return nil, fmt.Errorf("end %s is before start %s", FormatDate(to), FormatDate(from))
	}
	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// TruncateDay returns midnight UTC of t's UTC date.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AtHour returns day at hour:00:00 UTC.
func AtHour(day time.Time, hour int) time.Time {
	return TruncateDay(day).Add(time.Duration(hour) * time.Hour)
}

// ParseRange parses optional YYYY-MM-DD bounds. Empty values yield zero times.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = ParseDate(from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q: expected YYYY-MM-DD", from)
		}
	}
	if to != "" {
		if end, err = ParseDate(to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q: expected YYYY-MM-DD", to)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("to date %s is before from date %s", to, from)
	}
	return start, end, nil
}
