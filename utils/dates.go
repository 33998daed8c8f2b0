// utils/dates.go
package utils

import "time"

// ParseDateParam accepts a date-only value ("2006-01-02") or a full
// RFC3339 timestamp. dateOnly reports which form matched, so callers
// can widen a date-only bound to cover the whole day without touching
// an explicit time-of-day.
func ParseDateParam(value string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse("2006-01-02", value); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, value)
	return t, false, err
}

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay clamps t to 23:59:59.999 so that range filters include
// the whole final calendar day.
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 999000000, t.Location())
}
