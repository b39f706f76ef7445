package common

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate converts a user-supplied date to a time.Time.
// Accepted types: time.Time, a parsable date string, or a unix timestamp in
// milliseconds (int, int64 or float64).
func ParseDate(d interface{}) (time.Time, error) {
	switch d := d.(type) {
	case time.Time:
		return d, nil
	case string:
		t, err := dateparse.ParseAny(d)
		if err != nil {
			return time.Time{}, fmt.Errorf("ParseDate[%s]: %w", d, err)
		}
		return t, nil
	case int:
		return time.UnixMilli(int64(d)).UTC(), nil
	case int64:
		return time.UnixMilli(d).UTC(), nil
	case float64:
		return time.UnixMilli(int64(d)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("ParseDate: unsupported type %T", d)
}

// AddDays returns the date shifted days forward
func AddDays(d time.Time, days int) time.Time {
	return d.AddDate(0, 0, days)
}

// SubDays returns the date shifted days backward
func SubDays(d time.Time, days int) time.Time {
	return d.AddDate(0, 0, -days)
}

// AddMonths returns the date shifted months forward, clamping the day to the
// last day of the resulting month (Jan 31 + 1 month => Feb 28/29)
func AddMonths(d time.Time, months int) time.Time {
	month := int(d.Month()) - 1 + months
	year := d.Year() + month/12
	month = month % 12
	if month < 0 {
		month += 12
		year--
	}
	month++
	day := d.Day()
	if last := daysIn(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// SubMonths returns the date shifted months backward, clamping the day like AddMonths
func SubMonths(d time.Time, months int) time.Time {
	return AddMonths(d, -months)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
