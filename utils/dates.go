// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// PeriodStart maps a finance reporting period name to its start boundary.
// Unknown periods default to the last 30 days.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "today":
		return BeginningOfDay(now)
	case "week":
		return BeginningOfDay(now.AddDate(0, 0, -7))
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return BeginningOfDay(now.AddDate(0, 0, -30))
	}
}
