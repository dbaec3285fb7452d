package reports

import "time"

// Range selects the reporting window relative to "now".
type Range string

// Supported ranges.
const (
	RangeWeek     Range = "week"
	RangeMonth    Range = "month"
	RangeSemester Range = "semester"
	RangeYear     Range = "year"
)

// ParseRange maps a query value to a Range, defaulting to month.
func ParseRange(raw string) Range {
	switch Range(raw) {
	case RangeWeek, RangeMonth, RangeSemester, RangeYear:
		return Range(raw)
	default:
		return RangeMonth
	}
}

// Window returns the half-open [start, end) interval for the range around
// now. Weeks start on Monday; semesters split the year at July 1st.
func (r Range) Window(now time.Time) (time.Time, time.Time) {
	switch r {
	case RangeWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 7)
	case RangeSemester:
		if now.Month() < time.July {
			start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
			return start, time.Date(now.Year(), time.July, 1, 0, 0, 0, 0, now.Location())
		}
		start := time.Date(now.Year(), time.July, 1, 0, 0, 0, 0, now.Location())
		return start, time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
	case RangeYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	}
}
