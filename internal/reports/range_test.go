package reports

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowWeekStartsMonday(t *testing.T) {
	// Wednesday mid-week.
	from, to := RangeWeek.Window(time.Date(2026, time.March, 11, 14, 30, 0, 0, time.UTC))
	if !from.Equal(date(2026, time.March, 9)) {
		t.Fatalf("expected week start Monday 2026-03-09, got %s", from)
	}
	if !to.Equal(date(2026, time.March, 16)) {
		t.Fatalf("expected week end 2026-03-16, got %s", to)
	}
}

func TestWindowWeekSundayBelongsToPrecedingMonday(t *testing.T) {
	from, _ := RangeWeek.Window(date(2026, time.March, 15)) // a Sunday
	if !from.Equal(date(2026, time.March, 9)) {
		t.Fatalf("expected Sunday to map back to 2026-03-09, got %s", from)
	}
}

func TestWindowMonth(t *testing.T) {
	from, to := RangeMonth.Window(time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC))
	if !from.Equal(date(2026, time.January, 1)) || !to.Equal(date(2026, time.February, 1)) {
		t.Fatalf("expected [2026-01-01, 2026-02-01), got [%s, %s)", from, to)
	}
}

func TestWindowSemesterSplitsAtJuly(t *testing.T) {
	from, to := RangeSemester.Window(date(2026, time.February, 10))
	if !from.Equal(date(2026, time.January, 1)) || !to.Equal(date(2026, time.July, 1)) {
		t.Fatalf("first semester window wrong: [%s, %s)", from, to)
	}

	from, to = RangeSemester.Window(date(2026, time.September, 3))
	if !from.Equal(date(2026, time.July, 1)) || !to.Equal(date(2027, time.January, 1)) {
		t.Fatalf("second semester window wrong: [%s, %s)", from, to)
	}
}

func TestWindowYear(t *testing.T) {
	from, to := RangeYear.Window(date(2026, time.June, 15))
	if !from.Equal(date(2026, time.January, 1)) || !to.Equal(date(2027, time.January, 1)) {
		t.Fatalf("year window wrong: [%s, %s)", from, to)
	}
}

func TestParseRangeDefaultsToMonth(t *testing.T) {
	if got := ParseRange(""); got != RangeMonth {
		t.Fatalf("empty range should default to month, got %q", got)
	}
	if got := ParseRange("fortnight"); got != RangeMonth {
		t.Fatalf("unknown range should default to month, got %q", got)
	}
	if got := ParseRange("semester"); got != RangeSemester {
		t.Fatalf("valid range mangled: %q", got)
	}
}

func TestParseTabDefaultsToOverview(t *testing.T) {
	if got := ParseTab(""); got != TabOverview {
		t.Fatalf("empty tab should default to overview, got %q", got)
	}
	if got := ParseTab("by-building"); got != TabOverview {
		t.Fatalf("unknown tab should default to overview, got %q", got)
	}
	if got := ParseTab("daily-trends"); got != TabDailyTrends {
		t.Fatalf("valid tab mangled: %q", got)
	}
}
