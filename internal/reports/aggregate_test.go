package reports

import (
	"reflect"
	"testing"
	"time"
)

func sampleRows() []RecordRow {
	day1 := time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC)
	return []RecordRow{
		{RecordID: "r1", TakenAt: day1, Status: "VERIFIED", CourseCode: "CS101", CourseTitle: "Intro", LecturerID: "l1", LecturerFirst: "Ama", LecturerLast: "Mensah", ClassGroup: "CS Year 1"},
		{RecordID: "r2", TakenAt: day1, Status: "PENDING", CourseCode: "CS101", CourseTitle: "Intro", LecturerID: "l1", LecturerFirst: "Ama", LecturerLast: "Mensah", ClassGroup: "CS Year 1"},
		{RecordID: "r3", TakenAt: day2, Status: "DISPUTED", CourseCode: "CS205", CourseTitle: "Databases", LecturerID: "l2", LecturerFirst: "Kofi", LecturerLast: "Owusu", ClassGroup: "CS Year 2"},
	}
}

func TestAggregateByCourse(t *testing.T) {
	report := Aggregate(TabByCourse, RangeWeek, sampleRows())

	want := [][]string{
		{"CS101", "Intro", "2", "1", "0"},
		{"CS205", "Databases", "1", "0", "1"},
	}
	if !reflect.DeepEqual(report.Rows, want) {
		t.Fatalf("by-course rows mismatch:\n got %v\nwant %v", report.Rows, want)
	}
	if report.Columns[0] != "Course Code" {
		t.Fatalf("unexpected columns: %v", report.Columns)
	}
}

func TestAggregateByLecturer(t *testing.T) {
	report := Aggregate(TabByLecturer, RangeMonth, sampleRows())

	want := [][]string{
		{"Ama Mensah", "2", "1", "0"},
		{"Kofi Owusu", "1", "0", "1"},
	}
	if !reflect.DeepEqual(report.Rows, want) {
		t.Fatalf("by-lecturer rows mismatch:\n got %v\nwant %v", report.Rows, want)
	}
}

func TestAggregateDailyTrends(t *testing.T) {
	report := Aggregate(TabDailyTrends, RangeWeek, sampleRows())

	want := [][]string{
		{"2026-03-09", "2", "1", "0"},
		{"2026-03-10", "1", "0", "1"},
	}
	if !reflect.DeepEqual(report.Rows, want) {
		t.Fatalf("daily-trends rows mismatch:\n got %v\nwant %v", report.Rows, want)
	}
}

func TestAggregateByStudentIsAlwaysEmpty(t *testing.T) {
	report := Aggregate(TabByStudent, RangeMonth, sampleRows())

	if len(report.Rows) != 0 {
		t.Fatalf("by-student must yield no rows, got %v", report.Rows)
	}
	if report.Rows == nil {
		t.Fatal("rows must be an empty slice, not nil")
	}
	want := []string{"Student", "Sessions Attended"}
	if !reflect.DeepEqual(report.Columns, want) {
		t.Fatalf("by-student columns mismatch: %v", report.Columns)
	}
}

func TestAggregateOverviewRowPerRecord(t *testing.T) {
	report := Aggregate(TabOverview, RangeWeek, sampleRows())

	if len(report.Rows) != 3 {
		t.Fatalf("overview should emit one row per record, got %d", len(report.Rows))
	}
	first := report.Rows[0]
	want := []string{"r1", "2026-03-09 09:00", "CS101 Intro", "Ama Mensah", "CS Year 1", "VERIFIED"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("overview row mismatch:\n got %v\nwant %v", first, want)
	}
}

func TestAggregateEmptyInputProducesEmptyRows(t *testing.T) {
	for _, tab := range []Tab{TabOverview, TabByCourse, TabByLecturer, TabDailyTrends} {
		report := Aggregate(tab, RangeWeek, nil)
		if report.Rows == nil || len(report.Rows) != 0 {
			t.Fatalf("tab %s: expected empty non-nil rows, got %v", tab, report.Rows)
		}
	}
}
