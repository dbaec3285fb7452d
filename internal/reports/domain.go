package reports

import "time"

// Tab selects the grouping applied to the export.
type Tab string

// Supported tabs. ByStudent is a placeholder that always yields zero rows;
// per-student capture is not part of the data model yet.
const (
	TabOverview    Tab = "overview"
	TabByCourse    Tab = "by-course"
	TabByLecturer  Tab = "by-lecturer"
	TabByStudent   Tab = "by-student"
	TabDailyTrends Tab = "daily-trends"
)

// ParseTab maps a query value to a Tab, defaulting to overview.
func ParseTab(raw string) Tab {
	switch Tab(raw) {
	case TabOverview, TabByCourse, TabByLecturer, TabByStudent, TabDailyTrends:
		return Tab(raw)
	default:
		return TabOverview
	}
}

// RecordRow is one attendance record joined with its course and lecturer.
type RecordRow struct {
	RecordID      string
	TakenAt       time.Time
	Status        string
	CourseCode    string
	CourseTitle   string
	LecturerID    string
	LecturerFirst string
	LecturerLast  string
	ClassGroup    string
}

// Report is a rendered dataset: a header row plus data rows.
type Report struct {
	Tab     Tab
	Range   Range
	From    time.Time
	To      time.Time
	Columns []string
	Rows    [][]string
}
