package reports

import "testing"

func TestExportFilename(t *testing.T) {
	tests := []struct {
		name   string
		tab    Tab
		rng    Range
		format string
		first  string
		last   string
		want   string
	}{
		{"unscoped csv", TabOverview, RangeMonth, "csv", "", "", "attendance-report-overview-month.csv"},
		{"lecturer scoped", TabByCourse, RangeWeek, "pdf", "Ama", "Mensah", "attendance-report-by-course-week-ama-mensah.pdf"},
		{"accents fold", TabOverview, RangeYear, "csv", "Éva", "Dvořák", "attendance-report-overview-year-eva-dvorak.csv"},
		{"punctuation stripped", TabByLecturer, RangeSemester, "csv", "Mary Jane", "O'Brien", "attendance-report-by-lecturer-semester-mary-jane-o-brien.csv"},
		{"symbols only name drops", TabOverview, RangeWeek, "csv", "!!!", "", "attendance-report-overview-week.csv"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExportFilename(tc.tab, tc.rng, tc.format, tc.first, tc.last)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSlugifyFoldsDiacritics(t *testing.T) {
	if got := slugify("Ólafsdóttir"); got != "olafsdottir" {
		t.Fatalf("got %q", got)
	}
	if got := slugify("  Anne-Marie  "); got != "anne-marie" {
		t.Fatalf("got %q", got)
	}
	if got := slugify(""); got != "" {
		t.Fatalf("got %q", got)
	}
}
