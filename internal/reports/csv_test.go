package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWriteCSVLayout(t *testing.T) {
	report := Report{
		Tab:     TabByLecturer,
		Range:   RangeWeek,
		From:    time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC),
		Columns: []string{"Lecturer", "Sessions", "Verified", "Disputed"},
		Rows: [][]string{
			{"O'Brien, PhD", "3", "2", "0"},
			{`Said "present"`, "1", "0", "1"},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, report); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 CRLF lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "# Report: attendance by-lecturer" {
		t.Fatalf("bad report comment: %q", lines[0])
	}
	if lines[1] != "# Range: week | From: 2026-03-09 | To: 2026-03-16" {
		t.Fatalf("bad range comment: %q", lines[1])
	}
	if lines[2] != "Lecturer,Sessions,Verified,Disputed" {
		t.Fatalf("bad header row: %q", lines[2])
	}
	if lines[3] != `"O'Brien, PhD",3,2,0` {
		t.Fatalf("comma field not quoted: %q", lines[3])
	}
	if lines[4] != `"Said ""present""",1,0,1` {
		t.Fatalf("embedded quotes not doubled: %q", lines[4])
	}
	if strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n") {
		t.Fatal("found a bare LF line ending")
	}
}

func TestWriteCSVEmptyReport(t *testing.T) {
	report := Aggregate(TabByStudent, RangeMonth, nil)
	report.From = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	report.To = time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, report); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "Student,Sessions Attended\r\n") {
		t.Fatalf("empty report should end with the header row: %q", buf.String())
	}
}
