package reports

import (
	"sort"
	"strconv"
)

// Aggregate groups the fetched rows according to the tab.
func Aggregate(tab Tab, rng Range, rows []RecordRow) Report {
	report := Report{Tab: tab, Range: rng}
	switch tab {
	case TabByCourse:
		report.Columns = []string{"Course Code", "Course Title", "Sessions", "Verified", "Disputed"}
		for _, g := range groupCounts(rows, func(r RecordRow) groupKey {
			return groupKey{r.CourseCode, r.CourseTitle}
		}) {
			report.Rows = append(report.Rows, append([]string{g.key.primary, g.key.secondary}, g.countCells()...))
		}
	case TabByLecturer:
		report.Columns = []string{"Lecturer", "Sessions", "Verified", "Disputed"}
		for _, g := range groupCounts(rows, func(r RecordRow) groupKey {
			return groupKey{primary: r.LecturerFirst + " " + r.LecturerLast}
		}) {
			report.Rows = append(report.Rows, append([]string{g.key.primary}, g.countCells()...))
		}
	case TabDailyTrends:
		report.Columns = []string{"Day", "Sessions", "Verified", "Disputed"}
		for _, g := range groupCounts(rows, func(r RecordRow) groupKey {
			return groupKey{primary: r.TakenAt.Format("2006-01-02")}
		}) {
			report.Rows = append(report.Rows, append([]string{g.key.primary}, g.countCells()...))
		}
	case TabByStudent:
		// Per-student attendance is not captured; the export is defined to
		// succeed with an empty data set rather than fail.
		report.Columns = []string{"Student", "Sessions Attended"}
	default:
		report.Columns = []string{"Record", "Taken At", "Course", "Lecturer", "Class Group", "Status"}
		for _, r := range rows {
			report.Rows = append(report.Rows, []string{
				r.RecordID,
				r.TakenAt.Format("2006-01-02 15:04"),
				r.CourseCode + " " + r.CourseTitle,
				r.LecturerFirst + " " + r.LecturerLast,
				r.ClassGroup,
				r.Status,
			})
		}
	}
	if report.Rows == nil {
		report.Rows = [][]string{}
	}
	return report
}

type groupKey struct {
	primary   string
	secondary string
}

type group struct {
	key      groupKey
	sessions int
	verified int
	disputed int
}

func (g group) countCells() []string {
	return []string{
		strconv.Itoa(g.sessions),
		strconv.Itoa(g.verified),
		strconv.Itoa(g.disputed),
	}
}

// groupCounts buckets rows by key and returns the buckets sorted by key.
func groupCounts(rows []RecordRow, key func(RecordRow) groupKey) []group {
	buckets := make(map[groupKey]*group)
	for _, r := range rows {
		k := key(r)
		g, ok := buckets[k]
		if !ok {
			g = &group{key: k}
			buckets[k] = g
		}
		g.sessions++
		switch r.Status {
		case "VERIFIED":
			g.verified++
		case "DISPUTED":
			g.disputed++
		}
	}
	out := make([]group, 0, len(buckets))
	for _, g := range buckets {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key.primary < out[j].key.primary })
	return out
}
