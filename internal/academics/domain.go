package academics

import "time"

// Programme is a degree programme offered by the institution.
type Programme struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Course belongs to a programme.
type Course struct {
	ID          string
	ProgrammeID string
	Code        string
	Title       string
	Credits     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ClassGroup is a cohort of students within a programme. The class
// representative reference is optional.
type ClassGroup struct {
	ID             string
	ProgrammeID    string
	Name           string
	IntakeYear     int
	ClassRepUserID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CourseSchedule is the weekly meeting of a course for one class group,
// taught by one lecturer. It is the join point for ownership and
// class-membership checks.
type CourseSchedule struct {
	ID             string
	CourseID       string
	ClassGroupID   string
	LecturerUserID string
	Weekday        int
	StartsAt       string
	EndsAt         string
	Room           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
