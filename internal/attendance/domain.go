package attendance

import "time"

// Record is one lecturer check-in to a scheduled class session. The lecturer
// reference is denormalized from the schedule at check-in time.
type Record struct {
	ID                string
	ScheduleID        string
	LecturerUserID    string
	TakenAt           time.Time
	Method            string
	Latitude          *float64
	Longitude         *float64
	Status            string
	VerifiedBy        *string
	VerifiedAt        *time.Time
	VerifyComment     *string
	SessionStartedAt  *time.Time
	SessionEndedAt    *time.Time
	DeviceFingerprint *string
	CreatedAt         time.Time
}

// CheckIn carries the inputs of a lecturer check-in.
type CheckIn struct {
	ScheduleID        string
	LecturerUserID    string
	Method            string
	Latitude          *float64
	Longitude         *float64
	DeviceFingerprint *string
}

// Verification carries a verifier's verdict on a record. Override is set
// for administrators and permits restoring a disputed record to verified.
type Verification struct {
	RecordID   string
	VerifierID string
	Confirmed  bool
	Comment    string
	Override   bool
}

// ListFilter scopes record listings.
type ListFilter struct {
	LecturerUserID string
	ClassGroupIDs  []string
	From           time.Time
	To             time.Time
}
