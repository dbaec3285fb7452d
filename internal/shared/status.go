package shared

import "errors"

// Attendance record verification statuses reused across modules.
const (
	AttendanceStatusPending  = "PENDING"
	AttendanceStatusVerified = "VERIFIED"
	AttendanceStatusDisputed = "DISPUTED"
)

// ErrInvalidStatusTransition indicates a verification change not allowed.
var ErrInvalidStatusTransition = errors.New("attendance status transition invalid")

// ValidateAttendanceTransition checks verification transitions. A settled
// record stays settled: repeat verdicts are rejected so verified_by and
// verified_at are written exactly once. Admins may force a disputed record
// back to verified.
func ValidateAttendanceTransition(current, target string, hasOverride bool) error {
	switch current {
	case AttendanceStatusPending:
		if target == AttendanceStatusVerified || target == AttendanceStatusDisputed {
			return nil
		}
	case AttendanceStatusDisputed:
		if target == AttendanceStatusVerified && hasOverride {
			return nil
		}
	}
	return ErrInvalidStatusTransition
}
