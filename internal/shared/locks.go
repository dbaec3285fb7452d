package shared

import "fmt"

// CheckInLockKey builds redis keys serialising check-in per schedule.
func CheckInLockKey(scheduleID string) string {
	return fmt.Sprintf("attendance:schedule:%s:checkin", scheduleID)
}
