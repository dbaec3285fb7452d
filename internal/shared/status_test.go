package shared

import "testing"

func TestValidateAttendanceTransition(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		target   string
		override bool
		wantErr  bool
	}{
		{"pending to verified", AttendanceStatusPending, AttendanceStatusVerified, false, false},
		{"pending to disputed", AttendanceStatusPending, AttendanceStatusDisputed, false, false},
		{"repeat confirm rejected", AttendanceStatusVerified, AttendanceStatusVerified, false, true},
		{"repeat dispute rejected", AttendanceStatusDisputed, AttendanceStatusDisputed, false, true},
		{"verified cannot be disputed", AttendanceStatusVerified, AttendanceStatusDisputed, false, true},
		{"disputed stays disputed without override", AttendanceStatusDisputed, AttendanceStatusVerified, false, true},
		{"override restores disputed to verified", AttendanceStatusDisputed, AttendanceStatusVerified, true, false},
		{"disputed to pending never allowed", AttendanceStatusDisputed, AttendanceStatusPending, true, true},
		{"unknown current denied", "ARCHIVED", AttendanceStatusVerified, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAttendanceTransition(tc.current, tc.target, tc.override)
			if tc.wantErr && err == nil {
				t.Fatalf("%s -> %s: expected rejection", tc.current, tc.target)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("%s -> %s: unexpected error %v", tc.current, tc.target, err)
			}
		})
	}
}
