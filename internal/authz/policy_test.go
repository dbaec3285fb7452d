package authz

import "testing"

func TestPolicyAllows(t *testing.T) {
	cases := []struct {
		name   string
		role   Role
		kind   ResourceKind
		action Action
		owner  bool
		member bool
		want   bool
	}{
		{"admin views any schedule", RoleAdmin, KindSchedule, ActionView, false, false, true},
		{"coordinator updates any schedule", RoleCoordinator, KindSchedule, ActionUpdate, false, false, true},
		{"lecturer views own schedule", RoleLecturer, KindSchedule, ActionView, true, false, true},
		{"lecturer denied foreign schedule", RoleLecturer, KindSchedule, ActionView, false, false, false},
		{"lecturer cannot update schedules", RoleLecturer, KindSchedule, ActionUpdate, true, false, false},
		{"class rep views group schedule", RoleClassRep, KindSchedule, ActionView, false, true, true},
		{"class rep denied foreign group", RoleClassRep, KindSchedule, ActionView, false, false, false},
		{"class rep verifies group attendance", RoleClassRep, KindAttendance, ActionVerify, false, true, true},
		{"admin verifies any attendance", RoleAdmin, KindAttendance, ActionVerify, false, false, true},
		{"lecturer cannot verify own record", RoleLecturer, KindAttendance, ActionVerify, true, false, false},
		{"admin notification needs ownership", RoleAdmin, KindNotification, ActionUpdate, false, false, false},
		{"admin reads own notification", RoleAdmin, KindNotification, ActionUpdate, true, false, true},
		{"coordinator views own account only", RoleCoordinator, KindUser, ActionView, false, false, false},
		{"unknown kind denies", RoleAdmin, KindUnknown, ActionView, true, true, false},
		{"unknown role denies", Role("ghost"), KindSchedule, ActionView, true, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PolicyAllows(tc.role, tc.kind, tc.action, tc.owner, tc.member); got != tc.want {
				t.Fatalf("PolicyAllows(%s, %s, %s, %v, %v) = %v, want %v",
					tc.role, tc.kind, tc.action, tc.owner, tc.member, got, tc.want)
			}
		})
	}
}
