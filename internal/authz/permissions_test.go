package authz

import "testing"

func TestRolePermissions(t *testing.T) {
	cases := []struct {
		role  Role
		token string
		want  bool
	}{
		{RoleAdmin, PermUsersManage, true},
		{RoleAdmin, PermAttendanceCheckIn, false},
		{RoleAdmin, PermAttendanceVerify, false},
		{RoleCoordinator, PermReportsExport, true},
		{RoleCoordinator, PermAuditView, false},
		{RoleCoordinator, PermProgrammesManage, false},
		{RoleLecturer, PermAttendanceCheckIn, true},
		{RoleLecturer, PermSchedulesManage, false},
		{RoleClassRep, PermAttendanceVerify, true},
		{RoleClassRep, PermAttendanceCheckIn, false},
		{Role("ghost"), PermUsersView, false},
		{Role(""), PermUsersView, false},
	}
	for _, tc := range cases {
		if got := Has(tc.role, tc.token); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.token, got, tc.want)
		}
	}
}

func TestHasAllImpliesHasAny(t *testing.T) {
	tokens := []string{PermUsersView, PermUsersManage}
	for _, role := range []Role{RoleAdmin, RoleCoordinator, RoleLecturer, RoleClassRep} {
		if HasAll(role, tokens) && !HasAny(role, tokens) {
			t.Errorf("role %q satisfies all of %v but not any", role, tokens)
		}
	}
}

func TestEmptyTokenListIsVacuouslyTrue(t *testing.T) {
	if !HasAll(RoleClassRep, nil) {
		t.Fatal("HasAll with empty list should be true")
	}
	if !HasAny(RoleClassRep, nil) {
		t.Fatal("HasAny with empty list should be true")
	}
	if !HasAll(Role("ghost"), nil) {
		t.Fatal("empty list holds even for unknown roles")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"admin", RoleAdmin},
		{" Coordinator ", RoleCoordinator},
		{"LECTURER", RoleLecturer},
		{"class_rep", RoleClassRep},
		{"student", Role("")},
		{"", Role("")},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.raw); got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
