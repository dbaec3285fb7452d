package authz

// Permission tokens checked against a role's static capability set.
const (
	PermUsersView   = "users.view"
	PermUsersManage = "users.manage"

	PermProgrammesManage = "programmes.manage"
	PermCoursesManage    = "courses.manage"
	PermSchedulesView    = "schedules.view"
	PermSchedulesManage  = "schedules.manage"

	PermAttendanceCheckIn = "attendance.checkin"
	PermAttendanceVerify  = "attendance.verify"
	PermAttendanceView    = "attendance.view"

	PermReportsExport = "reports.export"
	PermAuditView     = "audit.view"
)

// rolePermissions is the static role capability table, built once at process
// start and never mutated afterwards.
var rolePermissions = map[Role]map[string]struct{}{
	RoleAdmin: permSet(
		PermUsersView, PermUsersManage,
		PermProgrammesManage, PermCoursesManage,
		PermSchedulesView, PermSchedulesManage,
		PermAttendanceView,
		PermReportsExport, PermAuditView,
	),
	RoleCoordinator: permSet(
		PermUsersView,
		PermCoursesManage,
		PermSchedulesView, PermSchedulesManage,
		PermAttendanceView,
		PermReportsExport,
	),
	RoleLecturer: permSet(
		PermSchedulesView,
		PermAttendanceCheckIn, PermAttendanceView,
	),
	RoleClassRep: permSet(
		PermSchedulesView,
		PermAttendanceVerify, PermAttendanceView,
	),
}

func permSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether the role's capability set contains the token. Unknown
// roles hold no permissions.
func Has(role Role, token string) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = set[token]
	return ok
}

// HasAll reports whether the role holds every token. An empty token list is
// vacuously true.
func HasAll(role Role, tokens []string) bool {
	for _, t := range tokens {
		if !Has(role, t) {
			return false
		}
	}
	return true
}

// HasAny reports whether the role holds at least one token. An empty token
// list is vacuously true, matching HasAll.
func HasAny(role Role, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	for _, t := range tokens {
		if Has(role, t) {
			return true
		}
	}
	return false
}
