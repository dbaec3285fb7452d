package authz

// Action names the operation a request performs on a resource.
type Action string

// Resource actions known to the policy table.
const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionVerify Action = "verify"
	ActionDelete Action = "delete"
)

type policyKey struct {
	role   Role
	kind   ResourceKind
	action Action
}

type policyRule int

const (
	// allowAlways grants the action regardless of ownership or membership.
	allowAlways policyRule = iota
	// requireOwner grants the action only when the ownership check passed.
	requireOwner
	// requireOwnerOrMember grants when either check passed.
	requireOwnerOrMember
	// requireMember grants only when the class-membership check passed.
	requireMember
)

// resourcePolicy is the static resource permission table. Absent keys deny.
var resourcePolicy = map[policyKey]policyRule{
	// Schedules: admins and coordinators see and manage everything, a
	// lecturer works only with their own schedules, a class rep may view
	// schedules of groups they represent.
	{RoleAdmin, KindSchedule, ActionView}:         allowAlways,
	{RoleAdmin, KindSchedule, ActionUpdate}:       allowAlways,
	{RoleAdmin, KindSchedule, ActionDelete}:       allowAlways,
	{RoleCoordinator, KindSchedule, ActionView}:   allowAlways,
	{RoleCoordinator, KindSchedule, ActionUpdate}: allowAlways,
	{RoleLecturer, KindSchedule, ActionView}:      requireOwner,
	{RoleClassRep, KindSchedule, ActionView}:      requireMember,

	// Attendance records. Admin verify carries the override that restores
	// a disputed record.
	{RoleAdmin, KindAttendance, ActionView}:       allowAlways,
	{RoleAdmin, KindAttendance, ActionVerify}:     allowAlways,
	{RoleAdmin, KindAttendance, ActionDelete}:     allowAlways,
	{RoleCoordinator, KindAttendance, ActionView}: allowAlways,
	{RoleLecturer, KindAttendance, ActionView}:    requireOwner,
	{RoleLecturer, KindAttendance, ActionUpdate}:  requireOwner,
	{RoleClassRep, KindAttendance, ActionView}:    requireMember,
	{RoleClassRep, KindAttendance, ActionVerify}:  requireMember,

	// User accounts: admins manage anyone, everyone else only themselves.
	{RoleAdmin, KindUser, ActionView}:         allowAlways,
	{RoleAdmin, KindUser, ActionUpdate}:       allowAlways,
	{RoleCoordinator, KindUser, ActionView}:   requireOwner,
	{RoleCoordinator, KindUser, ActionUpdate}: requireOwner,
	{RoleLecturer, KindUser, ActionView}:      requireOwner,
	{RoleLecturer, KindUser, ActionUpdate}:    requireOwner,
	{RoleClassRep, KindUser, ActionView}:      requireOwner,
	{RoleClassRep, KindUser, ActionUpdate}:    requireOwner,

	// Notifications are strictly per-user, admins included.
	{RoleAdmin, KindNotification, ActionView}:         requireOwner,
	{RoleAdmin, KindNotification, ActionUpdate}:       requireOwner,
	{RoleCoordinator, KindNotification, ActionView}:   requireOwner,
	{RoleCoordinator, KindNotification, ActionUpdate}: requireOwner,
	{RoleLecturer, KindNotification, ActionView}:      requireOwner,
	{RoleLecturer, KindNotification, ActionUpdate}:    requireOwner,
	{RoleClassRep, KindNotification, ActionView}:      requireOwner,
	{RoleClassRep, KindNotification, ActionUpdate}:    requireOwner,
}

// PolicyAllows consults the resource permission table with the outcome of
// the ownership and membership checks.
func PolicyAllows(role Role, kind ResourceKind, action Action, owner, member bool) bool {
	rule, ok := resourcePolicy[policyKey{role, kind, action}]
	if !ok {
		return false
	}
	switch rule {
	case allowAlways:
		return true
	case requireOwner:
		return owner
	case requireOwnerOrMember:
		return owner || member
	case requireMember:
		return member
	default:
		return false
	}
}
