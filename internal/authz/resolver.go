package authz

import (
	"context"
	"log/slog"
)

// Store provides the point lookups the resolvers need. Implementations must
// return shared.ErrNotFound-style errors for missing rows; the resolvers
// treat every error as "no".
type Store interface {
	// ScheduleLecturer returns the lecturer user id assigned to a schedule.
	ScheduleLecturer(ctx context.Context, scheduleID string) (string, error)
	// ScheduleClassGroup returns the class group id a schedule belongs to.
	ScheduleClassGroup(ctx context.Context, scheduleID string) (string, error)
	// AttendanceSchedule returns the lecturer and class group reachable
	// through an attendance record's schedule.
	AttendanceSchedule(ctx context.Context, recordID string) (lecturerID, classGroupID string, err error)
	// NotificationOwner returns the user id a notification addresses.
	NotificationOwner(ctx context.Context, notificationID string) (string, error)
	// RepresentedGroups returns the class group ids the user represents.
	RepresentedGroups(ctx context.Context, userID string) ([]string, error)
}

// Resolver answers ownership and class-membership questions for single
// resource instances. It holds no state beyond its store handle and is safe
// for concurrent use.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// failClosed converts any lookup error into a denial. Authorization lookups
// never propagate errors to the caller.
func (rv *Resolver) failClosed(fn func() (bool, error)) bool {
	ok, err := fn()
	if err != nil {
		if rv.logger != nil {
			rv.logger.Warn("authz lookup failed, denying", slog.Any("error", err))
		}
		return false
	}
	return ok
}

// Owns reports whether the acting user owns the resource under the given
// role. Ownership is role-scoped: only a lecturer can own a schedule or an
// attendance record, while user and notification ownership is a plain
// identity match.
func (rv *Resolver) Owns(ctx context.Context, ref ResourceRef, userID string, role Role) bool {
	if ref.ID == "" || userID == "" {
		return false
	}
	switch ref.Kind {
	case KindSchedule:
		if role != RoleLecturer {
			return false
		}
		return rv.failClosed(func() (bool, error) {
			lecturerID, err := rv.store.ScheduleLecturer(ctx, ref.ID)
			return err == nil && lecturerID == userID, err
		})
	case KindAttendance:
		if role != RoleLecturer {
			return false
		}
		return rv.failClosed(func() (bool, error) {
			lecturerID, _, err := rv.store.AttendanceSchedule(ctx, ref.ID)
			return err == nil && lecturerID == userID, err
		})
	case KindUser:
		return ref.ID == userID
	case KindNotification:
		return rv.failClosed(func() (bool, error) {
			ownerID, err := rv.store.NotificationOwner(ctx, ref.ID)
			return err == nil && ownerID == userID, err
		})
	default:
		return false
	}
}

// InClassGroup reports whether the resource belongs to a class group the
// acting user represents. Only meaningful for class representatives; every
// other role gets false without a lookup.
func (rv *Resolver) InClassGroup(ctx context.Context, ref ResourceRef, userID string, role Role) bool {
	if role != RoleClassRep || ref.ID == "" || userID == "" {
		return false
	}

	var groupID string
	switch ref.Kind {
	case KindAttendance:
		if !rv.failClosed(func() (bool, error) {
			_, gid, err := rv.store.AttendanceSchedule(ctx, ref.ID)
			groupID = gid
			return err == nil && gid != "", err
		}) {
			return false
		}
	case KindSchedule:
		if !rv.failClosed(func() (bool, error) {
			gid, err := rv.store.ScheduleClassGroup(ctx, ref.ID)
			groupID = gid
			return err == nil && gid != "", err
		}) {
			return false
		}
	default:
		return false
	}

	return rv.failClosed(func() (bool, error) {
		groups, err := rv.store.RepresentedGroups(ctx, userID)
		if err != nil {
			return false, err
		}
		for _, g := range groups {
			if g == groupID {
				return true, nil
			}
		}
		return false, nil
	})
}
