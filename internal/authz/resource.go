package authz

import (
	"regexp"
	"strings"
)

// ResourceKind enumerates the resource types the permission core understands.
type ResourceKind int

const (
	KindUnknown ResourceKind = iota
	KindSchedule
	KindAttendance
	KindUser
	KindNotification
)

// String returns the kind name used in policy keys and logs.
func (k ResourceKind) String() string {
	switch k {
	case KindSchedule:
		return "schedule"
	case KindAttendance:
		return "attendance"
	case KindUser:
		return "user"
	case KindNotification:
		return "notification"
	default:
		return "unknown"
	}
}

// ResourceRef addresses one resource instance. ID is the raw identifier
// extracted from the request path and may be empty.
type ResourceRef struct {
	Kind ResourceKind
	ID   string
}

var (
	uuidSegment    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	decimalSegment = regexp.MustCompile(`^[0-9]+$`)
)

// ExtractResourceID scans path segments from the end and returns the first
// one shaped like a UUID or a decimal integer. Returns "" when the path
// carries no identifier.
func ExtractResourceID(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" {
			continue
		}
		if uuidSegment.MatchString(seg) || decimalSegment.MatchString(seg) {
			return seg
		}
	}
	return ""
}
