package authz

import (
	"context"
	"net/http"
	"sort"
	"sync"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID string
	Role   Role
}

// CustomCheck is an escape hatch deciding a request on its own, bypassing
// permission-token and resource checks entirely.
type CustomCheck interface {
	Decide(ctx context.Context, ident Identity, r *http.Request) bool
}

// CustomCheckFunc adapts a function to the CustomCheck interface.
type CustomCheckFunc func(ctx context.Context, ident Identity, r *http.Request) bool

// Decide implements CustomCheck.
func (f CustomCheckFunc) Decide(ctx context.Context, ident Identity, r *http.Request) bool {
	return f(ctx, ident, r)
}

var (
	customChecksMu sync.RWMutex
	customChecks   = map[string]CustomCheck{}
)

// RegisterCustomCheck installs a named check strategy. Registration happens
// during wiring, before the router serves traffic.
func RegisterCustomCheck(name string, check CustomCheck) {
	customChecksMu.Lock()
	defer customChecksMu.Unlock()
	customChecks[name] = check
}

// CustomCheckNames lists registered strategies, mostly for diagnostics.
func CustomCheckNames() []string {
	customChecksMu.RLock()
	defer customChecksMu.RUnlock()
	names := make([]string, 0, len(customChecks))
	for name := range customChecks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupCustomCheck(name string) (CustomCheck, bool) {
	customChecksMu.RLock()
	defer customChecksMu.RUnlock()
	check, ok := customChecks[name]
	return check, ok
}

// ResourceCheck configures resource-level gating for a route.
type ResourceCheck struct {
	Kind            ResourceKind
	Action          Action
	CheckOwnership  bool
	CheckMembership bool
}

// GateConfig describes the authorization requirements of a route group.
// Zero value means "authenticated users only".
type GateConfig struct {
	// Custom names a registered CustomCheck. When set it is the final
	// decision and no other check runs.
	Custom string
	// Permissions is a static token list checked against the role table.
	Permissions []string
	// RequireAll switches the token list from any-of to all-of.
	RequireAll bool
	// Resource enables per-instance ownership/membership gating.
	Resource *ResourceCheck
}

// Decision is the outcome of evaluating a request.
type Decision struct {
	Allowed bool
	Status  int
	Message string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(status int, message string) Decision {
	return Decision{Status: status, Message: message}
}

// Denial messages exposed on the HTTP boundary.
const (
	MsgUnauthenticated         = "Authentication required"
	MsgInsufficientPermissions = "Insufficient permissions"
	MsgAccessDenied            = "Access denied"
	MsgResourceDenied          = "Access denied for this resource"
	MsgInternalError           = "Internal server error"
)

// Evaluator composes the role table, the resolvers, and the resource policy
// into allow/deny decisions. It performs read-only lookups and keeps no
// per-request state.
type Evaluator struct {
	resolver *Resolver
}

// NewEvaluator constructs an Evaluator.
func NewEvaluator(resolver *Resolver) *Evaluator {
	return &Evaluator{resolver: resolver}
}

// Evaluate decides a request. The first applicable branch wins: session,
// custom check, permission tokens, resource check. With nothing configured an
// authenticated request is allowed; that fallthrough mirrors the historical
// behaviour of the gate and is kept on purpose.
func (e *Evaluator) Evaluate(ctx context.Context, cfg GateConfig, ident *Identity, r *http.Request) Decision {
	if ident == nil || ident.UserID == "" {
		return deny(http.StatusUnauthorized, MsgUnauthenticated)
	}

	if cfg.Custom != "" {
		check, ok := lookupCustomCheck(cfg.Custom)
		if !ok {
			// Unknown strategy name is a wiring bug; fail closed.
			return deny(http.StatusForbidden, MsgAccessDenied)
		}
		if check.Decide(ctx, *ident, r) {
			return allow()
		}
		return deny(http.StatusForbidden, MsgAccessDenied)
	}

	if len(cfg.Permissions) > 0 {
		ok := HasAny(ident.Role, cfg.Permissions)
		if cfg.RequireAll {
			ok = HasAll(ident.Role, cfg.Permissions)
		}
		if !ok {
			return deny(http.StatusForbidden, MsgInsufficientPermissions)
		}
		return allow()
	}

	if cfg.Resource != nil {
		ref := ResourceRef{Kind: cfg.Resource.Kind, ID: ExtractResourceID(r.URL.Path)}
		var owner, member bool
		if cfg.Resource.CheckOwnership {
			owner = e.resolver.Owns(ctx, ref, ident.UserID, ident.Role)
		}
		if cfg.Resource.CheckMembership {
			member = e.resolver.InClassGroup(ctx, ref, ident.UserID, ident.Role)
		}
		if !PolicyAllows(ident.Role, cfg.Resource.Kind, cfg.Resource.Action, owner, member) {
			return deny(http.StatusForbidden, MsgResourceDenied)
		}
		return allow()
	}

	return allow()
}
