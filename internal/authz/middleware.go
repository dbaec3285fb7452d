package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Edinam27/lect-next/internal/observability"
	"github.com/Edinam27/lect-next/internal/platform/httpx"
	"github.com/Edinam27/lect-next/internal/shared"
)

type identityContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the identity placed by the gate middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityContextKey{}).(Identity)
	return ident, ok
}

// Middleware wires authorization gates for HTTP routes.
type Middleware struct {
	Evaluator *Evaluator
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// Gate wraps a route group with the configured authorization checks. Denials
// short-circuit with a JSON error body and never mutate state.
func (m Middleware) Gate(cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if m.Logger != nil {
						m.Logger.Error("authz gate panic", slog.Any("panic", rec), slog.String("path", r.URL.Path))
					}
					httpx.Error(w, http.StatusInternalServerError, MsgInternalError)
				}
			}()

			ident := m.identity(r)
			decision := m.Evaluator.Evaluate(r.Context(), cfg, ident, r)
			if !decision.Allowed {
				if m.Logger != nil && decision.Status == http.StatusForbidden {
					m.Logger.Info("request denied",
						slog.String("path", r.URL.Path),
						slog.String("reason", decision.Message))
				}
				m.Metrics.CountDenial(denialReason(decision.Message))
				httpx.Error(w, decision.Status, decision.Message)
				return
			}

			if ident != nil {
				r = r.WithContext(ContextWithIdentity(r.Context(), *ident))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny gates on at least one of the permission tokens.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return m.Gate(GateConfig{Permissions: perms})
}

// RequireAll gates on the full permission token list.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.Gate(GateConfig{Permissions: perms, RequireAll: true})
}

// RequireAuth gates on an authenticated session only.
func (m Middleware) RequireAuth() func(http.Handler) http.Handler {
	return m.Gate(GateConfig{})
}

// denialReason maps a denial message to a bounded metric label.
func denialReason(message string) string {
	switch message {
	case MsgUnauthenticated:
		return "unauthenticated"
	case MsgInsufficientPermissions:
		return "insufficient_permissions"
	case MsgResourceDenied:
		return "resource_denied"
	case MsgAccessDenied:
		return "access_denied"
	default:
		return "other"
	}
}

// identity builds the acting identity from the request session. Returns nil
// when there is no authenticated session.
func (m Middleware) identity(r *http.Request) *Identity {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return nil
	}
	userID := sess.User()
	if userID == "" {
		return nil
	}
	return &Identity{UserID: userID, Role: ParseRole(sess.Get(shared.SessionRoleKey))}
}
