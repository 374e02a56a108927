// Package guard decides whether the current session may enter a protected
// destination, and runs the startup session check.
package guard

import (
	"context"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/gestorpago/gestor-cli/internal/session"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota

	// RedirectLogin sends an unauthenticated principal to the login view.
	RedirectLogin

	// RedirectDenied sends a principal lacking the admin role to the
	// access-denied view.
	RedirectDenied

	// RedirectHome sends a principal lacking a non-admin role home.
	RedirectHome
)

// Result is a decision plus the target of any redirect.
type Result struct {
	Decision Decision
	Target   string
}

// Session is the narrow view of session state the guard needs.
type Session interface {
	IsAuthenticated() bool
	CurrentUser() *session.User
}

// Refresher renews the stored session. Satisfied by api.AuthService.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Check decides whether the session may enter destination. required is the
// role the destination demands; "" means any authenticated user. The login
// redirect preserves the attempted destination so it can be resumed after a
// successful login.
func Check(sess Session, required session.Role, destination string) Result {
	if !sess.IsAuthenticated() {
		return Result{
			Decision: RedirectLogin,
			Target:   "/login?redirect=" + url.QueryEscape(destination),
		}
	}

	if required == "" {
		return Result{Decision: Allow}
	}

	user := sess.CurrentUser()
	if user != nil && user.Role == required {
		return Result{Decision: Allow}
	}

	if required == session.RoleAdmin {
		return Result{Decision: RedirectDenied, Target: "/denied"}
	}
	return Result{Decision: RedirectHome, Target: "/"}
}

// Bootstrap runs the application-start session check: a persisted
// authenticated session gets one eager refresh so a stale token is replaced
// before any domain request goes out. Best effort; a failed refresh has
// already forced a logout and the guard will catch the now-empty session.
func Bootstrap(ctx context.Context, sess Session, r Refresher) {
	if !sess.IsAuthenticated() {
		return
	}
	if err := r.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("startup session refresh failed")
	}
}
