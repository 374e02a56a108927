package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gestorpago/gestor-cli/internal/session"
)

func authedStore(role session.Role) *session.Store {
	s := session.NewStore(nil)
	s.Complete(&session.User{ID: "u1", Name: "Ana", Email: "a@b.com", Role: role}, "tok-1")
	return s
}

func TestCheck_UnauthenticatedRedirectsToLogin(t *testing.T) {
	result := Check(session.NewStore(nil), "", "/facturas")

	assert.Equal(t, RedirectLogin, result.Decision)
	assert.Equal(t, "/login?redirect=%2Ffacturas", result.Target)
}

func TestCheck_AuthenticatedAllowed(t *testing.T) {
	result := Check(authedStore(session.RoleUser), "", "/facturas")
	assert.Equal(t, Allow, result.Decision)
}

func TestCheck_AdminRequired(t *testing.T) {
	result := Check(authedStore(session.RoleUser), session.RoleAdmin, "/usuarios")
	assert.Equal(t, RedirectDenied, result.Decision)
	assert.Equal(t, "/denied", result.Target)

	result = Check(authedStore(session.RoleAdmin), session.RoleAdmin, "/usuarios")
	assert.Equal(t, Allow, result.Decision)
}

func TestCheck_NonAdminRequirementRedirectsHome(t *testing.T) {
	result := Check(authedStore(session.RoleAdmin), session.RoleUser, "/cobranza")
	assert.Equal(t, RedirectHome, result.Decision)
	assert.Equal(t, "/", result.Target)
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestBootstrap_RefreshesPersistedSession(t *testing.T) {
	r := &fakeRefresher{}
	Bootstrap(t.Context(), authedStore(session.RoleUser), r)
	assert.Equal(t, 1, r.calls)
}

func TestBootstrap_SkipsLoggedOutSession(t *testing.T) {
	r := &fakeRefresher{}
	Bootstrap(t.Context(), session.NewStore(nil), r)
	assert.Equal(t, 0, r.calls)
}

func TestBootstrap_FailureIsNotFatal(t *testing.T) {
	r := &fakeRefresher{err: errors.New("token inválido")}
	Bootstrap(t.Context(), authedStore(session.RoleUser), r)
	assert.Equal(t, 1, r.calls)
}
