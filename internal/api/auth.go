package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestorpago/gestor-cli/internal/session"
)

// ErrNoToken is returned by Refresh when there is no session to renew. No
// network call is made in that case.
var ErrNoToken = errors.New("no hay token disponible")

// Fallback messages shown when the server rejects an operation without a
// usable {message} body. Kept in Spanish to match what the API itself sends.
const (
	loginFallback    = "error al iniciar sesión"
	registerFallback = "error al registrar el usuario"
	refreshFallback  = "error al renovar la sesión"
	invalidResponse  = "respuesta inválida del servidor"
)

// AuthService runs the three session operations against the API and reduces
// their outcomes into the session store. It knows nothing about concurrency;
// the refresh transport is responsible for never running two refreshes at
// once.
type AuthService struct {
	public  *Client
	session *session.Store
}

type credentialsResponse struct {
	User  *session.User `json:"user"`
	Token string        `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PasswordConf string `json:"passwordconf"`
}

// Login exchanges credentials for a session. On failure the previous session
// is left untouched and the server's message lands in the store's error.
func (a *AuthService) Login(ctx context.Context, email, password string) (*session.User, error) {
	a.session.Begin()

	var out credentialsResponse
	err := a.public.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		a.session.Fail(messageOf(err, loginFallback))
		return nil, err
	}
	if out.User == nil || out.Token == "" {
		a.session.Fail(invalidResponse)
		return nil, errors.New(invalidResponse)
	}

	a.session.Complete(out.User, out.Token)

	log.Info().Str("user", out.User.Email).Msg("logged in")

	return out.User, nil
}

// Register creates an account. On success it behaves exactly like Login and
// stores the returned user and token.
func (a *AuthService) Register(ctx context.Context, name, email, password, passwordConf string) (*session.User, error) {
	a.session.Begin()

	var out credentialsResponse
	err := a.public.Post(ctx, "/auth/register", registerRequest{
		Name:         name,
		Email:        email,
		Password:     password,
		PasswordConf: passwordConf,
	}, &out)
	if err != nil {
		a.session.Fail(messageOf(err, registerFallback))
		return nil, err
	}
	if out.User == nil || out.Token == "" {
		a.session.Fail(invalidResponse)
		return nil, errors.New(invalidResponse)
	}

	a.session.Complete(out.User, out.Token)

	log.Info().Str("user", out.User.Email).Msg("registered")

	return out.User, nil
}

// Refresh renews the session using the current token. A refresh failure is
// not "try again": it forces a full logout, because a token the server will
// no longer renew means the session cannot be trusted.
func (a *AuthService) Refresh(ctx context.Context) error {
	current := a.session.Token()
	if current == "" {
		return ErrNoToken
	}

	a.session.Begin()

	var out credentialsResponse
	err := a.public.send(ctx, http.MethodGet, "/auth/refresh-token", current, nil, &out)
	if err != nil {
		a.session.FailRefresh(messageOf(err, refreshFallback))
		log.Warn().Err(err).Msg("session refresh failed, logged out")
		return err
	}
	if out.User == nil || out.Token == "" {
		a.session.FailRefresh(refreshFallback)
		return errors.New(invalidResponse)
	}

	a.session.Complete(out.User, out.Token)

	log.Debug().Str("user", out.User.Email).Msg("session refreshed")

	return nil
}

// messageOf picks the server-provided message when there is one, otherwise
// the operation's generic fallback.
func messageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
