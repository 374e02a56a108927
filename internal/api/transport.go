package api

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/gestorpago/gestor-cli/internal/token"
)

// RefreshError reports that a request failed because the session could not
// be renewed. The session store has already been logged out by the time a
// caller sees this.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "session refresh failed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// sessionSource is the narrow view of session state the transport needs.
type sessionSource interface {
	Token() string
	Logout()
}

// refreshTransport is the authenticated client's round tripper. Before a
// request goes out it renews a token that is close to expiry; after a 401 it
// renews once and replays the request with the new token.
//
// The singleflight group is what keeps renewal coordinated: however many
// requests hit a 401 or a near-expiry token at the same instant, exactly one
// refresh call reaches the network, every other request waits on it, and all
// of them settle with its outcome. A failed refresh has already logged the
// session out, so waiters never retry against a dead session.
type refreshTransport struct {
	base    http.RoundTripper
	session sessionSource
	refresh func(context.Context) error
	group   singleflight.Group
}

func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// Proactive renewal. If it fails the refresh operation has logged the
	// session out and the request continues bare, for the server to judge.
	if current := t.session.Token(); current != "" && token.WillExpireSoon(current) {
		if err := t.singleRefresh(ctx); err != nil {
			log.Debug().Err(err).Msg("proactive refresh failed")
		}
	}

	out := req.Clone(ctx)
	if current := t.session.Token(); current != "" {
		out.Header.Set("Authorization", "Bearer "+current)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// 401: decide whether recovery is possible at all.
	current := t.session.Token()
	if current == "" || token.IsExpired(current) {
		t.session.Logout()
		return resp, nil
	}

	// The original body was consumed by the first attempt; without GetBody
	// the request cannot be replayed.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	if err := t.singleRefresh(ctx); err != nil {
		drain(resp)
		return nil, &RefreshError{Err: err}
	}

	drain(resp)

	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+t.session.Token())

	return t.base.RoundTrip(retry)
}

// singleRefresh funnels all callers through one in-flight refresh.
func (t *refreshTransport) singleRefresh(ctx context.Context) error {
	_, err, _ := t.group.Do("refresh", func() (any, error) {
		return nil, t.refresh(ctx)
	})
	return err
}

// drain discards the rest of a response so its connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
