package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorpago/gestor-cli/internal/session"
)

// refreshMux serves /auth/refresh-token (rotating oldToken to newToken) and
// /clientes (accepting only newToken). delay stretches the refresh call so
// concurrent requests overlap with it.
func refreshMux(t *testing.T, oldToken, newToken string, delay time.Duration, refreshCalls *atomic.Int64) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		time.Sleep(delay)
		if r.Header.Get("Authorization") != "Bearer "+oldToken {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token inválido"})
			return
		}
		writeJSON(t, w, http.StatusOK, credentialsResponse{
			User:  testUser("u1", session.RoleUser),
			Token: newToken,
		})
	})
	mux.HandleFunc("GET /clientes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+newToken {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "no autorizado"})
			return
		}
		writeJSON(t, w, http.StatusOK, []ClientRecord{{ID: "c1", Name: "Comercial Sol"}})
	})
	return mux
}

func TestTransport_ProactiveRefresh(t *testing.T) {
	// Expires in 200s: not yet "expired" but well inside the refresh window.
	oldToken := signedToken(t, "u1", time.Now().Add(200*time.Second))
	newToken := signedToken(t, "u1", time.Now().Add(time.Hour))

	var refreshCalls atomic.Int64
	mux := refreshMux(t, oldToken, newToken, 0, &refreshCalls)

	clients, sess := newTestClients(t, mux)
	sess.Complete(testUser("u1", session.RoleUser), oldToken)

	records, err := clients.Clients.List(t.Context())
	require.NoError(t, err)

	assert.Len(t, records, 1)
	assert.EqualValues(t, 1, refreshCalls.Load())
	assert.Equal(t, newToken, sess.Token())
}

func TestTransport_SingleFlightUnderConcurrent401(t *testing.T) {
	// Healthy-looking token that the server has already invalidated.
	oldToken := signedToken(t, "u1", time.Now().Add(time.Hour))
	newToken := signedToken(t, "u1", time.Now().Add(2*time.Hour))

	var refreshCalls atomic.Int64
	mux := refreshMux(t, oldToken, newToken, 200*time.Millisecond, &refreshCalls)

	clients, sess := newTestClients(t, mux)
	sess.Complete(testUser("u1", session.RoleUser), oldToken)

	const n = 3
	start := make(chan struct{})
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = clients.Clients.List(t.Context())
		}()
	}
	close(start)
	wg.Wait()

	for i := range n {
		assert.NoError(t, errs[i])
	}
	assert.EqualValues(t, 1, refreshCalls.Load())
	assert.Equal(t, newToken, sess.Token())
}

func TestTransport_RefreshFailureRejectsAllAndLogsOut(t *testing.T) {
	oldToken := signedToken(t, "u1", time.Now().Add(time.Hour))

	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		time.Sleep(200 * time.Millisecond)
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "sesión expirada"})
	})
	mux.HandleFunc("GET /clientes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "no autorizado"})
	})

	clients, sess := newTestClients(t, mux)
	sess.Complete(testUser("u1", session.RoleUser), oldToken)

	const n = 3
	start := make(chan struct{})
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = clients.Clients.List(t.Context())
		}()
	}
	close(start)
	wg.Wait()

	for i := range n {
		assert.Error(t, errs[i])
	}
	assert.EqualValues(t, 1, refreshCalls.Load())
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Token())
}

func TestTransport_ExpiredTokenFailsClosed(t *testing.T) {
	// Locally expired: the proactive refresh runs, the server rejects it,
	// and the request goes out bare for the server to reject as well.
	oldToken := signedToken(t, "u1", time.Now().Add(-time.Minute))

	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token inválido"})
	})
	mux.HandleFunc("GET /clientes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "no autorizado"})
	})

	clients, sess := newTestClients(t, mux)
	sess.Complete(testUser("u1", session.RoleUser), oldToken)

	_, err := clients.Clients.List(t.Context())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	assert.EqualValues(t, 1, refreshCalls.Load())
	assert.False(t, sess.IsAuthenticated())
}

func TestTransport_NoTokenSendsBareRequest(t *testing.T) {
	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token inválido"})
	})
	mux.HandleFunc("GET /clientes", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "no autorizado"})
	})

	clients, sess := newTestClients(t, mux)

	_, err := clients.Clients.List(t.Context())
	require.Error(t, err)

	assert.EqualValues(t, 0, refreshCalls.Load())
	assert.False(t, sess.IsAuthenticated())
}

func TestTransport_ReplayPreservesBody(t *testing.T) {
	oldToken := signedToken(t, "u1", time.Now().Add(time.Hour))
	newToken := signedToken(t, "u1", time.Now().Add(2*time.Hour))

	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(t, w, http.StatusOK, credentialsResponse{
			User:  testUser("u1", session.RoleUser),
			Token: newToken,
		})
	})
	mux.HandleFunc("POST /clientes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+newToken {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "no autorizado"})
			return
		}
		var record ClientRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		record.ID = "c9"
		writeJSON(t, w, http.StatusCreated, record)
	})

	clients, sess := newTestClients(t, mux)
	sess.Complete(testUser("u1", session.RoleUser), oldToken)

	created, err := clients.Clients.Create(t.Context(), ClientRecord{Name: "Comercial Sol"})
	require.NoError(t, err)

	assert.Equal(t, "c9", created.ID)
	assert.Equal(t, "Comercial Sol", created.Name)
	assert.EqualValues(t, 1, refreshCalls.Load())
}
