// Package api implements the HTTP gateway to the collections back-office
// API: a public client for login and registration, and an authenticated
// client whose transport coordinates bearer-token renewal.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gestorpago/gestor-cli/internal/session"
)

// Config holds common client configuration.
type Config struct {
	// BaseURL is the API root. Required; there is no production default.
	BaseURL string

	// Timeout bounds every request, including a hung refresh call.
	Timeout time.Duration

	// CacheDir enables a disk-backed HTTP cache for GET endpoints that
	// send Cache-Control headers. Empty disables caching.
	CacheDir string
}

// DefaultConfig returns a default client configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
	}
}

// APIError is a response the server answered with a 4xx/5xx status and,
// usually, a {message} body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned HTTP %d", e.StatusCode)
}

// Client is a thin JSON client over one http.Client.
type Client struct {
	base       *url.URL
	httpClient *http.Client
}

// Clients bundles everything the rest of the application talks through: the
// auth service plus one typed service per back-office resource. All resource
// services share the authenticated client; Auth uses the public one.
type Clients struct {
	Auth *AuthService

	Clients     *ClientService
	Invoices    *InvoiceService
	Collections *CollectionService
	Logbook     *LogbookService
	Payments    *PaymentService
	Projections *ProjectionService
	Users       *UserService
}

// New builds the two HTTP clients and the services on top of them. An empty
// base URL is a configuration error, never silently defaulted.
func New(cfg Config, sess *session.Store) (*Clients, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("API base URL is required (--base-url, GESTOR_API_URL, or the profile file)")
	}

	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	public := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: timeout},
	}

	auth := &AuthService{public: public, session: sess}

	authed := &Client{
		base: base,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &refreshTransport{
				base:    newBaseTransport(cfg.CacheDir),
				session: sess,
				refresh: auth.Refresh,
			},
		},
	}

	return &Clients{
		Auth:        auth,
		Clients:     &ClientService{c: authed},
		Invoices:    &InvoiceService{c: authed},
		Collections: &CollectionService{c: authed},
		Logbook:     &LogbookService{c: authed},
		Payments:    &PaymentService{c: authed},
		Projections: &ProjectionService{c: authed},
		Users:       &UserService{c: authed},
	}, nil
}

// Get issues a GET and decodes the JSON response into out. Transient network
// errors are retried with exponential backoff; anything the server actually
// answered is returned as-is.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	op := func() (struct{}, error) {
		err := c.send(ctx, http.MethodGet, path, "", nil, out)
		if err != nil && !retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
	return err
}

// Post issues a POST with a JSON body and decodes the response into out.
// Never retried; the server may have applied the write.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPost, path, "", in, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPut, path, "", in, out)
}

// send does one HTTP exchange. An explicit bearer token overrides whatever
// the transport would attach; the refresh operation uses this to present the
// token being renewed.
func (c *Client) send(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("request")

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError extracts the server's {message} envelope, falling back to the
// bare status code when the body is not usable.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Message = envelope.Message
	}

	return apiErr
}

// retryable reports whether an error is a transient transport failure. A
// response from the server, or a failed session refresh, is final.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var refreshErr *RefreshError
	if errors.As(err, &refreshErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
