package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestorpago/gestor-cli/internal/api"
	"github.com/gestorpago/gestor-cli/internal/config"
	"github.com/gestorpago/gestor-cli/internal/guard"
	"github.com/gestorpago/gestor-cli/internal/session"
)

type Globals struct {
	Debug   bool
	Version string
}

// apiFlags are the connection flags shared by every command that talks to
// the API. Flags and environment variables override the profile file.
type apiFlags struct {
	BaseURL  string        `help:"API base URL" env:"GESTOR_API_URL"`
	Profile  string        `help:"Path to the profile file" env:"GESTOR_CONFIG"`
	CacheDir string        `help:"HTTP cache directory (empty disables caching)" env:"GESTOR_CACHE_DIR"`
	Timeout  time.Duration `help:"HTTP request timeout" default:"30s"`
}

// connect hydrates the session from disk and builds the API clients.
func (f *apiFlags) connect() (*api.Clients, *session.Store, error) {
	profile, err := config.Load(f.Profile)
	if err != nil {
		return nil, nil, err
	}

	baseURL := f.BaseURL
	if baseURL == "" {
		baseURL = profile.BaseURL
	}
	cacheDir := f.CacheDir
	if cacheDir == "" {
		cacheDir = profile.CacheDir
	}

	fileStore, err := session.NewFileStore("")
	if err != nil {
		return nil, nil, err
	}
	sess := session.NewStore(fileStore)

	clients, err := api.New(api.Config{
		BaseURL:  baseURL,
		Timeout:  f.Timeout,
		CacheDir: cacheDir,
	}, sess)
	if err != nil {
		return nil, nil, err
	}

	return clients, sess, nil
}

// requireRole runs the startup session check and the guard before a
// protected command. required "" admits any authenticated user.
func requireRole(ctx context.Context, clients *api.Clients, sess *session.Store, required session.Role, destination string) error {
	guard.Bootstrap(ctx, sess, clients.Auth)

	result := guard.Check(sess, required, destination)
	switch result.Decision {
	case guard.Allow:
		return nil
	case guard.RedirectLogin:
		return errors.New("no active session: run 'gestor login'")
	default:
		return fmt.Errorf("access denied: this command requires the %s role", required)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
