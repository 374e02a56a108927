package commands

import (
	"context"
	"fmt"
)

type LoginCmd struct {
	apiFlags
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Account password" env:"GESTOR_PASSWORD" required:""`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	clients, _, err := l.connect()
	if err != nil {
		return err
	}

	user, err := clients.Auth.Login(ctx, l.Email, l.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}

type RegisterCmd struct {
	apiFlags
	Name         string `arg:"" help:"Display name"`
	Email        string `arg:"" help:"Account email"`
	Password     string `help:"Account password" env:"GESTOR_PASSWORD" required:""`
	PasswordConf string `help:"Password confirmation" env:"GESTOR_PASSWORD_CONF" required:""`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	clients, _, err := r.connect()
	if err != nil {
		return err
	}

	user, err := clients.Auth.Register(ctx, r.Name, r.Email, r.Password, r.PasswordConf)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Registered and logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}

type LogoutCmd struct {
	apiFlags
}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	_, sess, err := l.connect()
	if err != nil {
		return err
	}

	sess.Logout()
	fmt.Println("Logged out.")
	return nil
}

type WhoamiCmd struct {
	apiFlags
}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := w.connect()
	if err != nil {
		return err
	}

	if err := requireRole(ctx, clients, sess, "", "/whoami"); err != nil {
		return err
	}

	user := sess.CurrentUser()
	fmt.Printf("%s <%s>\nRole: %s\nMember since: %s\n",
		user.Name, user.Email, user.Role, formatDate(user.CreatedAt))
	return nil
}

type RefreshCmd struct {
	apiFlags
}

func (r *RefreshCmd) Run(ctx context.Context, globals *Globals) error {
	clients, _, err := r.connect()
	if err != nil {
		return err
	}

	if err := clients.Auth.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	fmt.Println("Session renewed.")
	return nil
}
