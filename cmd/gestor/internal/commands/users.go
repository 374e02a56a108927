package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/gestorpago/gestor-cli/internal/session"
)

type UsersCmd struct {
	List    UsersListCmd    `cmd:"" help:"List application users"`
	SetRole UsersSetRoleCmd `cmd:"" help:"Change a user's role"`
}

type UsersListCmd struct {
	apiFlags
}

func (l *UsersListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := l.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, session.RoleAdmin, "/usuarios"); err != nil {
		return err
	}

	users, err := clients.Users.List(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-24s %-24s %-30s %-8s\n", "ID", "Name", "Email", "Role")
	fmt.Println(strings.Repeat("─", 90))
	for _, u := range users {
		fmt.Printf("%-24s %-24s %-30s %-8s\n", u.ID, truncate(u.Name, 24), u.Email, u.Role)
	}
	return nil
}

type UsersSetRoleCmd struct {
	apiFlags
	ID   string `arg:"" help:"User ID"`
	Role string `arg:"" help:"New role (admin or user)" enum:"admin,user"`
}

func (s *UsersSetRoleCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := s.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, session.RoleAdmin, "/usuarios"); err != nil {
		return err
	}

	user, err := clients.Users.SetRole(ctx, s.ID, session.Role(s.Role))
	if err != nil {
		return err
	}

	fmt.Printf("User %s is now %s\n", user.Email, user.Role)
	return nil
}
