package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/gestorpago/gestor-cli/internal/api"
)

type ClientsCmd struct {
	List   ClientsListCmd   `cmd:"" help:"List clients"`
	Show   ClientsShowCmd   `cmd:"" help:"Show one client"`
	Create ClientsCreateCmd `cmd:"" help:"Create a client"`
}

type ClientsListCmd struct {
	apiFlags
}

func (l *ClientsListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := l.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/clientes"); err != nil {
		return err
	}

	records, err := clients.Clients.List(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No clients found.")
		return nil
	}

	fmt.Printf("%-24s %-30s %-15s %12s\n", "ID", "Name", "Phone", "Balance")
	fmt.Println(strings.Repeat("─", 85))
	for _, r := range records {
		fmt.Printf("%-24s %-30s %-15s %12s\n", r.ID, truncate(r.Name, 30), r.Phone, formatMoney(r.Balance))
	}
	fmt.Printf("\nTotal clients: %d\n", len(records))
	return nil
}

type ClientsShowCmd struct {
	apiFlags
	ID string `arg:"" help:"Client ID"`
}

func (s *ClientsShowCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := s.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/clientes"); err != nil {
		return err
	}

	record, err := clients.Clients.Get(ctx, s.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\nEmail: %s\nPhone: %s\nBalance: %s\nSince: %s\n",
		record.Name, record.Email, record.Phone, formatMoney(record.Balance), formatDate(record.CreatedAt))
	return nil
}

type ClientsCreateCmd struct {
	apiFlags
	Name  string `arg:"" help:"Client name"`
	Email string `help:"Client email"`
	Phone string `help:"Client phone"`
}

func (c *ClientsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := c.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/clientes"); err != nil {
		return err
	}

	record, err := clients.Clients.Create(ctx, api.ClientRecord{
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created client %s (%s)\n", record.Name, record.ID)
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
