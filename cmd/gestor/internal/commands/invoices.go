package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gestorpago/gestor-cli/internal/api"
)

type InvoicesCmd struct {
	List   InvoicesListCmd   `cmd:"" help:"List invoices"`
	Show   InvoicesShowCmd   `cmd:"" help:"Show one invoice"`
	Create InvoicesCreateCmd `cmd:"" help:"Create an invoice"`
}

type InvoicesListCmd struct {
	apiFlags
}

func (l *InvoicesListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := l.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/facturas"); err != nil {
		return err
	}

	invoices, err := clients.Invoices.List(ctx)
	if err != nil {
		return err
	}

	if len(invoices) == 0 {
		fmt.Println("No invoices found.")
		return nil
	}

	fmt.Printf("%-24s %-12s %-24s %12s %12s %-10s %-12s\n",
		"ID", "Folio", "Client", "Amount", "Paid", "Status", "Due")
	fmt.Println(strings.Repeat("─", 112))
	for _, inv := range invoices {
		fmt.Printf("%-24s %-12s %-24s %12s %12s %-10s %-12s\n",
			inv.ID, inv.Folio, inv.ClientID, formatMoney(inv.Amount),
			formatMoney(inv.Paid), inv.Status, formatDate(inv.DueDate))
	}
	fmt.Printf("\nTotal invoices: %d\n", len(invoices))
	return nil
}

type InvoicesShowCmd struct {
	apiFlags
	ID string `arg:"" help:"Invoice ID"`
}

func (s *InvoicesShowCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := s.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/facturas"); err != nil {
		return err
	}

	inv, err := clients.Invoices.Get(ctx, s.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Invoice %s (folio %s)\nClient: %s\nAmount: %s\nPaid: %s\nStatus: %s\nDue: %s\n",
		inv.ID, inv.Folio, inv.ClientID, formatMoney(inv.Amount),
		formatMoney(inv.Paid), inv.Status, formatDate(inv.DueDate))
	return nil
}

type InvoicesCreateCmd struct {
	apiFlags
	ClientID string  `arg:"" help:"Client ID"`
	Amount   float64 `arg:"" help:"Invoice amount"`
	Folio    string  `help:"Invoice folio"`
	Due      string  `help:"Due date (YYYY-MM-DD)"`
}

func (c *InvoicesCreateCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := c.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/facturas"); err != nil {
		return err
	}

	invoice := api.Invoice{
		ClientID: c.ClientID,
		Amount:   c.Amount,
		Folio:    c.Folio,
	}
	if c.Due != "" {
		due, err := time.Parse("2006-01-02", c.Due)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", c.Due, err)
		}
		invoice.DueDate = due
	}

	created, err := clients.Invoices.Create(ctx, invoice)
	if err != nil {
		return err
	}

	fmt.Printf("Created invoice %s for %s\n", created.ID, formatMoney(created.Amount))
	return nil
}
