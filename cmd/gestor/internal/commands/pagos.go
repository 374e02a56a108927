package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/gestorpago/gestor-cli/internal/api"
)

type PagosCmd struct {
	List   PagosListCmd   `cmd:"" help:"List external payments"`
	Record PagosRecordCmd `cmd:"" help:"Record an external payment"`
}

type PagosListCmd struct {
	apiFlags
}

func (l *PagosListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := l.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/pagos-externos"); err != nil {
		return err
	}

	payments, err := clients.Payments.List(ctx)
	if err != nil {
		return err
	}

	if len(payments) == 0 {
		fmt.Println("No external payments found.")
		return nil
	}

	fmt.Printf("%-24s %-24s %12s %-20s %-12s\n", "ID", "Client", "Amount", "Reference", "Received")
	fmt.Println(strings.Repeat("─", 98))
	for _, p := range payments {
		fmt.Printf("%-24s %-24s %12s %-20s %-12s\n",
			p.ID, p.ClientID, formatMoney(p.Amount), p.Reference, formatDate(p.ReceivedAt))
	}
	return nil
}

type PagosRecordCmd struct {
	apiFlags
	ClientID  string  `arg:"" help:"Client ID"`
	Amount    float64 `arg:"" help:"Payment amount"`
	Reference string  `help:"Bank or receipt reference"`
}

func (r *PagosRecordCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := r.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/pagos-externos"); err != nil {
		return err
	}

	payment, err := clients.Payments.Create(ctx, api.ExternalPayment{
		ClientID:  r.ClientID,
		Amount:    r.Amount,
		Reference: r.Reference,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recorded external payment %s of %s\n", payment.ID, formatMoney(payment.Amount))
	return nil
}
