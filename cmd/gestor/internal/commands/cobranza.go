package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/gestorpago/gestor-cli/internal/api"
)

type CobranzaCmd struct {
	List   CobranzaListCmd   `cmd:"" help:"List collection entries"`
	Record CobranzaRecordCmd `cmd:"" help:"Record a collected payment"`
}

type CobranzaListCmd struct {
	apiFlags
}

func (l *CobranzaListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := l.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/cobranza"); err != nil {
		return err
	}

	entries, err := clients.Collections.List(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No collection entries found.")
		return nil
	}

	fmt.Printf("%-24s %-24s %12s %-12s %-12s\n", "ID", "Invoice", "Amount", "Method", "Collected")
	fmt.Println(strings.Repeat("─", 90))
	for _, e := range entries {
		fmt.Printf("%-24s %-24s %12s %-12s %-12s\n",
			e.ID, e.InvoiceID, formatMoney(e.Amount), e.Method, formatDate(e.CollectedAt))
	}
	return nil
}

type CobranzaRecordCmd struct {
	apiFlags
	InvoiceID string  `arg:"" help:"Invoice ID"`
	Amount    float64 `arg:"" help:"Collected amount"`
	Method    string  `help:"Payment method" default:"efectivo"`
	Notes     string  `help:"Free-form notes"`
}

func (r *CobranzaRecordCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := r.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/cobranza"); err != nil {
		return err
	}

	entry, err := clients.Collections.Create(ctx, api.Collection{
		InvoiceID: r.InvoiceID,
		Amount:    r.Amount,
		Method:    r.Method,
		Notes:     r.Notes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %s against invoice %s (%s)\n",
		formatMoney(entry.Amount), entry.InvoiceID, entry.ID)
	return nil
}
