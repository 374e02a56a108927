package commands

import (
	"context"
	"fmt"
	"strings"
)

type ProyeccionesCmd struct {
	List ProyeccionesListCmd `cmd:"" help:"List projected payments"`
}

type ProyeccionesListCmd struct {
	apiFlags
}

func (l *ProyeccionesListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := l.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/proyecciones"); err != nil {
		return err
	}

	projections, err := clients.Projections.List(ctx)
	if err != nil {
		return err
	}

	if len(projections) == 0 {
		fmt.Println("No projections found.")
		return nil
	}

	fmt.Printf("%-24s %-24s %12s %-12s %-10s\n", "ID", "Client", "Amount", "Expected", "Fulfilled")
	fmt.Println(strings.Repeat("─", 88))
	var total, pending float64
	for _, p := range projections {
		fulfilled := "no"
		if p.Fulfilled {
			fulfilled = "yes"
		} else {
			pending += p.Amount
		}
		total += p.Amount
		fmt.Printf("%-24s %-24s %12s %-12s %-10s\n",
			p.ID, p.ClientID, formatMoney(p.Amount), formatDate(p.ExpectedOn), fulfilled)
	}
	fmt.Printf("\nProjected total: %s (pending %s)\n", formatMoney(total), formatMoney(pending))
	return nil
}
