package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/gestorpago/gestor-cli/internal/api"
)

type BitacoraCmd struct {
	List BitacoraListCmd `cmd:"" help:"List logbook entries"`
	Add  BitacoraAddCmd  `cmd:"" help:"Add a logbook entry"`
}

type BitacoraListCmd struct {
	apiFlags
	Client string `help:"Filter by client ID"`
}

func (l *BitacoraListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := l.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/bitacora"); err != nil {
		return err
	}

	entries, err := clients.Logbook.List(ctx, l.Client)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No logbook entries found.")
		return nil
	}

	fmt.Printf("%-12s %-24s %-20s %s\n", "Date", "Client", "Author", "Note")
	fmt.Println(strings.Repeat("─", 100))
	for _, e := range entries {
		fmt.Printf("%-12s %-24s %-20s %s\n",
			formatDate(e.CreatedAt), e.ClientID, truncate(e.Author, 20), e.Note)
	}
	return nil
}

type BitacoraAddCmd struct {
	apiFlags
	ClientID string `arg:"" help:"Client ID"`
	Note     string `arg:"" help:"Entry text"`
}

func (a *BitacoraAddCmd) Run(ctx context.Context, globals *Globals) error {
	clients, sess, err := a.connect()
	if err != nil {
		return err
	}
	if err := requireRole(ctx, clients, sess, "", "/bitacora"); err != nil {
		return err
	}

	user := sess.CurrentUser()
	entry, err := clients.Logbook.Create(ctx, api.LogEntry{
		ClientID: a.ClientID,
		Note:     a.Note,
		Author:   user.Name,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added logbook entry %s\n", entry.ID)
	return nil
}
