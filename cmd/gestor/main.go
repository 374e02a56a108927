package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/gestorpago/gestor-cli/cmd/gestor/internal/commands"
	"github.com/gestorpago/gestor-cli/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login        commands.LoginCmd        `cmd:"" help:"Log in with email and password"`
		Register     commands.RegisterCmd     `cmd:"" help:"Register a new account"`
		Logout       commands.LogoutCmd       `cmd:"" help:"Discard the stored session"`
		Whoami       commands.WhoamiCmd       `cmd:"" help:"Show the logged-in user"`
		Refresh      commands.RefreshCmd      `cmd:"" help:"Force a session token renewal"`
		Clients      commands.ClientsCmd      `cmd:"" help:"Manage clients"`
		Invoices     commands.InvoicesCmd     `cmd:"" help:"Manage invoices"`
		Cobranza     commands.CobranzaCmd     `cmd:"" help:"Record and list collections"`
		Bitacora     commands.BitacoraCmd     `cmd:"" help:"Client contact logbook"`
		Pagos        commands.PagosCmd        `cmd:"" help:"External payments"`
		Proyecciones commands.ProyeccionesCmd `cmd:"" help:"Projected payments"`
		Users        commands.UsersCmd        `cmd:"" help:"User administration (admin only)"`
		Debug        bool                     `help:"Enable debug mode."`
		Version      kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	log.Logger = logger.Setup(cli.Debug)
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
