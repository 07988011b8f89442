package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/buster/cmd/buster/commands"
	"git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("buster"),
		kong.Description("Turn a running Ghost blog into a static site and publish it."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(&commands.Global{Logger: slog.Default()}),
	)
	if err := ctx.Run(); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
