package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/folio/cmd/folio/commands"
	ferrors "git.home.luguber.info/inful/folio/internal/errors"
	"git.home.luguber.info/inful/folio/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}
	parser := kong.Must(cli,
		kong.Name("folio"),
		kong.Description("Build and preview a markdown portfolio site: docs sections, blog and navigation."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(global, cli); err != nil {
		adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, nil)
		adapter.HandleError(err)
	}
}
