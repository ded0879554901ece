package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/folio/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write folio.yaml into"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	cfgPath := root.Config
	if i.Output != "" {
		cfgPath = filepath.Join(i.Output, config.DefaultPath)
	}
	_, _ = fmt.Fprintf(g.Out, "Writing configuration to %s\n", cfgPath)
	if err := config.Init(cfgPath, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Out, "initialized successfully")
	return nil
}
