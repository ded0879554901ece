package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/folio/internal/preview"
)

// PreviewCmd serves the site from memory and reloads on content changes.
type PreviewCmd struct {
	Port    int  `name:"port" help:"Server port (overrides preview.port)"`
	NoWatch bool `name:"no-watch" help:"Disable filesystem watching"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	// Setup signal-based context for graceful shutdown
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	return preview.Run(sigctx, cfg, preview.Options{Port: p.Port, NoWatch: p.NoWatch})
}
