package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/site"
)

// Global carries state shared by every command.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"folio.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Tree    TreeCmd    `cmd:"" help:"Print the navigation tree of a docs section"`
	Routes  RoutesCmd  `cmd:"" help:"List the routes of one or all docs sections"`
	Ls      LsCmd      `cmd:"" help:"List the folders and files of a docs directory"`
	Posts   PostsCmd   `cmd:"" help:"List published blog posts"`
	Resolve ResolveCmd `cmd:"" help:"Resolve a site path to its node and breadcrumbs"`
	Build   BuildCmd   `cmd:"" help:"Render the static site"`
	Check   CheckCmd   `cmd:"" help:"Render in memory and report broken internal links"`
	Preview PreviewCmd `cmd:"" help:"Serve the site with live reload on content changes"`
}

// AfterApply runs after flag parsing; setup logging once. The config file
// is not read yet, so commands reapply logging from it in loadConfig.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the configuration and installs its logger.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Logging.NewLogger(os.Stderr, c.Verbose))
	return cfg, nil
}

// loadSnapshot reads the configuration and the content tree it points at.
func (c *CLI) loadSnapshot(ctx context.Context) (*config.Config, *site.Snapshot, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	snap, err := site.Load(ctx, cfg, content.NewLoader(nil, cfg.Content))
	if err != nil {
		return nil, nil, err
	}
	return cfg, snap, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
