package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/errors"
	"git.home.luguber.info/inful/folio/internal/linkcheck"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/manifest"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/render"
	"git.home.luguber.info/inful/folio/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output.directory)"`
	NoClean     bool   `name:"no-clean" help:"Keep existing files in the output directory"`
	Check       bool   `name:"check" help:"Verify internal links after rendering"`
	MetricsFile string `name:"metrics-file" help:"Write build metrics in Prometheus text format to this file"`
	Force       bool   `short:"f" name:"force" help:"Render even when the output is up to date"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, snap, err := root.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.NoClean {
		cfg.Output.Clean = false
	}

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	fsys := afero.NewOsFs()

	if !b.Force {
		planned, perr := manifest.Planned(cfg, snap)
		if perr != nil {
			return perr
		}
		if fresh, ferr := manifest.UpToDate(fsys, cfg.Output.Directory, planned); ferr != nil {
			slog.Warn("Ignoring unreadable build manifest", logfields.Error(ferr))
		} else if fresh {
			_, _ = fmt.Fprintf(g.Out, "Site in %s is up to date\n", cfg.Output.Directory)
			return nil
		}
	}

	res, err := RunBuild(ctx, fsys, cfg, snap, rec)
	if err == nil {
		err = writeManifest(fsys, cfg, snap, res)
	}
	if err == nil && b.Check {
		var report *linkcheck.Report
		if report, err = RunCheck(ctx, fsys, cfg, snap, rec); err == nil {
			writeReport(g, report)
			err = brokenLinksError(report)
		}
	}
	if b.MetricsFile != "" {
		if werr := prom.WriteToTextfile(b.MetricsFile, reg); werr != nil {
			slog.Warn("Failed to write metrics file", logfields.File(b.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "Built %d pages into %s (%s)\n", res.Pages, res.OutputDir, res.Duration.Round(time.Millisecond))
	return nil
}

// RunBuild renders snap into cfg.Output.Directory on fsys.
func RunBuild(ctx context.Context, fsys afero.Fs, cfg *config.Config, snap *site.Snapshot, rec metrics.Recorder) (*render.Result, error) {
	slog.Info("Starting site build",
		slog.String("output", cfg.Output.Directory),
		logfields.Count(len(snap.Pages())))
	return render.New(fsys, cfg.Output).WithRecorder(rec).Build(ctx, snap)
}

func writeManifest(fsys afero.Fs, cfg *config.Config, snap *site.Snapshot, res *render.Result) error {
	m, err := manifest.New(fsys, cfg, snap, res)
	if err != nil {
		return ferrors.OutputError("manifest", err)
	}
	if err := m.Write(fsys, cfg.Output.Directory); err != nil {
		return ferrors.OutputError("manifest", err)
	}
	return nil
}

// CheckCmd renders the site in memory and checks its internal links.
type CheckCmd struct {
	JSON bool `name:"json" help:"Print the report as JSON"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	ctx := context.Background()
	cfg, snap, err := root.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	fsys := afero.NewMemMapFs()
	cfg.Output.Directory = "/site"
	if _, err := RunBuild(ctx, fsys, cfg, snap, nil); err != nil {
		return err
	}
	report, err := RunCheck(ctx, fsys, cfg, snap, nil)
	if err != nil {
		return err
	}
	if c.JSON {
		if err := printJSON(g.Out, report); err != nil {
			return err
		}
	} else {
		writeReport(g, report)
	}
	return brokenLinksError(report)
}

// RunCheck verifies the internal links of the site rendered into
// cfg.Output.Directory on fsys.
func RunCheck(ctx context.Context, fsys afero.Fs, cfg *config.Config, snap *site.Snapshot, rec metrics.Recorder) (*linkcheck.Report, error) {
	known := make([]string, 0, len(snap.Pages()))
	for _, p := range snap.Pages() {
		known = append(known, p.Path)
	}
	checker := linkcheck.New(known, cfg.Site.BaseURL)
	if rec != nil {
		checker = checker.WithRecorder(rec)
	}
	return checker.CheckDir(ctx, fsys, cfg.Output.Directory)
}

func writeReport(g *Global, report *linkcheck.Report) {
	for _, b := range report.Broken {
		_, _ = fmt.Fprintf(g.Out, "%s: broken link %q -> %s\n", b.Page, b.URL, b.Target)
	}
	_, _ = fmt.Fprintf(g.Out, "Checked %d links on %d pages, %d broken\n", report.Links, report.Pages, len(report.Broken))
}

func brokenLinksError(report *linkcheck.Report) error {
	if len(report.Broken) > 0 {
		return ferrors.BrokenLinks(len(report.Broken))
	}
	return nil
}
