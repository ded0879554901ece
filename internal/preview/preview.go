package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/render"
	"git.home.luguber.info/inful/folio/internal/site"
)

// Options tune Run.
type Options struct {
	Port     int  // overrides preview.port when non-zero
	NoWatch  bool // disable the filesystem watcher
	Registry *prom.Registry
}

// Run loads the content, serves it and reloads on changes until ctx ends.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	reg := opts.Registry
	if reg == nil {
		reg = prom.NewRegistry()
	}
	recorder := metrics.NewPrometheusRecorder(reg)

	loader := content.NewLoader(nil, cfg.Content)
	store := site.NewStore(nil)
	reloader := NewReloader(cfg, loader, store, recorder)

	if _, err := reloader.Reload(ctx); err != nil {
		// Keep serving so the error is visible on /healthz; the watcher
		// retries on the next change.
		slog.Error("Initial load failed", logfields.Error(err))
	}

	renderer := render.New(nil, cfg.Output).WithRecorder(recorder)
	server := NewServer(store, renderer, reloader, reg)

	port := cfg.Preview.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	addr, err := server.Start(ctx, fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	slog.Info("Preview server listening", slog.String("addr", addr.String()), logfields.URL(fmt.Sprintf("http://localhost:%d", port)))

	reload := func(ctx context.Context) {
		if _, err := reloader.Reload(ctx); err != nil {
			slog.Warn("Reload failed; serving previous snapshot", logfields.Error(err))
		}
	}

	rebuildReq, trigger := setupRebuildDebouncer(cfg.Preview.DebounceDuration())
	startRebuildWorker(ctx, reload, rebuildReq)

	if !opts.NoWatch {
		watcher, err := setupFileWatcher(loader.Root())
		if err != nil {
			slog.Warn("File watching disabled", logfields.Error(err))
		} else {
			defer func() { _ = watcher.Close() }()
			go watchLoop(ctx, watcher, trigger)
		}
	}

	if interval := cfg.Preview.ResyncDuration(); interval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.ScheduleResync(ctx, interval, reload); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
	}

	<-ctx.Done()
	slog.Info("Shutting down preview server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}
