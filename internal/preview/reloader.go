package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/retry"
	"git.home.luguber.info/inful/folio/internal/site"
)

// Reloader reads the content tree and publishes a new snapshot when the
// content changed. A failed reload keeps serving the previous snapshot.
type Reloader struct {
	cfg      *config.Config
	loader   *content.Loader
	store    *site.Store
	recorder metrics.Recorder
	status   *buildStatus
	policy   retry.Policy
	mu       sync.Mutex // serializes reloads
}

// NewReloader creates a reloader publishing into store.
func NewReloader(cfg *config.Config, loader *content.Loader, store *site.Store, rec metrics.Recorder) *Reloader {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Reloader{
		cfg:      cfg,
		loader:   loader,
		store:    store,
		recorder: rec,
		status:   &buildStatus{},
		policy:   retry.FromPreview(cfg.Preview),
	}
}

// Reload loads the content and swaps the snapshot unless its hash equals
// the current one. It reports whether a new snapshot was published.
func (r *Reloader) Reload(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	var set *content.Set
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var lerr error
		set, lerr = r.loader.Load(ctx)
		return lerr
	}, func(attempt int, delay time.Duration, err error) {
		slog.Warn("Content load failed; retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			logfields.Error(err))
	})
	r.recorder.ObserveStageDuration(metrics.StageLoad, time.Since(start))
	if err != nil {
		r.status.setError(err)
		r.recorder.IncStageResult(metrics.StageLoad, metrics.ResultFatal)
		r.recorder.IncPreviewRebuild(metrics.ResultFatal)
		return false, err
	}
	r.recorder.IncStageResult(metrics.StageLoad, metrics.ResultSuccess)

	if cur := r.store.Current(); cur != nil && cur.Hash() == set.Hash {
		r.status.setSuccess()
		r.recorder.IncPreviewRebuild(metrics.ResultSkipped)
		slog.Debug("Content unchanged; keeping snapshot", slog.String("hash", set.Hash))
		return false, nil
	}

	snap := site.Build(r.cfg, set)
	r.store.Swap(snap)
	r.status.setSuccess()
	r.recorder.IncPreviewRebuild(metrics.ResultSuccess)
	for _, sec := range snap.Docs.Sections() {
		r.recorder.SetSectionDocuments(sec.Key, sec.Files)
	}
	slog.Info("Snapshot published",
		logfields.Count(len(snap.Pages())),
		slog.String("hash", set.Hash),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return true, nil
}
