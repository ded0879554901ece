// Package render writes the static site: one HTML file per page of a
// snapshot plus a 404 page.
package render

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/site"
)

// Renderer turns snapshots into HTML files on an afero filesystem.
type Renderer struct {
	fs       afero.Fs
	out      config.OutputConfig
	tmpl     *template.Template
	recorder metrics.Recorder
}

// New creates a renderer writing below out.Directory on fsys. A nil fsys
// means the OS filesystem.
func New(fsys afero.Fs, out config.OutputConfig) *Renderer {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Renderer{fs: fsys, out: out, tmpl: mustTemplates(), recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (r *Renderer) WithRecorder(rec metrics.Recorder) *Renderer {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// Output is one written file.
type Output struct {
	URL  string `json:"url"`
	File string `json:"file"`
	Kind string `json:"kind"`
}

// Result summarizes a build.
type Result struct {
	BuildID   string        `json:"build_id"`
	OutputDir string        `json:"output_dir"`
	Pages     int           `json:"pages"`
	Outputs   []Output      `json:"outputs"`
	Duration  time.Duration `json:"duration"`
}

// Build renders every page of snap. Pages that fail to render are reported
// together after the remaining pages were written.
func (r *Renderer) Build(ctx context.Context, snap *site.Snapshot) (*Result, error) {
	start := time.Now()
	res := &Result{BuildID: uuid.NewString(), OutputDir: r.out.Directory}
	log := slog.With(logfields.BuildID(res.BuildID))

	if err := r.prepareOutput(); err != nil {
		r.finish(res, start, metrics.BuildOutcomeFailed)
		return res, ferrors.OutputError("prepare", err).WithContext("dir", r.out.Directory)
	}

	for _, sec := range snap.Docs.Sections() {
		r.recorder.SetSectionDocuments(sec.Key, sec.Files)
	}

	var result *multierror.Error
	kinds := map[string]int{}
	for _, page := range snap.Pages() {
		if err := ctx.Err(); err != nil {
			r.finish(res, start, metrics.BuildOutcomeCanceled)
			return res, err
		}
		html, err := r.renderPage(snap, page, res.BuildID)
		if err != nil {
			log.Error("Page render failed", logfields.Route(page.Path), logfields.Error(err))
			result = multierror.Append(result, ferrors.RenderFailed(page.Path, err))
			continue
		}
		file := OutputPath(page.Path)
		if err := r.writeFile(file, html); err != nil {
			result = multierror.Append(result, ferrors.OutputError("write", err).WithContext("file", file))
			continue
		}
		log.Debug("Page written", logfields.Route(page.Path), logfields.File(file))
		res.Outputs = append(res.Outputs, Output{URL: page.Path, File: file, Kind: string(page.Kind)})
		kinds[string(page.Kind)]++
	}

	if html, err := r.renderNotFound(snap, res.BuildID); err != nil {
		result = multierror.Append(result, ferrors.RenderFailed(NotFoundFile, err))
	} else if err := r.writeFile(NotFoundFile, html); err != nil {
		result = multierror.Append(result, ferrors.OutputError("write", err).WithContext("file", NotFoundFile))
	} else {
		res.Outputs = append(res.Outputs, Output{URL: "/" + NotFoundFile, File: NotFoundFile, Kind: "notfound"})
		kinds["notfound"]++
	}

	res.Pages = len(res.Outputs)
	for kind, n := range kinds {
		r.recorder.AddPagesRendered(kind, n)
	}

	if err := result.ErrorOrNil(); err != nil {
		r.finish(res, start, metrics.BuildOutcomeFailed)
		return res, ferrors.Wrap(err, ferrors.CategoryRender, ferrors.SeverityFatal, "site build failed").
			WithContext("failed_pages", len(result.Errors))
	}

	r.finish(res, start, metrics.BuildOutcomeSuccess)
	log.Info("Site built",
		logfields.Count(res.Pages),
		logfields.Path(r.out.Directory),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (r *Renderer) finish(res *Result, start time.Time, outcome metrics.BuildOutcomeLabel) {
	res.Duration = time.Since(start)
	r.recorder.ObserveStageDuration(metrics.StageRender, res.Duration)
	r.recorder.ObserveBuildDuration(res.Duration)
	r.recorder.IncBuildOutcome(outcome)
	result := metrics.ResultSuccess
	switch outcome {
	case metrics.BuildOutcomeFailed:
		result = metrics.ResultFatal
	case metrics.BuildOutcomeCanceled:
		result = metrics.ResultCanceled
	}
	r.recorder.IncStageResult(metrics.StageRender, result)
}

// ErrNoPage is returned by RenderURL for URLs the snapshot does not serve.
var ErrNoPage = errors.New("no page at url")

// RenderURL renders the page served at urlPath without writing it. The
// preview server uses it to answer requests from the live snapshot.
func (r *Renderer) RenderURL(snap *site.Snapshot, urlPath, buildID string) ([]byte, error) {
	page, ok := snap.PageAt(urlPath)
	if !ok {
		return nil, ErrNoPage
	}
	return r.renderPage(snap, page, buildID)
}

// RenderNotFound renders the 404 page without writing it.
func (r *Renderer) RenderNotFound(snap *site.Snapshot, buildID string) ([]byte, error) {
	return r.renderNotFound(snap, buildID)
}
