// Package linkcheck verifies that internal links of rendered pages point at
// pages or files the site actually serves.
package linkcheck

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	ferrors "git.home.luguber.info/inful/folio/internal/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/util/sets"
)

// BrokenLink is an internal link without a target.
type BrokenLink struct {
	Page   string `json:"page"`
	URL    string `json:"url"`
	Target string `json:"target"`
	Tag    string `json:"tag"`
	Text   string `json:"text,omitempty"`
}

// Report summarizes a check.
type Report struct {
	Pages  int          `json:"pages"`
	Links  int          `json:"links"`
	Broken []BrokenLink `json:"broken"`
}

// Checker resolves internal links against a set of known URL paths.
type Checker struct {
	known    sets.Set[string]
	baseURL  string
	base     *url.URL
	recorder metrics.Recorder
}

// New creates a checker accepting the given URL paths as link targets.
// baseURL marks absolute links on its host as internal.
func New(known []string, baseURL string) *Checker {
	c := &Checker{known: sets.New("/"), baseURL: baseURL, recorder: metrics.NoopRecorder{}}
	c.base, _ = url.Parse(baseURL)
	for _, k := range known {
		c.known.Add(Normalize(k))
	}
	return c
}

// WithRecorder sets the metrics recorder.
func (c *Checker) WithRecorder(rec metrics.Recorder) *Checker {
	if rec != nil {
		c.recorder = rec
	}
	return c
}

// Normalize turns a URL path into the form used for lookups: query and
// fragment removed, "index.html" and trailing slashes stripped.
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = path.Clean("/" + p)
	p = strings.TrimSuffix(p, "/index.html")
	if p == "" {
		return "/"
	}
	return p
}

// CheckPage extracts the links of one page served at pageURL and returns
// those whose target is unknown.
func (c *Checker) CheckPage(pageURL string, body []byte) ([]BrokenLink, int, error) {
	links, err := ExtractLinksFromReader(bytes.NewReader(body), c.baseURL)
	if err != nil {
		return nil, 0, err
	}

	var broken []BrokenLink
	checked := 0
	for _, l := range links {
		if !l.IsInternal {
			continue
		}
		target, ok := c.resolve(pageURL, l.URL)
		if !ok {
			continue
		}
		checked++
		if !c.known.Has(target) {
			broken = append(broken, BrokenLink{Page: pageURL, URL: l.URL, Target: target, Tag: l.Tag, Text: l.Text})
		}
	}
	return broken, checked, nil
}

// resolve maps a link to a normalized site path. Pure fragment links are
// not checked.
func (c *Checker) resolve(pageURL, link string) (string, bool) {
	if link == "" || strings.HasPrefix(link, "#") {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	if u.Host != "" || strings.HasPrefix(link, "/") {
		return Normalize(u.Path), true
	}
	// Relative links resolve like a browser would against the page URL,
	// which never carries a trailing slash.
	base := &url.URL{Path: pageURL}
	return Normalize(base.ResolveReference(u).Path), true
}

// CheckDir checks every HTML file below dir on fsys. Every file found in
// dir is also accepted as a link target.
func (c *Checker) CheckDir(ctx context.Context, fsys afero.Fs, dir string) (*Report, error) {
	start := time.Now()
	pages := map[string]string{}

	err := afero.Walk(fsys, dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		urlPath := "/" + filepath.ToSlash(rel)
		c.known.Add(Normalize(urlPath))
		if strings.HasSuffix(p, ".html") {
			pages[Normalize(urlPath)] = p
		}
		return nil
	})
	if err != nil {
		c.recorder.IncStageResult(metrics.StageLinkCheck, metrics.ResultFatal)
		return nil, ferrors.Wrap(err, ferrors.CategoryFileSystem, ferrors.SeverityFatal, "output walk failed").
			WithContext("dir", dir)
	}

	urls := make([]string, 0, len(pages))
	for u := range pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	report := &Report{Broken: []BrokenLink{}}
	for _, pageURL := range urls {
		body, err := afero.ReadFile(fsys, pages[pageURL])
		if err != nil {
			return nil, ferrors.Wrap(err, ferrors.CategoryFileSystem, ferrors.SeverityFatal, "read rendered page").
				WithContext("file", pages[pageURL])
		}
		broken, checked, err := c.CheckPage(pageURL, body)
		if err != nil {
			slog.Warn("Skipping unparsable page", logfields.URL(pageURL), logfields.Error(err))
			continue
		}
		report.Pages++
		report.Links += checked
		report.Broken = append(report.Broken, broken...)
	}

	c.recorder.ObserveStageDuration(metrics.StageLinkCheck, time.Since(start))
	c.recorder.SetBrokenLinks(len(report.Broken))
	result := metrics.ResultSuccess
	if len(report.Broken) > 0 {
		result = metrics.ResultWarning
	}
	c.recorder.IncStageResult(metrics.StageLinkCheck, result)

	slog.Info("Link check finished",
		slog.Int("pages", report.Pages),
		slog.Int("links", report.Links),
		slog.Int("broken", len(report.Broken)))
	return report, nil
}
