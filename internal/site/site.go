// Package site assembles one immutable Snapshot of everything the site
// serves: documentation index, blog index and URL tree.
package site

import (
	"context"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/folio/internal/blog"
	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/doctree"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/sitefs"
)

// PageKind classifies pre-renderable pages.
type PageKind string

const (
	PageHome      PageKind = "home"
	PageDocsIndex PageKind = "docs-index"
	PageDoc       PageKind = "doc"
	PageDir       PageKind = "dir"
	PageBlogIndex PageKind = "blog-index"
	PagePost      PageKind = "post"
)

// Page is one URL the renderer writes.
type Page struct {
	Path    string   `json:"path"`
	Kind    PageKind `json:"kind"`
	Section string   `json:"section,omitempty"`
	// Key is the doc relative path, the directory of a dir page or the post
	// slug.
	Key string `json:"key,omitempty"`
}

// Snapshot is immutable once built.
type Snapshot struct {
	Site    config.SiteConfig
	Docs    *doctree.Index
	Blog    *blog.Index
	FS      *sitefs.Tree
	Content *content.Set

	pages  []Page
	byPath map[string]Page
}

// Hash identifies the content the snapshot was built from.
func (s *Snapshot) Hash() string {
	return s.Content.Hash
}

// Build resolves a loaded content set against the configuration.
func Build(cfg *config.Config, set *content.Set) *Snapshot {
	sections := make([]doctree.SectionInfo, 0, len(cfg.Sections))
	for _, sc := range cfg.Sections {
		sections = append(sections, doctree.SectionInfo{
			Key:         sc.Key,
			Title:       sc.Title,
			Description: sc.Description,
			Icon:        sc.Icon,
		})
	}

	docSources := make([]doctree.Source, 0, len(set.Docs))
	for _, f := range set.Docs {
		docSources = append(docSources, doctree.Source{Path: f.Path, Document: f.Document, Fingerprint: f.Fingerprint})
	}
	postSources := make([]blog.Source, 0, len(set.Posts))
	for _, f := range set.Posts {
		postSources = append(postSources, blog.Source{Path: f.Path, Document: f.Document, Fingerprint: f.Fingerprint})
	}

	snap := &Snapshot{
		Site:    cfg.Site,
		Docs:    doctree.NewIndex(sections, docSources),
		Blog:    blog.NewIndex(postSources, set.LoadedAt),
		Content: set,
	}
	for _, p := range snap.Docs.Skipped() {
		slog.Warn("Source outside any section ignored", logfields.File(p))
	}

	snap.pages = snap.collectPages()
	snap.byPath = make(map[string]Page, len(snap.pages))
	paths := make([]string, 0, len(snap.pages))
	for _, p := range snap.pages {
		snap.byPath[p.Path] = p
		paths = append(paths, p.Path)
	}
	snap.FS = sitefs.FromPaths(paths)
	return snap
}

// Load reads content through loader and builds a snapshot.
func Load(ctx context.Context, cfg *config.Config, loader *content.Loader) (*Snapshot, error) {
	set, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Build(cfg, set), nil
}

// Pages lists every pre-renderable page: home, docs index, each doc route,
// a listing for each directory without an index file, blog index and each
// listed post.
func (s *Snapshot) Pages() []Page {
	return s.pages
}

// PageAt returns the page served at urlPath. Trailing slashes are ignored.
func (s *Snapshot) PageAt(urlPath string) (Page, bool) {
	clean := strings.TrimRight(urlPath, "/")
	if clean == "" {
		clean = "/"
	}
	p, ok := s.byPath[clean]
	return p, ok
}

func (s *Snapshot) collectPages() []Page {
	pages := []Page{
		{Path: "/", Kind: PageHome},
		{Path: doctree.BasePath, Kind: PageDocsIndex},
	}
	for _, sec := range s.Docs.Sections() {
		for _, r := range s.Docs.Routes(sec.Key) {
			pages = append(pages, Page{Path: r.Path, Kind: PageDoc, Section: r.Section, Key: r.Key})
		}
		dirs := s.Docs.Directories(sec.Key)
		if len(dirs) == 0 {
			// An empty section still gets a landing page.
			dirs = []string{""}
		}
		for _, dir := range dirs {
			if s.Docs.HasIndex(sec.Key, dir) {
				continue
			}
			pages = append(pages, Page{Path: doctree.DirectoryURL(sec.Key, dir), Kind: PageDir, Section: sec.Key, Key: dir})
		}
	}
	pages = append(pages, Page{Path: blog.BasePath, Kind: PageBlogIndex})
	for _, p := range s.Blog.Posts() {
		pages = append(pages, Page{Path: p.URLPath, Kind: PagePost, Key: p.Slug})
	}
	return pages
}

// Breadcrumbs resolves urlPath in the URL tree. Unknown paths get the root
// crumb only.
func (s *Snapshot) Breadcrumbs(urlPath string) []sitefs.Crumb {
	if _, crumbs, ok := s.FS.Resolve(urlPath); ok {
		return crumbs
	}
	_, crumbs, _ := s.FS.Resolve("/")
	return crumbs
}
