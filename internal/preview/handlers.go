package preview

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/folio/internal/blog"
	"git.home.luguber.info/inful/folio/internal/doctree"
	ferrors "git.home.luguber.info/inful/folio/internal/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/render"
	"git.home.luguber.info/inful/folio/internal/site"
	"git.home.luguber.info/inful/folio/internal/sitefs"
)

// previewBuildID marks pages rendered on demand.
const previewBuildID = "preview"

// writeJSON serializes v into a buffer first so a failed encode never
// produces a partial response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

type errorResponse struct {
	Error    string         `json:"error"`
	Category string         `json:"category,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

func errorBody(err error) errorResponse {
	if fe, ok := ferrors.As(err); ok {
		return errorResponse{Error: fe.Message, Category: string(fe.Category), Context: fe.Context}
	}
	return errorResponse{Error: err.Error()}
}

// snapshot returns the published snapshot or answers 503.
func (s *Server) snapshot(w http.ResponseWriter) (*site.Snapshot, bool) {
	snap := s.store.Current()
	if snap == nil {
		_ = writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no content loaded yet"})
		return nil, false
	}
	return snap, true
}

func (s *Server) notFound(w http.ResponseWriter, err error) {
	_ = writeJSON(w, http.StatusNotFound, errorBody(err))
}

func (s *Server) handleSections(w http.ResponseWriter, _ *http.Request) {
	if snap, ok := s.snapshot(w); ok {
		_ = writeJSON(w, http.StatusOK, snap.Docs.Sections())
	}
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	section := r.PathValue("section")
	if _, ok := snap.Docs.Section(section); !ok {
		s.notFound(w, ferrors.NotFound("section", section))
		return
	}
	_ = writeJSON(w, http.StatusOK, snap.Docs.BuildNavTree(section))
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	if section := r.URL.Query().Get("section"); section != "" {
		_ = writeJSON(w, http.StatusOK, snap.Docs.Routes(section))
		return
	}
	_ = writeJSON(w, http.StatusOK, snap.Docs.AllRoutes())
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	section, dir := r.PathValue("section"), r.PathValue("dir")
	listing, err := snap.Docs.DirectoryContents(section, dir)
	if err != nil {
		if errors.Is(err, doctree.ErrNotFound) {
			s.notFound(w, ferrors.NotFound("directory", section+"/"+dir))
			return
		}
		_ = writeJSON(w, http.StatusInternalServerError, errorBody(err))
		return
	}
	_ = writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	posts := snap.Blog.Posts()
	if tag := r.URL.Query().Get("tag"); tag != "" {
		posts = snap.Blog.Tagged(tag)
	}
	if posts == nil {
		posts = []blog.Post{}
	}
	_ = writeJSON(w, http.StatusOK, posts)
}

type resolveResponse struct {
	Path        string   `json:"path"`
	Type        string   `json:"type"`
	Prompt      string   `json:"prompt"`
	Breadcrumbs []string `json:"breadcrumbs"`
	Children    []string `json:"children,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	p := r.URL.Query().Get("path")
	node, crumbs, found := snap.FS.Resolve(p)
	if !found {
		s.notFound(w, ferrors.NotFound("path", p))
		return
	}
	resp := resolveResponse{Path: node.Path, Type: string(node.Type), Prompt: sitefs.Prompt(crumbs)}
	for _, c := range crumbs {
		resp.Breadcrumbs = append(resp.Breadcrumbs, c.Name)
	}
	for _, c := range node.SortedChildren() {
		resp.Children = append(resp.Children, c.Name)
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status     string `json:"status"`
	Hash       string `json:"hash,omitempty"`
	Pages      int    `json:"pages"`
	LastError  string `json:"last_error,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK
	lastErr, good, last := s.status.getStatus()
	if lastErr != nil {
		resp.Status = "degraded"
		resp.LastError = lastErr.Error()
	}
	if !last.IsZero() {
		resp.LastReload = last.UTC().Format("2006-01-02T15:04:05Z")
	}
	if snap := s.store.Current(); snap != nil {
		resp.Hash = snap.Hash()
		resp.Pages = len(snap.Pages())
	}
	if !good {
		resp.Status = "starting"
		status = http.StatusServiceUnavailable
	}
	_ = writeJSON(w, status, resp)
}

// handlePage renders site pages from the live snapshot.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	if snap == nil {
		http.Error(w, "no content loaded yet", http.StatusServiceUnavailable)
		return
	}

	body, err := s.renderer.RenderURL(snap, r.URL.Path, previewBuildID)
	status := http.StatusOK
	if errors.Is(err, render.ErrNoPage) {
		status = http.StatusNotFound
		body, err = s.renderer.RenderNotFound(snap, previewBuildID)
	}
	if err != nil {
		slog.Error("Preview render failed", logfields.Route(r.URL.Path), logfields.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
