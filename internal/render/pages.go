package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"git.home.luguber.info/inful/folio/internal/blog"
	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/doctree"
	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/site"
	"git.home.luguber.info/inful/folio/internal/sitefs"
)

// recentPosts is how many posts the home page lists.
const recentPosts = 5

// pageData is the view model shared by every template.
type pageData struct {
	Site        config.SiteConfig
	Title       string
	Description string
	Canonical   string
	Path        string
	BuildID     string
	Breadcrumbs []sitefs.Crumb
	Sections    []doctree.SectionInfo
	Posts       []blog.Post

	Section   doctree.SectionInfo
	Nav       []navItem
	Outline   []markdown.Heading
	Listing   *doctree.Listing
	Content   template.HTML
	ShowTitle bool
	Post      *blog.Post
}

// navItem is a NavNode prepared for the sidebar template.
type navItem struct {
	Title    string
	Path     string
	Folder   bool
	Active   bool
	Children []navItem
}

func navItems(nodes []doctree.NavNode, current string) []navItem {
	items := make([]navItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, navItem{
			Title:    n.Title,
			Path:     n.Path,
			Folder:   n.Kind == doctree.KindFolder,
			Active:   n.Path == current,
			Children: navItems(n.Children, current),
		})
	}
	return items
}

// renderPage produces the HTML of one page of snap.
func (r *Renderer) renderPage(snap *site.Snapshot, page site.Page, buildID string) ([]byte, error) {
	data := r.baseData(snap, page.Path, buildID)
	name := ""

	switch page.Kind {
	case site.PageHome:
		name = "home"
		data.Sections = snap.Docs.Sections()
		data.Posts = snap.Blog.Recent(recentPosts)
	case site.PageDocsIndex:
		name = "docs"
		data.Title = "Documentation"
		data.Sections = snap.Docs.Sections()
	case site.PageDoc:
		name = "doc"
		if err := r.docData(snap, page, &data); err != nil {
			return nil, err
		}
	case site.PageDir:
		name = "doc"
		if err := r.dirData(snap, page, &data); err != nil {
			return nil, err
		}
	case site.PageBlogIndex:
		name = "blog"
		data.Title = "Blog"
		data.Posts = snap.Blog.Posts()
	case site.PagePost:
		name = "post"
		if err := r.postData(snap, page, &data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown page kind %q", page.Kind)
	}

	return r.execute(name, data)
}

// renderNotFound produces the 404 page.
func (r *Renderer) renderNotFound(snap *site.Snapshot, buildID string) ([]byte, error) {
	data := r.baseData(snap, "/", buildID)
	data.Title = "Not found"
	data.Canonical = ""
	data.Sections = snap.Docs.Sections()
	return r.execute("notfound", data)
}

func (r *Renderer) baseData(snap *site.Snapshot, urlPath, buildID string) pageData {
	data := pageData{
		Site:        snap.Site,
		Path:        urlPath,
		BuildID:     buildID,
		Breadcrumbs: snap.Breadcrumbs(urlPath),
	}
	if base := strings.TrimRight(snap.Site.BaseURL, "/"); base != "" {
		data.Canonical = base + urlPath
	}
	return data
}

func (r *Renderer) docData(snap *site.Snapshot, page site.Page, data *pageData) error {
	f, err := snap.Docs.Lookup(page.Section, page.Key)
	if err != nil {
		return err
	}
	sec, _ := snap.Docs.Section(page.Section)
	body, err := markdown.Render(f.Body)
	if err != nil {
		return err
	}

	data.Title = f.Title
	data.Description = f.Description
	data.Section = sec
	data.Nav = navItems(snap.Docs.BuildNavTree(page.Section), f.URLPath)
	data.Outline = markdown.Outline(f.Body)
	data.Content = template.HTML(body) //nolint:gosec // author content is trusted
	_, hasHeading := markdown.FirstHeading(f.Body)
	data.ShowTitle = !hasHeading

	// Index pages without prose of their own list their directory.
	if f.IsIndex && !markdown.HasProse(f.Body) {
		listing, err := snap.Docs.DirectoryContents(page.Section, f.Dir())
		if err == nil {
			data.Listing = &listing
		}
	}
	return nil
}

func (r *Renderer) dirData(snap *site.Snapshot, page site.Page, data *pageData) error {
	sec, ok := snap.Docs.Section(page.Section)
	if !ok {
		return fmt.Errorf("section %q: %w", page.Section, doctree.ErrNotFound)
	}
	listing, err := snap.Docs.DirectoryContents(page.Section, page.Key)
	if err != nil {
		return err
	}

	data.Section = sec
	data.Title = sec.Title
	data.Description = sec.Description
	if page.Key != "" {
		data.Title = doctree.FolderTitle(lastSegment(page.Key))
	}
	data.ShowTitle = true
	data.Nav = navItems(snap.Docs.BuildNavTree(page.Section), page.Path)
	data.Listing = &listing
	return nil
}

func (r *Renderer) postData(snap *site.Snapshot, page site.Page, data *pageData) error {
	post, ok := snap.Blog.Post(page.Key)
	if !ok {
		return fmt.Errorf("post %q: %w", page.Key, doctree.ErrNotFound)
	}
	body, err := markdown.Render(post.Body)
	if err != nil {
		return err
	}
	data.Title = post.Title
	data.Description = post.Summary
	data.Post = &post
	data.Content = template.HTML(body) //nolint:gosec // author content is trusted
	return nil
}

func (r *Renderer) execute(name string, data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func lastSegment(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
