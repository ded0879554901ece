// Package blog indexes blog posts and decides which of them are published.
package blog

import (
	"path"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/folio/internal/frontmatter"
)

// BasePath is the URL prefix of the blog.
const BasePath = "/blog"

// StatusPublished is the only status that lists a post.
const StatusPublished = "Published"

// Source is one blog markdown file, e.g. Path "/blog/hello-world.md".
type Source struct {
	Path        string
	Document    frontmatter.Document
	Fingerprint string
}

// Post is a resolved blog entry.
type Post struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Summary string    `json:"summary,omitempty"`
	Tags    []string  `json:"tags"`
	Status  string    `json:"status,omitempty"`
	Type    string    `json:"type,omitempty"`
	URLPath string    `json:"path"`
	// Listed reports whether the post shows up in the blog index.
	Listed bool `json:"listed"`
	// DateDefaulted is set when the post had no usable date and got the
	// index build time instead.
	DateDefaulted bool `json:"-"`

	SourcePath  string `json:"-"`
	Body        []byte `json:"-"`
	Fingerprint string `json:"-"`
}

// Index holds every blog file of one content snapshot.
type Index struct {
	bySlug map[string]*Post
	listed []*Post
}

// NewIndex resolves sources. Posts without a date are dated builtAt.
func NewIndex(sources []Source, builtAt time.Time) *Index {
	idx := &Index{bySlug: make(map[string]*Post, len(sources))}
	for _, src := range sources {
		p := newPost(src, builtAt)
		idx.bySlug[p.Slug] = p
		if p.Listed {
			idx.listed = append(idx.listed, p)
		}
	}
	sort.SliceStable(idx.listed, func(i, j int) bool {
		a, b := idx.listed[i], idx.listed[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
	return idx
}

func newPost(src Source, builtAt time.Time) *Post {
	name := path.Base(src.Path)
	slug := strings.TrimSuffix(name, path.Ext(name))
	f := src.Document.Fields

	p := &Post{
		Slug:        slug,
		Title:       f.Title,
		Summary:     f.Summary,
		Tags:        f.Tags,
		Status:      f.Status,
		Type:        f.Type,
		URLPath:     BasePath + "/" + slug,
		Listed:      IsListed(f),
		SourcePath:  src.Path,
		Body:        src.Document.Body,
		Fingerprint: src.Fingerprint,
	}
	if p.Title == "" {
		p.Title = slug
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if f.Date != nil {
		p.Date = *f.Date
	} else {
		p.Date = builtAt
		p.DateDefaulted = true
	}
	return p
}

// IsListed reports whether front matter marks a published post. The status
// match is exact; the type may be empty or "post" in any case.
func IsListed(f frontmatter.Fields) bool {
	if f.Status != StatusPublished {
		return false
	}
	return f.Type == "" || strings.EqualFold(f.Type, "post")
}

// Posts returns listed posts, newest first.
func (idx *Index) Posts() []Post {
	out := make([]Post, 0, len(idx.listed))
	for _, p := range idx.listed {
		out = append(out, *p)
	}
	return out
}

// Recent returns at most n listed posts, newest first.
func (idx *Index) Recent(n int) []Post {
	posts := idx.Posts()
	if n >= 0 && len(posts) > n {
		posts = posts[:n]
	}
	return posts
}

// Post returns any blog file by slug, listed or not.
func (idx *Index) Post(slug string) (Post, bool) {
	p, ok := idx.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return *p, true
}

// Tagged returns listed posts carrying tag (case-insensitive), newest first.
func (idx *Index) Tagged(tag string) []Post {
	var out []Post
	for _, p := range idx.listed {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, *p)
				break
			}
		}
	}
	return out
}

// Len is the number of blog files, listed or not.
func (idx *Index) Len() int {
	return len(idx.bySlug)
}
