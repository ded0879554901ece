// Package content loads the markdown sources of a site into an immutable,
// in-memory Set. Everything downstream works on the Set only; there is no
// filesystem access after loading.
package content

import (
	"time"

	"git.home.luguber.info/inful/folio/internal/frontmatter"
)

// Kind tells documentation pages and blog posts apart.
type Kind string

const (
	KindDoc  Kind = "doc"
	KindPost Kind = "post"
)

// Canonical source path prefixes, independent of the configured directory
// names.
const (
	DocsPrefix = "/docs/"
	BlogPrefix = "/blog/"
)

// File is one loaded markdown source.
type File struct {
	Kind Kind
	// Path is the canonical source path, e.g. "/docs/personal/guides/setup.md"
	// or "/blog/hello-world.md".
	Path        string
	Document    frontmatter.Document
	Fingerprint string
	ModTime     time.Time
	Size        int64
}

// Set is an immutable snapshot of all loaded sources, ordered by path.
type Set struct {
	Docs     []File
	Posts    []File
	LoadedAt time.Time
	// Hash changes whenever any path or file fingerprint changes.
	Hash string
}

// Len is the number of loaded files.
func (s *Set) Len() int {
	return len(s.Docs) + len(s.Posts)
}
