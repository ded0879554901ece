package doctree

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/folio/internal/frontmatter"
	"git.home.luguber.info/inful/folio/internal/markdown"
)

// DefaultOrder sorts files without an explicit order after ordered ones.
const DefaultOrder = 999

// BasePath is the URL prefix of every documentation route.
const BasePath = "/docs"

// Source is one markdown file handed to the index. Path is the canonical
// slash-separated source path, e.g. "/docs/personal/guides/setup.md".
type Source struct {
	Path        string
	Document    frontmatter.Document
	Fingerprint string
}

// DocFile is a documentation source resolved against its section.
type DocFile struct {
	Section      string
	RelativePath string // extension stripped, e.g. "guides/setup/index"
	Title        string
	Order        int
	IsIndex      bool
	URLPath      string
	Description  string

	SourcePath  string
	Fields      frontmatter.Fields
	Body        []byte
	Fingerprint string
}

// Slug is the route slug: "index" for index files, the relative path otherwise.
func (f *DocFile) Slug() string {
	if f.IsIndex {
		return "index"
	}
	return f.RelativePath
}

// Name is the last segment of the relative path.
func (f *DocFile) Name() string {
	return path.Base(f.RelativePath)
}

// Dir is the directory of the file relative to the section root ("" at the root).
func (f *DocFile) Dir() string {
	if d := path.Dir(f.RelativePath); d != "." {
		return d
	}
	return ""
}

// NewDocFile resolves a parsed document at relativePath (extension stripped)
// within section.
func NewDocFile(section, relativePath string, doc frontmatter.Document) DocFile {
	isIndex := IsIndexPath(relativePath)
	f := DocFile{
		Section:      section,
		RelativePath: relativePath,
		Title:        resolveTitle(relativePath, doc),
		Order:        DefaultOrder,
		IsIndex:      isIndex,
		URLPath:      docURL(section, relativePath, isIndex),
		Description:  doc.Fields.Description,
		Fields:       doc.Fields,
		Body:         doc.Body,
	}
	if doc.Fields.Order != nil {
		f.Order = *doc.Fields.Order
	}
	return f
}

// IsIndexPath reports whether relativePath names a directory landing page.
func IsIndexPath(relativePath string) bool {
	return relativePath == "index" || strings.HasSuffix(relativePath, "/index")
}

// resolveTitle applies the title priority: front matter, first-level
// heading, last path segment verbatim.
func resolveTitle(relativePath string, doc frontmatter.Document) string {
	if doc.Fields.Title != "" {
		return doc.Fields.Title
	}
	if h, ok := markdown.FirstHeading(doc.Body); ok {
		return h
	}
	return path.Base(relativePath)
}

func docURL(section, relativePath string, isIndex bool) string {
	base := SectionPath(section)
	if !isIndex {
		return base + "/" + relativePath
	}
	if relativePath == "index" {
		return base
	}
	return base + "/" + strings.TrimSuffix(relativePath, "/index")
}

// SectionPath is the URL of a section root.
func SectionPath(section string) string {
	return BasePath + "/" + section
}

// dirURL is the synthetic URL of a directory without an index file.
func dirURL(section, dir string) string {
	if dir == "" {
		return SectionPath(section)
	}
	return SectionPath(section) + "/" + dir
}
