package doctree

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/folio/internal/util/sets"
)

// ErrNotFound is returned by lookups for unknown sections, slugs or URLs.
var ErrNotFound = errors.New("not found")

// SectionInfo describes one documentation section.
type SectionInfo struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Path        string `json:"path"`
	Configured  bool   `json:"configured"`
	Files       int    `json:"files"`
}

// Index holds the documentation of every section of one content snapshot.
type Index struct {
	sections []SectionInfo
	files    map[string][]DocFile // per section, sorted by relative path
	bySlug   map[string]map[string]*DocFile
	byURL    map[string]*DocFile
	skipped  []string
}

// NewIndex resolves sources against the configured sections. Sources below a
// section directory that is not configured still form a section, listed after
// the configured ones with a synthesized title. Sources outside
// "/docs/{section}/" are ignored and reported by Skipped.
func NewIndex(configured []SectionInfo, sources []Source) *Index {
	idx := &Index{
		files:  map[string][]DocFile{},
		bySlug: map[string]map[string]*DocFile{},
		byURL:  map[string]*DocFile{},
	}

	known := sets.New[string]()
	for _, s := range configured {
		s.Configured = true
		if s.Title == "" {
			s.Title = FolderTitle(s.Key)
		}
		s.Path = SectionPath(s.Key)
		idx.sections = append(idx.sections, s)
		known.Add(s.Key)
	}

	var discovered []string
	for _, src := range sources {
		section, rel, ok := splitSourcePath(src.Path)
		if !ok {
			idx.skipped = append(idx.skipped, src.Path)
			continue
		}
		f := NewDocFile(section, rel, src.Document)
		f.SourcePath = src.Path
		f.Fingerprint = src.Fingerprint
		idx.files[section] = append(idx.files[section], f)
		if known.AddNew(section) {
			discovered = append(discovered, section)
		}
	}

	sort.Strings(discovered)
	for _, key := range discovered {
		idx.sections = append(idx.sections, SectionInfo{Key: key, Title: FolderTitle(key), Path: SectionPath(key)})
	}

	for i := range idx.sections {
		key := idx.sections[i].Key
		files := idx.files[key]
		sort.Slice(files, func(a, b int) bool { return files[a].RelativePath < files[b].RelativePath })
		idx.sections[i].Files = len(files)

		slugs := map[string]*DocFile{}
		for j := range files {
			f := &files[j]
			slugs[f.RelativePath] = f
			idx.byURL[f.URLPath] = f
		}
		idx.bySlug[key] = slugs
	}
	return idx
}

// splitSourcePath splits "/docs/{section}/{rel}.md" into section and rel
// with the extension stripped.
func splitSourcePath(p string) (section, rel string, ok bool) {
	prefix := BasePath + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(p, prefix)
	section, rel, found := strings.Cut(rest, "/")
	if !found || section == "" || rel == "" {
		return "", "", false
	}
	ext := path.Ext(rel)
	if !isMarkdownExt(ext) {
		return "", "", false
	}
	rel = strings.TrimSuffix(rel, ext)
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", "", false
	}
	return section, rel, true
}

func isMarkdownExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Sections lists every section, configured ones first in configuration order.
func (idx *Index) Sections() []SectionInfo {
	out := make([]SectionInfo, len(idx.sections))
	copy(out, idx.sections)
	return out
}

// Section returns the section with the given key.
func (idx *Index) Section(key string) (SectionInfo, bool) {
	for _, s := range idx.sections {
		if s.Key == key {
			return s, true
		}
	}
	return SectionInfo{}, false
}

// Files returns the documentation files of a section sorted by relative path.
func (idx *Index) Files(section string) []DocFile {
	return idx.files[section]
}

// Len is the total number of documentation files.
func (idx *Index) Len() int {
	n := 0
	for _, files := range idx.files {
		n += len(files)
	}
	return n
}

// Skipped lists source paths that did not map to a section.
func (idx *Index) Skipped() []string {
	return idx.skipped
}

// Lookup returns the file of a section addressed by a route slug. The empty
// slug and "index" address the section root index; "a/b" addresses either
// the file a/b or the landing page a/b/index.
func (idx *Index) Lookup(section, slug string) (*DocFile, error) {
	files, ok := idx.bySlug[section]
	if !ok {
		return nil, fmt.Errorf("section %q: %w", section, ErrNotFound)
	}
	slug = strings.Trim(slug, "/")
	if slug == "" {
		slug = "index"
	}
	if f, ok := files[slug]; ok {
		return f, nil
	}
	if f, ok := files[slug+"/index"]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("page %s/%s: %w", section, slug, ErrNotFound)
}

// ResolveURL returns the file served at a documentation URL such as
// "/docs/personal/guides/setup". Trailing slashes are ignored.
func (idx *Index) ResolveURL(urlPath string) (*DocFile, error) {
	clean := strings.TrimRight(urlPath, "/")
	if f, ok := idx.byURL[clean]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("url %q: %w", urlPath, ErrNotFound)
}
