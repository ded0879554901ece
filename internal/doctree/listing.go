package doctree

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/folio/internal/util/sets"
)

// ListingFolder is an immediate subdirectory in a directory listing.
type ListingFolder struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
	Order int    `json:"order"`
}

// ListingFile is a file directly inside the listed directory.
type ListingFile struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
	Order       int    `json:"order"`
}

// Listing is the content of one directory of a section.
type Listing struct {
	Section string          `json:"section"`
	Dir     string          `json:"dir"`
	Folders []ListingFolder `json:"folders"`
	Files   []ListingFile   `json:"files"`
}

// DirectoryContents lists the immediate subfolders and files of dir within
// section ("" is the section root). The directory's own index file is left
// out, as is a file that stands in for a subfolder of the same name. Unknown sections and directories without any file below them return
// ErrNotFound; the root of an empty section lists nothing.
func (idx *Index) DirectoryContents(section, dir string) (Listing, error) {
	if _, ok := idx.bySlug[section]; !ok {
		return Listing{}, fmt.Errorf("section %q: %w", section, ErrNotFound)
	}
	files := idx.files[section]
	dir = strings.Trim(dir, "/")
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	out := Listing{Section: section, Dir: dir, Folders: []ListingFolder{}, Files: []ListingFile{}}
	seen := sets.New[string]()
	matched := false
	for i := range files {
		f := &files[i]
		if !strings.HasPrefix(f.RelativePath, prefix) {
			continue
		}
		matched = true
		rest := strings.TrimPrefix(f.RelativePath, prefix)
		name, _, nested := strings.Cut(rest, "/")
		if nested {
			if !seen.AddNew(name) {
				continue
			}
			out.Folders = append(out.Folders, idx.listingFolder(section, prefix+name, name))
			continue
		}
		if name == "index" {
			continue
		}
		if fp, ok := folderPage(idx.bySlug[section], f.RelativePath); ok && fp == f && idx.HasFolder(section, f.RelativePath) {
			continue
		}
		out.Files = append(out.Files, ListingFile{
			Name:        name,
			Title:       f.Title,
			Description: f.Description,
			Path:        f.URLPath,
			Order:       f.Order,
		})
	}
	if !matched && dir != "" {
		return Listing{}, fmt.Errorf("directory %s/%s: %w", section, dir, ErrNotFound)
	}

	sorter := newSiblingSorter()
	sort.SliceStable(out.Folders, func(i, j int) bool {
		a, b := out.Folders[i], out.Folders[j]
		return sorter.less(false, a.Order, a.Title, a.Path, false, b.Order, b.Title, b.Path)
	})
	sort.SliceStable(out.Files, func(i, j int) bool {
		a, b := out.Files[i], out.Files[j]
		return sorter.less(false, a.Order, a.Title, a.Path, false, b.Order, b.Title, b.Path)
	})
	return out, nil
}

func (idx *Index) listingFolder(section, dir, name string) ListingFolder {
	lf := ListingFolder{
		Name:  name,
		Title: FolderTitle(name),
		Path:  dirURL(section, dir),
		Order: DefaultOrder,
	}
	if f, ok := folderPage(idx.bySlug[section], dir); ok {
		lf.Title = f.Title
		lf.Path = f.URLPath
		lf.Order = f.Order
	}
	return lf
}

// Directories lists every directory of a section that has at least one file
// below it. The section root "" comes first, the rest in path order.
func (idx *Index) Directories(section string) []string {
	files, ok := idx.files[section]
	if !ok || len(files) == 0 {
		return nil
	}
	dirs := sets.New[string]()
	for i := range files {
		parts := strings.Split(files[i].RelativePath, "/")
		for j := 1; j < len(parts); j++ {
			dirs.Add(strings.Join(parts[:j], "/"))
		}
	}
	return append([]string{""}, sets.Sorted(dirs)...)
}

// HasIndex reports whether dir of section is represented by a document: its
// own index file, or a file with the directory's path (guides.md for guides/).
func (idx *Index) HasIndex(section, dir string) bool {
	if dir == "" {
		_, ok := idx.bySlug[section]["index"]
		return ok
	}
	_, ok := folderPage(idx.bySlug[section], dir)
	return ok
}

// HasFolder reports whether dir of section has at least one file below it.
func (idx *Index) HasFolder(section, dir string) bool {
	prefix := dir + "/"
	for i := range idx.files[section] {
		if strings.HasPrefix(idx.files[section][i].RelativePath, prefix) {
			return true
		}
	}
	return false
}

// DirectoryURL is the URL of a directory: its index page when present,
// otherwise the synthetic listing URL.
func DirectoryURL(section, dir string) string {
	return dirURL(section, dir)
}
