package doctree

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NodeKind discriminates navigation nodes.
type NodeKind string

const (
	KindFolder NodeKind = "folder"
	KindFile   NodeKind = "file"
)

// NavNode is one entry of a section's navigation tree. Folder nodes carry
// children; file nodes do not.
type NavNode struct {
	Kind     NodeKind  `json:"type"`
	Title    string    `json:"title"`
	Path     string    `json:"path"`
	Order    int       `json:"order"`
	IsIndex  bool      `json:"isIndex,omitempty"`
	Children []NavNode `json:"children,omitempty"`
}

// BuildNavTree builds the navigation tree of a section. An unknown section or
// a section without files yields an empty tree.
//
// A subfolder's index file gives the Folder node its title, path and order.
// It is listed as a child only when the folder holds nothing else. The
// section root index stays a regular child since there is no folder above it.
// Without an index, a file named like the folder (guides.md next to guides/)
// stands in for it and is not listed as a sibling.
func (idx *Index) BuildNavTree(section string) []NavNode {
	files := idx.files[section]
	if len(files) == 0 {
		return []NavNode{}
	}
	b := &treeBuilder{
		section: section,
		bySlug:  idx.bySlug[section],
		sorter:  newSiblingSorter(),
	}
	return b.level("", files)
}

type treeBuilder struct {
	section string
	bySlug  map[string]*DocFile
	sorter  *siblingSorter
}

// level builds the nodes of directory prefix from the files below it.
func (b *treeBuilder) level(prefix string, files []DocFile) []NavNode {
	var direct []*DocFile
	folders := map[string][]DocFile{}
	var folderNames []string

	for i := range files {
		rest := strings.TrimPrefix(files[i].RelativePath, prefix)
		name, _, nested := strings.Cut(rest, "/")
		if !nested {
			direct = append(direct, &files[i])
			continue
		}
		if _, seen := folders[name]; !seen {
			folderNames = append(folderNames, name)
		}
		folders[name] = append(folders[name], files[i])
	}

	nodes := make([]NavNode, 0, len(direct)+len(folderNames))
	absorbed := map[string]bool{}
	for _, name := range folderNames {
		if f, ok := folderPage(b.bySlug, prefix+name); ok && f.RelativePath == prefix+name {
			absorbed[f.RelativePath] = true
		}
		nodes = append(nodes, b.folder(prefix+name, name, folders[name]))
	}

	absorbIndex := prefix != "" && len(direct)-len(absorbed)+len(folderNames) > 1
	for _, f := range direct {
		if absorbed[f.RelativePath] || (f.IsIndex && absorbIndex) {
			continue
		}
		nodes = append(nodes, NavNode{
			Kind:    KindFile,
			Title:   f.Title,
			Path:    f.URLPath,
			Order:   f.Order,
			IsIndex: f.IsIndex,
		})
	}

	b.sorter.sort(nodes)
	return nodes
}

func (b *treeBuilder) folder(dir, name string, files []DocFile) NavNode {
	node := NavNode{
		Kind:  KindFolder,
		Title: FolderTitle(name),
		Path:  dirURL(b.section, dir),
		Order: DefaultOrder,
	}
	if idx, ok := folderPage(b.bySlug, dir); ok {
		node.Title = idx.Title
		node.Path = idx.URLPath
		node.Order = idx.Order
	}
	node.Children = b.level(dir+"/", files)
	return node
}

// folderPage returns the file that represents dir: its index, or else a file
// with the folder's own path.
func folderPage(bySlug map[string]*DocFile, dir string) (*DocFile, bool) {
	if f, ok := bySlug[dir+"/index"]; ok {
		return f, true
	}
	f, ok := bySlug[dir]
	return f, ok
}

// siblingSorter orders siblings: index files first, then ascending order,
// then title by locale collation, then path so the result is total.
type siblingSorter struct {
	collator *collate.Collator
}

func newSiblingSorter() *siblingSorter {
	return &siblingSorter{collator: collate.New(language.English)}
}

func (s *siblingSorter) sort(nodes []NavNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return s.less(nodes[i].IsIndex, nodes[i].Order, nodes[i].Title, nodes[i].Path,
			nodes[j].IsIndex, nodes[j].Order, nodes[j].Title, nodes[j].Path)
	})
}

func (s *siblingSorter) less(aIndex bool, aOrder int, aTitle, aPath string, bIndex bool, bOrder int, bTitle, bPath string) bool {
	if aIndex != bIndex {
		return aIndex
	}
	if aOrder != bOrder {
		return aOrder < bOrder
	}
	if c := s.collator.CompareString(aTitle, bTitle); c != 0 {
		return c < 0
	}
	return aPath < bPath
}
