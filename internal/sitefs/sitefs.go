// Package sitefs presents the site's URL space as a small directory tree
// rooted at "~", used for terminal-style breadcrumbs.
package sitefs

import (
	"sort"
	"strings"
)

// RootName is the name of the root directory.
const RootName = "~"

// NodeType is "dir" or "file".
type NodeType string

const (
	TypeDir  NodeType = "dir"
	TypeFile NodeType = "file"
)

// Node is one entry of the tree.
type Node struct {
	Name     string           `json:"name"`
	Type     NodeType         `json:"type"`
	Path     string           `json:"path"`
	Children map[string]*Node `json:"children,omitempty"`
}

// Crumb is one breadcrumb segment.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Node *Node  `json:"-"`
}

// Tree is an immutable URL tree.
type Tree struct {
	root *Node
}

// FromPaths builds a tree from URL paths. Every proper prefix becomes a dir.
// A path that is also a prefix of another path stays a dir and keeps its own
// URL. Empty paths and "/" are ignored.
func FromPaths(paths []string) *Tree {
	root := &Node{Name: RootName, Type: TypeDir, Path: "/", Children: map[string]*Node{}}
	for _, p := range paths {
		parts := split(p)
		cur := root
		for i, part := range parts {
			last := i == len(parts)-1
			child, ok := cur.Children[part]
			if !ok {
				child = &Node{Name: part, Type: TypeFile, Path: "/" + strings.Join(parts[:i+1], "/")}
				cur.Children[part] = child
			}
			if !last && child.Type == TypeFile {
				child.Type = TypeDir
			}
			if child.Type == TypeDir && child.Children == nil {
				child.Children = map[string]*Node{}
			}
			cur = child
		}
	}
	return &Tree{root: root}
}

// Root returns the "~" directory.
func (t *Tree) Root() *Node {
	return t.root
}

// Resolve walks urlPath segment by segment. "/" and "" resolve to the root.
// The breadcrumbs always start with "~". Unknown segments resolve to false.
func (t *Tree) Resolve(urlPath string) (*Node, []Crumb, bool) {
	crumbs := []Crumb{{Name: RootName, Path: "/", Node: t.root}}
	cur := t.root
	for _, part := range split(urlPath) {
		child, ok := cur.Children[part]
		if !ok {
			return nil, nil, false
		}
		cur = child
		crumbs = append(crumbs, Crumb{Name: part, Path: child.Path, Node: child})
	}
	return cur, crumbs, true
}

// SortedChildren lists a node's children, dirs first, then by name.
func (n *Node) SortedChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type == TypeDir
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Prompt renders breadcrumbs as a shell-style location, e.g. "~/docs/personal".
func Prompt(crumbs []Crumb) string {
	names := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		names = append(names, c.Name)
	}
	return strings.Join(names, "/")
}

func split(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
