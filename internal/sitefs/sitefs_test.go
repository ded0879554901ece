package sitefs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromPaths_Structure(t *testing.T) {
	tree := FromPaths([]string{
		"/docs/personal",
		"/docs/personal/guides/setup",
		"/blog/hello",
		"/about",
		"/",
		"",
	})
	root := tree.Root()
	require.Equal(t, RootName, root.Name)
	require.Equal(t, TypeDir, root.Type)
	require.Len(t, root.Children, 3)

	docs := root.Children["docs"]
	require.Equal(t, TypeDir, docs.Type)
	require.Equal(t, "/docs", docs.Path)

	personal := docs.Children["personal"]
	require.Equal(t, TypeDir, personal.Type, "a path that is also a prefix becomes a dir")
	require.Equal(t, "/docs/personal", personal.Path)

	setup := personal.Children["guides"].Children["setup"]
	require.Equal(t, TypeFile, setup.Type)
	require.Nil(t, setup.Children)

	require.Equal(t, TypeFile, root.Children["about"].Type)
}

func TestFromPaths_LeafBeforePrefixOrder(t *testing.T) {
	a := FromPaths([]string{"/docs/x", "/docs/x/y"})
	b := FromPaths([]string{"/docs/x/y", "/docs/x"})
	na, _, ok := a.Resolve("/docs/x")
	require.True(t, ok)
	nb, _, ok := b.Resolve("/docs/x")
	require.True(t, ok)
	require.Equal(t, TypeDir, na.Type)
	require.Equal(t, TypeDir, nb.Type)
}

func TestResolve(t *testing.T) {
	tree := FromPaths([]string{"/blog/hello", "/about"})

	node, crumbs, ok := tree.Resolve("/")
	require.True(t, ok)
	require.Same(t, tree.Root(), node)
	require.Len(t, crumbs, 1)
	require.Equal(t, RootName, crumbs[0].Name)

	_, crumbs, ok = tree.Resolve("")
	require.True(t, ok)
	require.Len(t, crumbs, 1)

	node, crumbs, ok = tree.Resolve("/blog/hello/")
	require.True(t, ok)
	require.Equal(t, "/blog/hello", node.Path)
	require.Equal(t, "~/blog/hello", Prompt(crumbs))
	require.Equal(t, "/blog", crumbs[1].Path)

	_, _, ok = tree.Resolve("/blog/missing")
	require.False(t, ok)
}

func TestSortedChildren(t *testing.T) {
	tree := FromPaths([]string{"/zeta", "/alpha", "/docs/a", "/blog/b"})
	var names []string
	for _, c := range tree.Root().SortedChildren() {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"blog", "docs", "alpha", "zeta"}, names)
}
