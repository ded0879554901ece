package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/folio/internal/doctree"
	ferrors "git.home.luguber.info/inful/folio/internal/errors"
	"git.home.luguber.info/inful/folio/internal/sitefs"
)

// TreeCmd prints the navigation tree of one section.
type TreeCmd struct {
	Section string `arg:"" help:"Section key"`
	JSON    bool   `name:"json" help:"Print the tree as JSON"`
}

func (t *TreeCmd) Run(g *Global, root *CLI) error {
	_, snap, err := root.loadSnapshot(context.Background())
	if err != nil {
		return err
	}
	if _, ok := snap.Docs.Section(t.Section); !ok {
		return ferrors.NotFound("section", t.Section)
	}
	nodes := snap.Docs.BuildNavTree(t.Section)
	if t.JSON {
		return printJSON(g.Out, nodes)
	}
	writeTree(g.Out, nodes, 0)
	return nil
}

func writeTree(w io.Writer, nodes []doctree.NavNode, depth int) {
	for _, n := range nodes {
		marker := "-"
		if n.Kind == doctree.KindFolder {
			marker = "+"
		}
		_, _ = fmt.Fprintf(w, "%s%s %s  %s\n", strings.Repeat("  ", depth), marker, n.Title, n.Path)
		writeTree(w, n.Children, depth+1)
	}
}

// RoutesCmd lists routes.
type RoutesCmd struct {
	Section string `arg:"" optional:"" help:"Limit to one section"`
	JSON    bool   `name:"json" help:"Print routes as JSON"`
}

func (r *RoutesCmd) Run(g *Global, root *CLI) error {
	_, snap, err := root.loadSnapshot(context.Background())
	if err != nil {
		return err
	}
	routes := snap.Docs.AllRoutes()
	if r.Section != "" {
		if _, ok := snap.Docs.Section(r.Section); !ok {
			return ferrors.NotFound("section", r.Section)
		}
		routes = snap.Docs.Routes(r.Section)
	}
	if r.JSON {
		return printJSON(g.Out, routes)
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	for _, rt := range routes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Path, rt.Section, rt.Key)
	}
	return tw.Flush()
}

// LsCmd lists a docs directory.
type LsCmd struct {
	Section string `arg:"" help:"Section key"`
	Dir     string `arg:"" optional:"" help:"Directory relative to the section root"`
	JSON    bool   `name:"json" help:"Print the listing as JSON"`
}

func (l *LsCmd) Run(g *Global, root *CLI) error {
	_, snap, err := root.loadSnapshot(context.Background())
	if err != nil {
		return err
	}
	dir := strings.Trim(l.Dir, "/")
	listing, err := snap.Docs.DirectoryContents(l.Section, dir)
	if err != nil {
		return ferrors.NotFound("directory", strings.TrimSuffix(l.Section+"/"+dir, "/"))
	}
	if l.JSON {
		return printJSON(g.Out, listing)
	}
	for _, f := range listing.Folders {
		_, _ = fmt.Fprintf(g.Out, "%s/\t%s\n", f.Name, f.Title)
	}
	for _, f := range listing.Files {
		_, _ = fmt.Fprintf(g.Out, "%s\t%s\n", f.Name, f.Title)
	}
	return nil
}

// PostsCmd lists published posts, newest first.
type PostsCmd struct {
	Tag  string `name:"tag" help:"Only posts carrying this tag"`
	JSON bool   `name:"json" help:"Print posts as JSON"`
}

func (p *PostsCmd) Run(g *Global, root *CLI) error {
	_, snap, err := root.loadSnapshot(context.Background())
	if err != nil {
		return err
	}
	posts := snap.Blog.Posts()
	if p.Tag != "" {
		posts = snap.Blog.Tagged(p.Tag)
	}
	if p.JSON {
		return printJSON(g.Out, posts)
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	for _, post := range posts {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", post.Date.Format("2006-01-02"), post.Slug, post.Title)
	}
	return tw.Flush()
}

// ResolveCmd resolves a site path like the terminal prompt does.
type ResolveCmd struct {
	Path string `arg:"" help:"Site path, e.g. /docs/personal"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	_, snap, err := root.loadSnapshot(context.Background())
	if err != nil {
		return err
	}
	node, crumbs, ok := snap.FS.Resolve(r.Path)
	if !ok {
		return ferrors.NotFound("path", r.Path)
	}
	_, _ = fmt.Fprintf(g.Out, "%s (%s)\n", sitefs.Prompt(crumbs), node.Type)
	for _, c := range node.SortedChildren() {
		suffix := ""
		if c.Type == sitefs.TypeDir {
			suffix = "/"
		}
		_, _ = fmt.Fprintf(g.Out, "  %s%s\n", c.Name, suffix)
	}
	return nil
}
