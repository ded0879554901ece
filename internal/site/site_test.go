package site

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
)

func testSite(t *testing.T) (*config.Config, *content.Loader, afero.Fs) {
	t.Helper()
	cfg, err := config.Parse([]byte("content:\n  root: /c\nsections:\n  - key: personal\n    title: Personal\n"))
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	for p, body := range map[string]string{
		"/c/docs/personal/index.md":        "# Personal\n",
		"/c/docs/personal/guides/setup.md": "# Setup\n",
		"/c/blog/hello.md":                 "---\nstatus: Published\ndate: 2024-01-02\n---\n",
		"/c/blog/draft.md":                 "---\nstatus: Draft\n---\n",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte(body), 0o644))
	}
	return cfg, content.NewLoader(fs, cfg.Content), fs
}

func TestLoad_Pages(t *testing.T) {
	cfg, loader, _ := testSite(t)
	snap, err := Load(context.Background(), cfg, loader)
	require.NoError(t, err)

	require.Equal(t, []Page{
		{Path: "/", Kind: PageHome},
		{Path: "/docs", Kind: PageDocsIndex},
		{Path: "/docs/personal/guides/setup", Kind: PageDoc, Section: "personal", Key: "guides/setup"},
		{Path: "/docs/personal", Kind: PageDoc, Section: "personal", Key: "index"},
		{Path: "/docs/personal/guides", Kind: PageDir, Section: "personal", Key: "guides"},
		{Path: "/blog", Kind: PageBlogIndex},
		{Path: "/blog/hello", Kind: PagePost, Key: "hello"},
	}, snap.Pages())
	require.NotEmpty(t, snap.Hash())
	require.Equal(t, "Portfolio", snap.Site.Title)

	p, ok := snap.PageAt("/docs/personal/")
	require.True(t, ok)
	require.Equal(t, PageDoc, p.Kind)
	p, ok = snap.PageAt("")
	require.True(t, ok)
	require.Equal(t, PageHome, p.Kind)
	_, ok = snap.PageAt("/blog/draft")
	require.False(t, ok, "unlisted posts are not pre-rendered")
}

func TestLoad_SameNamedFileOwnsFolderURL(t *testing.T) {
	cfg, loader, fs := testSite(t)
	require.NoError(t, afero.WriteFile(fs, "/c/docs/personal/guides.md",
		[]byte("---\ntitle: Guides Overview\n---\n"), 0o644))
	snap, err := Load(context.Background(), cfg, loader)
	require.NoError(t, err)

	var kinds []PageKind
	for _, p := range snap.Pages() {
		if p.Path == "/docs/personal/guides" {
			kinds = append(kinds, p.Kind)
		}
	}
	require.Equal(t, []PageKind{PageDoc}, kinds)

	p, ok := snap.PageAt("/docs/personal/guides")
	require.True(t, ok)
	require.Equal(t, PageDoc, p.Kind)
	require.Equal(t, "guides", p.Key)
}

func TestBuild_EmptySectionGetsLandingPage(t *testing.T) {
	cfg, err := config.Parse([]byte("sections:\n  - key: gateway\n"))
	require.NoError(t, err)
	snap := Build(cfg, &content.Set{})
	p, ok := snap.PageAt("/docs/gateway")
	require.True(t, ok)
	require.Equal(t, PageDir, p.Kind)
	require.Equal(t, "", p.Key)
}

func TestSnapshot_Breadcrumbs(t *testing.T) {
	cfg, loader, _ := testSite(t)
	snap, err := Load(context.Background(), cfg, loader)
	require.NoError(t, err)

	crumbs := snap.Breadcrumbs("/docs/personal/guides/setup")
	require.Len(t, crumbs, 5)
	require.Equal(t, "guides", crumbs[3].Name)

	require.Len(t, snap.Breadcrumbs("/nowhere"), 1)
}

func TestStore_SwapIsAtomicForReaders(t *testing.T) {
	cfg, loader, fs := testSite(t)
	first, err := Load(context.Background(), cfg, loader)
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "/c/docs/personal/extra.md", []byte("# Extra\n"), 0o644))
	second, err := Load(context.Background(), cfg, loader)
	require.NoError(t, err)
	require.NotEqual(t, first.Hash(), second.Hash())

	store := NewStore(first)
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := store.Current()
				n := len(snap.Docs.Files("personal"))
				if snap == first {
					assert.Equal(t, 2, n)
				} else {
					assert.Equal(t, 3, n)
				}
			}
		}()
	}
	time.Sleep(5 * time.Millisecond)
	require.Same(t, first, store.Swap(second))
	time.Sleep(5 * time.Millisecond)
	close(stop)
	wg.Wait()
	require.Same(t, second, store.Current())
}

func TestNewStore_Empty(t *testing.T) {
	require.Nil(t, NewStore(nil).Current())
}
