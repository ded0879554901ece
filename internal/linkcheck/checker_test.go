package linkcheck

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/render"
	"git.home.luguber.info/inful/folio/internal/site"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/":                  "/",
		"/index.html":        "/",
		"/docs/personal/":    "/docs/personal",
		"/docs/a/index.html": "/docs/a",
		"/docs/a?x=1#frag":   "/docs/a",
		"/docs/a/../b":       "/docs/b",
		"/404.html":          "/404.html",
	}
	for in, want := range tests {
		require.Equal(t, want, Normalize(in), in)
	}
}

func TestCheckPage(t *testing.T) {
	c := New([]string{"/docs/personal", "/docs/personal/guides/setup", "/blog"}, "https://example.com")
	page := []byte(`<body>
<a href="#top">anchor</a>
<a href="/docs/personal/">ok</a>
<a href="setup#install">relative ok</a>
<a href="../missing">relative broken</a>
<a href="https://example.com/blog?page=2">absolute ok</a>
<a href="https://example.com/nope">absolute broken</a>
<a href="https://elsewhere.org/nope">external</a>
</body>`)

	broken, checked, err := c.CheckPage("/docs/personal/guides/deploy", page)
	require.NoError(t, err)
	require.Equal(t, 5, checked)
	require.Equal(t, []BrokenLink{
		{Page: "/docs/personal/guides/deploy", URL: "../missing", Target: "/docs/personal/missing", Tag: "a", Text: "relative broken"},
		{Page: "/docs/personal/guides/deploy", URL: "https://example.com/nope", Target: "/nope", Tag: "a", Text: "absolute broken"},
	}, broken)
}

func TestCheckDir_RenderedSiteHasNoBrokenLinks(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, err := config.Parse([]byte("content:\n  root: /src\noutput:\n  directory: /out\nsections:\n  - key: personal\n  - key: empty\n"))
	require.NoError(t, err)
	for p, body := range map[string]string{
		"/src/docs/personal/index.md":         "# Personal\n",
		"/src/docs/personal/guides/setup.md":  "# Setup\n\nSee [the deploy guide](deploy) and [home](/).\n",
		"/src/docs/personal/guides/deploy.md": "# Deploy\n",
		"/src/blog/post.md":                   "---\nstatus: Published\n---\nRead [setup](/docs/personal/guides/setup/).\n",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte(body), 0o644))
	}
	snap, err := site.Load(context.Background(), cfg, content.NewLoader(fs, cfg.Content))
	require.NoError(t, err)
	_, err = render.New(fs, cfg.Output).Build(context.Background(), snap)
	require.NoError(t, err)

	report, err := New(nil, "").CheckDir(context.Background(), fs, "/out")
	require.NoError(t, err)
	require.Empty(t, report.Broken)
	require.Equal(t, len(snap.Pages())+1, report.Pages)
	require.Positive(t, report.Links)
}

func TestCheckDir_ReportsBrokenLinks(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/index.html", []byte(`<a href="/docs">docs</a><img src="/logo.png">`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/logo.png", []byte("png"), 0o644))

	report, err := New(nil, "").CheckDir(context.Background(), fs, "/out")
	require.NoError(t, err)
	require.Equal(t, 1, report.Pages)
	require.Equal(t, 2, report.Links)
	require.Len(t, report.Broken, 1)
	require.Equal(t, "/docs", report.Broken[0].Target)
}
