package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/doctree"
	ferrors "git.home.luguber.info/inful/folio/internal/errors"
)

// writeSite lays out a small content tree and a config pointing at it.
func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(dir, "content", filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	cfg := "site:\n  title: Test\ncontent:\n  root: " + filepath.Join(dir, "content") +
		"\nsections:\n  - key: personal\n    title: Personal\noutput:\n  directory: " + filepath.Join(dir, "dist") + "\n"
	cfgPath := filepath.Join(dir, "folio.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func defaultSite(t *testing.T) string {
	return writeSite(t, map[string]string{
		"docs/personal/index.md":         "# Personal\n\nSee [setup](/docs/personal/guides/setup).\n",
		"docs/personal/guides/setup.md":  "---\norder: 1\n---\n# Setup\n",
		"docs/personal/guides/deploy.md": "---\norder: 2\n---\n# Deploy\n\nBack to [setup](setup).\n",
		"blog/hello.md":                  "---\ntitle: Hello\nstatus: Published\ndate: 2024-01-02\ntags: [go]\n---\nHi.\n",
	})
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	var out bytes.Buffer
	err = ctx.Run(&Global{Out: &out}, &cli)
	return out.String(), err
}

func TestInit_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "init", "--output", dir)
	require.NoError(t, err)
	require.Contains(t, out, "initialized successfully")
	require.FileExists(t, filepath.Join(dir, "folio.yaml"))

	_, err = run(t, "init", "--output", dir)
	require.Error(t, err)
}

func TestTree(t *testing.T) {
	cfg := defaultSite(t)
	out, err := run(t, "-c", cfg, "tree", "personal")
	require.NoError(t, err)
	require.Equal(t, "- Personal  /docs/personal\n"+
		"+ Guides  /docs/personal/guides\n"+
		"  - Setup  /docs/personal/guides/setup\n"+
		"  - Deploy  /docs/personal/guides/deploy\n", out)

	out, err = run(t, "-c", cfg, "tree", "personal", "--json")
	require.NoError(t, err)
	var nodes []doctree.NavNode
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 2)

	_, err = run(t, "-c", cfg, "tree", "missing")
	require.True(t, ferrors.IsCategory(err, ferrors.CategoryContent))
}

func TestRoutesLsPostsResolve(t *testing.T) {
	cfg := defaultSite(t)

	out, err := run(t, "-c", cfg, "routes", "personal", "--json")
	require.NoError(t, err)
	var routes []doctree.Route
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	require.Len(t, routes, 3)

	out, err = run(t, "-c", cfg, "ls", "personal", "guides")
	require.NoError(t, err)
	require.Equal(t, "setup\tSetup\ndeploy\tDeploy\n", out)

	_, err = run(t, "-c", cfg, "ls", "personal", "nope")
	require.Error(t, err)

	out, err = run(t, "-c", cfg, "posts", "--tag", "go")
	require.NoError(t, err)
	require.Contains(t, out, "2024-01-02")
	require.Contains(t, out, "hello")

	out, err = run(t, "-c", cfg, "resolve", "/docs/personal")
	require.NoError(t, err)
	require.Contains(t, out, "~/docs/personal (dir)")
	require.Contains(t, out, "  guides/\n")
}

func TestBuild_WritesSiteAndChecksLinks(t *testing.T) {
	cfg := defaultSite(t)
	metricsFile := filepath.Join(t.TempDir(), "build.prom")

	out, err := run(t, "-c", cfg, "build", "--check", "--metrics-file", metricsFile)
	require.NoError(t, err)
	require.Contains(t, out, ", 0 broken")
	require.Contains(t, out, "Built ")

	dist := filepath.Join(filepath.Dir(cfg), "dist")
	require.FileExists(t, filepath.Join(dist, "index.html"))
	require.FileExists(t, filepath.Join(dist, "docs", "personal", "guides", "setup", "index.html"))
	require.FileExists(t, filepath.Join(dist, "404.html"))

	require.FileExists(t, filepath.Join(dist, ".folio-manifest.json"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), "folio_pages_rendered_total")

	out, err = run(t, "-c", cfg, "build")
	require.NoError(t, err)
	require.Contains(t, out, "is up to date")

	out, err = run(t, "-c", cfg, "build", "--force")
	require.NoError(t, err)
	require.Contains(t, out, "Built ")
}

func TestCheck_ReportsBrokenLinks(t *testing.T) {
	cfg := writeSite(t, map[string]string{
		"docs/personal/index.md": "# Personal\n\nSee [gone](/docs/personal/gone).\n",
	})
	out, err := run(t, "-c", cfg, "check")
	require.Error(t, err)
	require.True(t, ferrors.IsCategory(err, ferrors.CategoryValidation))
	require.Contains(t, out, "/docs/personal/gone")
	require.Contains(t, out, ", 1 broken")
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "-c", filepath.Join(t.TempDir(), "none.yaml"), "routes")
	require.True(t, ferrors.IsCategory(err, ferrors.CategoryConfig))
}
