package content

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/errors"
)

func testConfig() config.ContentConfig {
	return config.ContentConfig{Root: "/site/content", DocsDir: "docs", BlogDir: "blog"}
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for p, body := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(body), 0o644))
	}
}

func TestLoad_CollectsDocsAndPosts(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/site/content/docs/personal/index.md":          "---\ntitle: Home\n---\n",
		"/site/content/docs/personal/guides/setup.md":   "# Setup\n",
		"/site/content/docs/gateway/intro.markdown":     "# Intro\n",
		"/site/content/docs/gateway/diagram.png":        "binary",
		"/site/content/docs/gateway/.draft.md":          "# Hidden\n",
		"/site/content/docs/gateway/.private/secret.md": "# Secret\n",
		"/site/content/docs/README.md":                  "# Outside sections\n",
		"/site/content/blog/hello.md":                   "---\ntitle: Hello\nstatus: Published\n---\n",
		"/site/content/blog/archive/old.md":             "# Nested posts are ignored\n",
		"/site/content/blog/notes.txt":                  "not markdown",
	})

	set, err := NewLoader(fs, testConfig()).Load(context.Background())
	require.NoError(t, err)

	var docPaths []string
	for _, f := range set.Docs {
		require.Equal(t, KindDoc, f.Kind)
		docPaths = append(docPaths, f.Path)
	}
	require.Equal(t, []string{
		"/docs/gateway/intro.markdown",
		"/docs/personal/guides/setup.md",
		"/docs/personal/index.md",
	}, docPaths)

	require.Len(t, set.Posts, 1)
	require.Equal(t, "/blog/hello.md", set.Posts[0].Path)
	require.Equal(t, KindPost, set.Posts[0].Kind)
	require.Equal(t, "Hello", set.Posts[0].Document.Fields.Title)
	require.NotEmpty(t, set.Posts[0].Fingerprint)
	require.Equal(t, 4, set.Len())
	require.NotEmpty(t, set.Hash)
}

func TestLoad_MissingSubdirectoriesYieldEmptySet(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/site/content", 0o755))

	set, err := NewLoader(fs, testConfig()).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, set.Docs)
	require.Empty(t, set.Posts)
	require.Equal(t, computeHash(nil), set.Hash)
}

func TestLoad_RootErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := NewLoader(fs, testConfig()).Load(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRootNotFound))
	require.True(t, ferrors.IsCategory(err, ferrors.CategoryContent))

	writeFiles(t, fs, map[string]string{"/site/content": "a file"})
	_, err = NewLoader(fs, testConfig()).Load(context.Background())
	require.True(t, errors.Is(err, ErrRootNotDirectory))
}

func TestLoad_CanceledContext(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/site/content/docs/personal/a.md": "# A\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(fs, testConfig()).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_HashTracksContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/site/content/docs/personal/a.md": "# A\n"})
	loader := NewLoader(fs, testConfig())

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	again, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.Hash, again.Hash)

	writeFiles(t, fs, map[string]string{"/site/content/docs/personal/a.md": "# A changed\n"})
	changed, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, first.Hash, changed.Hash)
}

func TestLoader_WatchDirs(t *testing.T) {
	l := NewLoader(afero.NewMemMapFs(), testConfig())
	require.Equal(t, []string{"/site/content/docs", "/site/content/blog"}, l.WatchDirs())
	require.Equal(t, "/site/content", l.Root())
}
