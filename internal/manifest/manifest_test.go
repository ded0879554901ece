package manifest

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

func buildSite(t *testing.T, fs afero.Fs, docs map[string]string) (*config.Config, *site.Snapshot, *render.Result) {
	t.Helper()
	cfg, err := config.Parse([]byte("content:\n  root: /c\noutput:\n  directory: /out\nsections:\n  - key: personal\n"))
	require.NoError(t, err)
	for p, body := range docs {
		require.NoError(t, afero.WriteFile(fs, p, []byte(body), 0o644))
	}
	snap, err := site.Load(context.Background(), cfg, content.NewLoader(fs, cfg.Content))
	require.NoError(t, err)
	res, err := render.New(fs, cfg.Output).Build(context.Background(), snap)
	require.NoError(t, err)
	return cfg, snap, res
}

func TestNew_RecordsInputsAndArtifacts(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, snap, res := buildSite(t, fs, map[string]string{"/c/docs/personal/index.md": "# Personal\n"})

	m, err := New(fs, cfg, snap, res)
	require.NoError(t, err)
	require.Equal(t, res.BuildID, m.ID)
	require.Equal(t, snap.Hash(), m.Inputs.ContentHash)
	require.Equal(t, []SectionInput{{Key: "personal", Files: 1}}, m.Inputs.Sections)
	require.Equal(t, StatusSuccess, m.Status)
	require.Len(t, m.Outputs.ArtifactHashes, res.Pages)
	require.Contains(t, m.Outputs.ArtifactHashes, "index.html")
	require.Contains(t, m.Outputs.ArtifactHashes, render.NotFoundFile)

	data, err := m.ToJSON()
	require.NoError(t, err)
	restored, err := FromJSON(data)
	require.NoError(t, err)
	h1, err := m.Hash()
	require.NoError(t, err)
	h2, err := restored.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestUpToDate(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, snap, res := buildSite(t, fs, map[string]string{"/c/docs/personal/index.md": "# Personal\n"})

	planned, err := Planned(cfg, snap)
	require.NoError(t, err)

	fresh, err := UpToDate(fs, "/out", planned)
	require.NoError(t, err)
	require.False(t, fresh, "no manifest written yet")

	m, err := New(fs, cfg, snap, res)
	require.NoError(t, err)
	require.NoError(t, m.Write(fs, "/out"))

	fresh, err = UpToDate(fs, "/out", planned)
	require.NoError(t, err)
	require.True(t, fresh)

	t.Run("modified artifact", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/out/index.html", []byte("tampered"), 0o644))
		fresh, err := UpToDate(fs, "/out", planned)
		require.NoError(t, err)
		require.False(t, fresh)
	})

	t.Run("changed config", func(t *testing.T) {
		changed := *cfg
		changed.Site.Title = "Other"
		other, err := Planned(&changed, snap)
		require.NoError(t, err)
		require.NotEqual(t, planned.Inputs.ConfigHash, other.Inputs.ConfigHash)
	})
}

func TestRead_Missing(t *testing.T) {
	m, err := Read(afero.NewMemMapFs(), "/nowhere")
	require.NoError(t, err)
	require.Nil(t, m)
}
