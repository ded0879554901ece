package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration(StageRender, 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult(StageRender, ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.AddPagesRendered("doc", 3)
	pr.SetSectionDocuments("personal", 3)
	pr.SetBrokenLinks(0)
	pr.IncPreviewRebuild(ResultSkipped)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"folio_stage_duration_seconds",
		"folio_build_duration_seconds",
		"folio_pages_rendered_total",
		"folio_section_documents",
		"folio_broken_links",
		"folio_preview_rebuilds_total",
	} {
		require.True(t, names[want], want)
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveBuildDuration(time.Second)
		pr.IncPreviewRebuild(ResultSuccess)
		pr.SetBrokenLinks(2)
	})
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).AddPagesRendered("post", 2)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `folio_pages_rendered_total{kind="post"} 2`))
}

func TestTestRecorder_Counts(t *testing.T) {
	r := newTestRecorder()
	r.IncStageResult(StageLoad, ResultSuccess)
	r.IncStageResult(StageLoad, ResultSuccess)
	r.AddPagesRendered("doc", 2)
	r.AddPagesRendered("doc", 1)
	require.Equal(t, 2, r.stageResults[StageLoad][ResultSuccess])
	require.Equal(t, 3, r.pages["doc"])
}
