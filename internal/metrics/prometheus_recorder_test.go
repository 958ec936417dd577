package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_pages", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_pages", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.AddPagesRendered(4)
	pr.SetPosts(3, 1)
	pr.IncNotifyResult(true)

	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("render_pages", "success")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(pr.pagesRendered), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.posts.WithLabelValues("published")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.posts.WithLabelValues("unpublished")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome(BuildOutcomeWarning)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `blogbuilder_build_outcomes_total{outcome="warning"} 1`)
}

func TestMount_RegistersMetricsPath(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncNotifyResult(false)

	mux := http.NewServeMux()
	Mount(mux, reg)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blogbuilder_notifications_total")
}
