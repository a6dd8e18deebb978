// internal/monitoring/monitoring_test.go
package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/valpere/UIProbe/internal/artifacts"
	"github.com/valpere/UIProbe/internal/output"
	"github.com/valpere/UIProbe/internal/page"
	"github.com/valpere/UIProbe/internal/suite"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.CaseFinished("home", suite.StatusPassed, 2*time.Second)
	m.CaseFinished("home", suite.StatusPassed, time.Second)
	m.CaseFinished("elements", suite.StatusFailed, time.Second)
	m.ClickObserved(page.ClickResult{Clicked: true, Attempts: 1})
	m.ClickObserved(page.ClickResult{Clicked: true, Attempts: 3, Forced: true})
	m.ClickObserved(page.ClickResult{Attempts: 5})
	m.ScreenshotTaken(artifacts.AssertionFailed)
	m.SessionsLive(3)
	m.SessionsLive(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.casesTotal.WithLabelValues("home", "passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.casesTotal.WithLabelValues("elements", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.forcedClicks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clicksFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.screenshots.WithLabelValues("assertion_failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.liveSessions))
	assert.Equal(t, 2, testutil.CollectAndCount(m.caseDuration))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics(MetricsConfig{Labels: map[string]string{"suite": "a"}})
	b := NewMetrics(MetricsConfig{Namespace: "other", EnableGoMetrics: true})
	a.SessionsLive(1)

	families, err := a.Registry().Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "uiprobe_browser_live_sessions" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, "suite", f.GetMetric()[0].GetLabel()[0].GetName())
		}
	}
	assert.True(t, found)

	families, err = b.Registry().Gather()
	require.NoError(t, err)
	var goMetrics bool
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "go_") {
			goMetrics = true
		}
	}
	assert.True(t, goMetrics)
}

func TestHealthManager(t *testing.T) {
	hm := NewHealthManager("1.0.0")
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }

	hm.RegisterCheck(HealthCheck{Name: "reports", Critical: true, Check: ok})
	h := hm.GetHealth(context.Background())
	assert.Equal(t, HealthStatusHealthy, h.Status)
	assert.Equal(t, "1.0.0", h.Version)

	hm.RegisterCheck(HealthCheck{Name: "webdriver", Check: fail})
	h = hm.GetHealth(context.Background())
	assert.Equal(t, HealthStatusDegraded, h.Status)
	require.Len(t, h.Checks, 2)
	assert.Equal(t, "reports", h.Checks[0].Name)
	assert.Equal(t, "down", h.Checks[1].Error)

	hm.RegisterCheck(HealthCheck{Name: "reports", Critical: true, Check: fail})
	assert.Equal(t, HealthStatusUnhealthy, hm.GetHealth(context.Background()).Status)
}

func TestHealthChecks(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	assert.NoError(t, DirectoryHealthCheck("reports", dir).Check(ctx))
	assert.Error(t, DirectoryHealthCheck("reports", filepath.Join(dir, "missing")).Check(ctx))

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, DirectoryHealthCheck("reports", file).Check(ctx))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	assert.NoError(t, HTTPHealthCheck("webdriver", srv.URL+"/status", false).Check(ctx))
	assert.Error(t, HTTPHealthCheck("webdriver", srv.URL+"/nope", false).Check(ctx))

	assert.NoError(t, GoroutineHealthCheck(1_000_000).Check(ctx))
	assert.Error(t, GoroutineHealthCheck(0).Check(ctx))
}

func writeReport(t *testing.T, dir, name, runID string, start time.Time, failed int) {
	t.Helper()
	rep := output.Report{
		Title:  "Demo QA",
		RunID:  runID,
		Start:  start,
		End:    start.Add(time.Minute),
		Counts: map[string]int{"passed": 3, "failed": failed},
	}
	data, err := json.Marshal(rep)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func newTestServer(t *testing.T) (*httptest.Server, string, *Metrics) {
	dir := t.TempDir()
	m := NewMetrics(MetricsConfig{})
	hm := NewHealthManager("test")
	hm.RegisterCheck(DirectoryHealthCheck("reports", dir))
	s := NewServer(ServerConfig{ReportDir: dir}, m, hm, zaptest.NewLogger(t))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, dir, m
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	ts, _, m := newTestServer(t)
	m.CaseFinished("home", suite.StatusPassed, time.Second)

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var h SystemHealth
	require.NoError(t, json.Unmarshal([]byte(body), &h))
	assert.Equal(t, HealthStatusHealthy, h.Status)

	resp, body = get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `uiprobe_suite_cases_total{module="home",status="passed"} 1`)
}

func TestServer_Reports(t *testing.T) {
	ts, dir, _ := newTestServer(t)
	t0 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	writeReport(t, dir, "old.json", "run-old", t0, 1)
	writeReport(t, dir, "new.json", "run-new", t0.Add(time.Hour), 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`{"x":1}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.html"), []byte("<h1>Demo QA</h1>"), 0644))

	resp, body := get(t, ts.URL+"/api/runs")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var runs []RunSummary
	require.NoError(t, json.Unmarshal([]byte(body), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].RunID)
	assert.True(t, runs[0].Passed)
	assert.False(t, runs[1].Passed)
	assert.Equal(t, "1m0s", runs[1].Duration)

	resp, body = get(t, ts.URL+"/api/runs/old.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"run_id":"run-old"`)

	resp, _ = get(t, ts.URL+"/api/runs/missing.json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, ts.URL+"/api/runs/report.html")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = get(t, ts.URL+"/api/runs/notes.json")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = get(t, ts.URL+"/report/report.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Demo QA")

	resp, _ = get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "redirect to the directory listing")
	assert.Equal(t, "/report/", resp.Request.URL.Path)
}

func TestServer_StartStops(t *testing.T) {
	s := NewServer(ServerConfig{Listen: "127.0.0.1:0", ReportDir: t.TempDir()}, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
