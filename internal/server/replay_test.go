package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/api"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/progress"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	s := New(opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestHandleProjects_InvalidRegion(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + ProjectsPath + "?region=Mars&technology=solar")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"detail":"Invalid region: Mars"}`, string(body))
}

func TestHandleProjects_ReplaysProgress(t *testing.T) {
	t.Parallel()
	s, ts := newTestServer(t, Options{})
	sub := s.Hub().Subscribe("job-1")
	defer sub.Close()

	client, err := api.NewClient(ts.URL, api.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	resp, err := client.FetchProjects(context.Background(), "job-1", analysis.Selection{Region: analysis.RegionEU, Technology: analysis.TechWind})
	require.NoError(t, err)

	assert.Equal(t, analysis.VariantRaw, resp.Variant)
	assert.Equal(t, []string{"Ireland", "Romania"}, resp.Result.Summary.CountriesAnalyzed)
	assert.Len(t, resp.Result.ProjectsByCountry["Ireland"], 2)
	assert.Len(t, resp.SearchResults, 2)

	var got []progress.Event
	for len(sub.Events()) > 0 {
		got = append(got, <-sub.Events())
	}
	require.Len(t, got, 10)
	assert.Equal(t, progress.Event{Country: "Ireland", Step: progress.StepStarting, JobID: "job-1"}, got[0])
	assert.Equal(t, progress.Event{Country: "Romania", Step: progress.StepAnalyzing, JobID: "job-1"}, got[7])
	assert.Equal(t, progress.StepCombining, got[8].Step)
	assert.True(t, got[8].Global())
	assert.Equal(t, progress.StepComplete, got[9].Step)
}

func TestHandleProjects_Fixture(t *testing.T) {
	t.Parallel()
	fixture := []byte(`{"timestamp":"t","analysis":{"summary":{"countries_analyzed":["Texas"]},"projects_by_country":{"Texas":[{"name":"Lone Star"}]}}}`)
	_, ts := newTestServer(t, Options{Fixture: fixture})

	client, err := api.NewClient(ts.URL, api.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	resp, err := client.FetchProjects(context.Background(), "", analysis.Selection{Region: analysis.RegionUSA, Technology: analysis.TechSolar})
	require.NoError(t, err)
	assert.Equal(t, analysis.VariantSummary, resp.Variant)
	assert.Equal(t, "Lone Star", resp.Result.ProjectsByCountry["Texas"][0].Name)
}

func TestHandleProjects_EmbeddedErrorFixture(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, Options{Fixture: []byte(`{"error":"Server error: quota exceeded"}`)})

	client, err := api.NewClient(ts.URL, api.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	_, err = client.FetchProjects(context.Background(), "", analysis.Selection{Region: analysis.RegionUSA, Technology: analysis.TechSolar})
	var payloadErr apperrors.PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Equal(t, "Server error: quota exceeded", err.Error())
}

func TestHandleProgress_Stream(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, Options{})

	src, err := progress.NewSSESource(ts.URL, progress.SSEOptions{Client: ts.Client()})
	require.NoError(t, err)

	var (
		mu  sync.Mutex
		got []progress.Event
	)
	sub, err := src.Subscribe(context.Background(), "job-7", func(ev progress.Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Close()

	client, err := api.NewClient(ts.URL, api.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	_, err = client.FetchProjects(context.Background(), "job-7", analysis.Selection{Region: analysis.RegionUSA, Technology: analysis.TechBESS})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 6
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, progress.Event{Country: "United States", Step: progress.StepStarting, JobID: "job-7"}, got[0])
	assert.Equal(t, progress.StepComplete, got[5].Step)
}

func TestHandleProgress_StreamEndsWithRequest(t *testing.T) {
	t.Parallel()
	s, ts := newTestServer(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+ProgressPath, http.NoBody)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, 1, s.Hub().Len())

	cancel()
	resp.Body.Close()
	require.Eventually(t, func() bool { return s.Hub().Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, Options{})

	client, err := api.NewClient(ts.URL, api.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	assert.NoError(t, client.Health(context.Background()))
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, Options{})

	for _, path := range []string{ProjectsPath, ProgressPath, HealthPath} {
		resp, err := ts.Client().Post(ts.URL+path, "application/json", http.NoBody)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
	}
}

func TestRoutes_Preflight(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, Options{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+ProjectsPath, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServe_StopsWithContext(t *testing.T) {
	t.Parallel()
	s := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestSampleBody(t *testing.T) {
	t.Parallel()
	body, err := SampleBody(analysis.RegionEU, analysis.TechH2, fixedNow())
	require.NoError(t, err)

	again, err := SampleBody(analysis.RegionEU, analysis.TechH2, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, body, again)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Contains(t, raw, "raw_result")

	resp, err := analysis.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", resp.Result.Timestamp)
	assert.Equal(t, "Ireland Hydrogen Project 1", resp.Result.ProjectsByCountry["Ireland"][0].Name)

	_, err = SampleBody("Mars", analysis.TechH2, fixedNow())
	assert.Error(t, err)
}
