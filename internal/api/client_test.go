package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/epanalyzer/internal/analysis"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
)

var euSolar = analysis.Selection{Region: analysis.RegionEU, Technology: analysis.TechSolar}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestFetchProjectsSendsSelectionAndJobToken(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ProjectsPath, r.URL.Path)
		assert.Equal(t, "EU", r.URL.Query().Get("region"))
		assert.Equal(t, "solar", r.URL.Query().Get("technology"))
		assert.Equal(t, "job-7", r.URL.Query().Get("job_id"))
		assert.Equal(t, "job-7", r.Header.Get(JobIDHeader))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"search_results":[],"analysis":{"summary":{"countries_analyzed":["Ireland"]},"projects_by_country":{}}}`))
	})

	resp, err := c.FetchProjects(context.Background(), "job-7", euSolar)
	require.NoError(t, err)
	assert.Equal(t, analysis.VariantSummary, resp.Variant)
	assert.Equal(t, []string{"Ireland"}, resp.Result.Summary.CountriesAnalyzed)
}

func TestFetchProjectsHTTPError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"boom"}`))
	})

	_, err := c.FetchProjects(context.Background(), "", euSolar)
	var terr apperrors.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	assert.Equal(t, `HTTP error! status: 500, body: {"detail":"boom"}`, err.Error())
}

func TestFetchProjectsEmbeddedError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Server error: quota exceeded"}`))
	})

	_, err := c.FetchProjects(context.Background(), "", euSolar)
	var perr apperrors.PayloadError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Server error: quota exceeded", err.Error())
}

func TestFetchProjectsRawVariant(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timestamp":"t","raw_result":{"projects":[{"name":"A","location":"Romania"}],"search_results":[]}}`))
	})

	resp, err := c.FetchProjects(context.Background(), "", euSolar)
	require.NoError(t, err)
	assert.Equal(t, analysis.VariantRaw, resp.Variant)
	assert.Len(t, resp.Result.ProjectsByCountry["Romania"], 1)
}

func TestFetchProjectsNetworkError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url)
	require.NoError(t, err)
	_, err = c.FetchProjects(context.Background(), "", euSolar)

	var terr apperrors.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
	assert.Error(t, terr.Cause)
}

func TestFetchProjectsCanceled(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.FetchProjects(ctx, "", euSolar)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"ok", http.StatusOK, `{"status":"ok"}`, false},
		{"wrong status field", http.StatusOK, `{"status":"starting"}`, true},
		{"server error", http.StatusServiceUnavailable, `down`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, HealthPath, r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			err := c.Health(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()
	c, err := NewClient("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c, err = NewClient("http://example.test/base/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/base/api/projects?region=EU", c.endpoint(ProjectsPath, map[string][]string{"region": {"EU"}}))

	_, err = NewClient("::not a url")
	var cerr apperrors.ConfigError
	assert.ErrorAs(t, err, &cerr)
}
