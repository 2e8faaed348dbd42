package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/epanalyzer/internal/progress"
)

func TestCollectorsAreIndependent(t *testing.T) {
	t.Parallel()
	a, b := New(), New()
	a.EventDropped()
	if got := testutil.ToFloat64(b.droppedEvents); got != 0 {
		t.Errorf("collectors must not share state, got %v", got)
	}
	if got := testutil.ToFloat64(a.droppedEvents); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
}

func TestJobFinished(t *testing.T) {
	t.Parallel()
	c := New()
	c.JobFinished(ResultSucceeded, time.Second)
	c.JobFinished(ResultFailed, 2*time.Second)
	c.JobFinished(ResultSuperseded, time.Second)

	if got := testutil.ToFloat64(c.jobsTotal.WithLabelValues(ResultSucceeded)); got != 1 {
		t.Errorf("succeeded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.jobsTotal.WithLabelValues(ResultSuperseded)); got != 1 {
		t.Errorf("superseded = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.jobDuration); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestEventReceivedFoldsUnknownSteps(t *testing.T) {
	t.Parallel()
	c := New()
	c.EventReceived(progress.StepSearching)
	c.EventReceived(progress.Step("made-up"))
	c.EventReceived(progress.Step("also-made-up"))

	if got := testutil.ToFloat64(c.progressEvents.WithLabelValues("searching")); got != 1 {
		t.Errorf("searching = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.progressEvents.WithLabelValues("other")); got != 2 {
		t.Errorf("other = %v, want 2", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	t.Parallel()
	c := New()
	c.Reconnected()
	c.RequestStarted()
	c.RequestFinished(http.MethodGet, "/api/health", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	body := rec.Body.String()
	for _, want := range []string{
		"epanalyzer_progress_reconnects_total 1",
		`epanalyzer_http_requests_total{code="200",method="GET",route="/api/health"} 1`,
		"epanalyzer_http_active_requests 0",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %q", want)
		}
	}
}
