package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/api"
	"github.com/agbru/epanalyzer/internal/logging"
	"github.com/agbru/epanalyzer/internal/progress"
)

// countrySteps is the sequence replayed for every country of a region.
var countrySteps = []progress.Step{
	progress.StepStarting,
	progress.StepSearching,
	progress.StepProcessing,
	progress.StepAnalyzing,
}

type errorDetail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodGet)
	writeJSON(w, http.StatusMethodNotAllowed, errorDetail{Detail: "Method Not Allowed"})
}

// handleProjects replays one analysis: progress for every country of the
// region, then the combining step, then the body.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	region := analysis.Region(q.Get("region"))
	technology := analysis.Technology(q.Get("technology"))
	jobID := q.Get("job_id")
	if jobID == "" {
		jobID = r.Header.Get(api.JobIDHeader)
	}
	fields := []logging.Field{logging.String("job_id", jobID), logging.String("region", string(region))}

	countries := analysis.CountriesForRegion(region)
	if countries == nil {
		s.logger.Warn("invalid region", fields...)
		writeJSON(w, http.StatusBadRequest, errorDetail{Detail: fmt.Sprintf("Invalid region: %s", region)})
		return
	}

	ctx := r.Context()
	emit := func(country string, step progress.Step) bool {
		s.hub.Publish(progress.Event{Country: country, Step: step, JobID: jobID})
		return sleep(ctx, s.stepDelay)
	}

	s.logger.Info("replay started", append(fields, logging.Int("countries", len(countries)))...)
	for _, country := range countries {
		for _, step := range countrySteps {
			if !emit(country, step) {
				s.logger.Debug("client went away", fields...)
				return
			}
		}
	}
	if !emit(progress.AllCountries, progress.StepCombining) {
		return
	}

	body := s.fixture
	if body == nil {
		var err error
		if body, err = SampleBody(region, technology, s.now()); err != nil {
			s.logger.Error("sample body", err, fields...)
			s.hub.Publish(progress.Event{Country: progress.AllCountries, Step: progress.StepError, JobID: jobID})
			writeJSON(w, http.StatusOK, map[string]string{"error": "Server error: " + err.Error()})
			return
		}
	}

	s.hub.Publish(progress.Event{Country: progress.AllCountries, Step: progress.StepComplete, JobID: jobID})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	s.logger.Info("replay finished", append(fields, logging.Int("bytes", len(body)))...)
}

// handleProgress streams hub events as server-sent events. The hub
// subscription is registered before the response headers are sent, so a
// client whose connect returned sees every later event.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		jobID = r.Header.Get(api.JobIDHeader)
	}
	sub := s.hub.Subscribe(jobID)
	defer sub.Close()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sleep waits d or until ctx is done, reporting whether the wait completed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
