package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/epanalyzer/internal/format"
	"github.com/agbru/epanalyzer/internal/orchestration"
)

// historySize is how many job durations the sparkline shows.
const historySize = 20

// SessionModel accumulates statistics over every job of the session.
type SessionModel struct {
	started    int
	succeeded  int
	failed     int
	superseded int
	events     int
	history    *DurationHistory
	// open is the generation of the job still running, 0 when none.
	open  uint64
	width int
}

// NewSessionModel returns empty session statistics.
func NewSessionModel() SessionModel {
	return SessionModel{history: NewDurationHistory(historySize)}
}

// Observe folds one coordinator message into the statistics. prev and next
// are the job states around the transition it caused.
func (s *SessionModel) Observe(msg orchestration.Msg, prev, next orchestration.JobState) {
	switch msg.(type) {
	case orchestration.JobStartedMsg:
		if next.Generation == prev.Generation {
			return
		}
		if prev.Loading() {
			s.superseded++
		}
		s.started++
		s.open = next.Generation
	case orchestration.ProgressMsg:
		if next.Progress != prev.Progress {
			s.events++
		}
	case orchestration.JobSucceededMsg, orchestration.JobFailedMsg:
		if !prev.Loading() || next.Loading() || next.Generation != s.open {
			return
		}
		if next.Phase == orchestration.PhaseSucceeded {
			s.succeeded++
		} else {
			s.failed++
		}
		s.open = 0
		if !next.FinishedAt.IsZero() {
			s.history.Add(next.FinishedAt.Sub(next.StartedAt))
		}
	}
}

// SetWidth updates the available width.
func (s *SessionModel) SetWidth(w int) { s.width = w }

// Started returns the number of jobs launched this session.
func (s SessionModel) Started() int { return s.started }

// Succeeded returns the number of jobs that produced a result.
func (s SessionModel) Succeeded() int { return s.succeeded }

// Failed returns the number of jobs that ended with an error.
func (s SessionModel) Failed() int { return s.failed }

// Superseded returns the number of jobs replaced by a newer start.
func (s SessionModel) Superseded() int { return s.superseded }

// Events returns the number of progress events applied.
func (s SessionModel) Events() int { return s.events }

// LastDuration returns how long the most recent finished job ran.
func (s SessionModel) LastDuration() time.Duration { return s.history.Last() }

// View renders the statistics line and, once a job finished, the sparkline.
func (s SessionModel) View() string {
	metric := func(label string, v any) string {
		return metricLabelStyle.Render(label) + " " + metricValueStyle.Render(fmt.Sprint(v))
	}
	parts := []string{
		metric("Jobs", s.started),
		metric("OK", s.succeeded),
		metric("Failed", s.failed),
		metric("Superseded", s.superseded),
		metric("Events", s.events),
	}
	if s.history.Len() > 0 {
		parts = append(parts,
			metric("Last", format.FormatExecutionDuration(s.history.Last())),
			sparklineStyle.Render(RenderSparkline(s.history.Values())))
	}
	line := strings.Join(parts, "  ")
	if s.width > 0 && lipgloss.Width(line) > s.width {
		line = strings.Join(parts[:5], "  ")
	}
	return line
}
