package orchestration

import (
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/progress"
)

// Phase is the lifecycle stage of the current job.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// JobState is the single state cell describing the current job. Values are
// never mutated in place: Transition always returns a new value, so a
// snapshot handed to a listener stays valid.
type JobState struct {
	Phase      Phase
	Generation uint64
	JobID      string
	Selection  analysis.Selection
	// Progress is the latest accepted event, set only while loading.
	Progress      *progress.Event
	Result        *analysis.AnalysisResult
	SearchResults []analysis.SearchResult
	Variant       analysis.Variant
	// Failure is the message of the last failed job.
	Failure string
	// Notice is an inline validation message. It does not change Phase.
	Notice     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Loading reports whether a job is in flight.
func (s JobState) Loading() bool { return s.Phase == PhaseLoading }

// Elapsed returns how long the current or last job ran, measured at now.
func (s JobState) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.Phase == PhaseLoading || s.FinishedAt.IsZero() {
		return now.Sub(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Msg is a state change produced by the coordinator.
type Msg interface {
	msgGeneration() uint64
}

// JobStartedMsg moves the state to loading for a new job.
type JobStartedMsg struct {
	Generation uint64
	JobID      string
	Selection  analysis.Selection
	At         time.Time
}

// ProgressMsg carries an accepted progress event.
type ProgressMsg struct {
	Generation uint64
	Event      progress.Event
}

// JobSucceededMsg carries the decoded result of a job.
type JobSucceededMsg struct {
	Generation uint64
	Response   analysis.Response
	At         time.Time
}

// JobFailedMsg carries the error that ended a job.
type JobFailedMsg struct {
	Generation uint64
	Err        error
	At         time.Time
}

// ValidationFailedMsg surfaces an invalid selection without starting a job.
type ValidationFailedMsg struct {
	Generation uint64
	Message    string
}

func (m JobStartedMsg) msgGeneration() uint64       { return m.Generation }
func (m ProgressMsg) msgGeneration() uint64         { return m.Generation }
func (m JobSucceededMsg) msgGeneration() uint64     { return m.Generation }
func (m JobFailedMsg) msgGeneration() uint64        { return m.Generation }
func (m ValidationFailedMsg) msgGeneration() uint64 { return m.Generation }

// GenerationOf returns the generation token a message carries.
func GenerationOf(msg Msg) uint64 { return msg.msgGeneration() }

// Transition applies msg to s and returns the resulting state. It is pure:
// messages for a generation other than the current job are ignored, and a
// job start older than the current generation is ignored as well.
func Transition(s JobState, msg Msg) JobState {
	switch m := msg.(type) {
	case JobStartedMsg:
		if m.Generation < s.Generation {
			return s
		}
		return JobState{
			Phase:      PhaseLoading,
			Generation: m.Generation,
			JobID:      m.JobID,
			Selection:  m.Selection,
			StartedAt:  m.At,
		}

	case ProgressMsg:
		if !s.current(m.Generation) {
			return s
		}
		ev := m.Event
		s.Progress = &ev
		return s

	case JobSucceededMsg:
		if !s.current(m.Generation) {
			return s
		}
		result := m.Response.Result
		s.Phase = PhaseSucceeded
		s.Progress = nil
		s.Result = &result
		s.SearchResults = m.Response.SearchResults
		s.Variant = m.Response.Variant
		s.Failure = ""
		s.Notice = ""
		s.FinishedAt = m.At
		return s

	case JobFailedMsg:
		if !s.current(m.Generation) {
			return s
		}
		s.Phase = PhaseFailed
		s.Progress = nil
		s.Result = nil
		s.SearchResults = nil
		s.Failure = failureMessage(m.Err)
		s.Notice = ""
		s.FinishedAt = m.At
		return s

	case ValidationFailedMsg:
		s.Notice = m.Message
		return s
	}
	return s
}

func (s JobState) current(gen uint64) bool {
	return s.Phase == PhaseLoading && gen == s.Generation
}

func failureMessage(err error) string {
	if err == nil {
		return "analysis failed"
	}
	return err.Error()
}
