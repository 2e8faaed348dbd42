package progress

import (
	"encoding/json"
	"errors"
	"strings"

	apperrors "github.com/agbru/epanalyzer/internal/errors"
)

// AllCountries is the country value of events that concern the whole job
// rather than a single country.
const AllCountries = "all"

// Step names a stage of the remote analysis.
type Step string

const (
	StepStarting   Step = "starting"
	StepSearching  Step = "searching"
	StepProcessing Step = "processing"
	StepAnalyzing  Step = "analyzing"
	StepCombining  Step = "combining"
	StepComplete   Step = "complete"
	StepError      Step = "error"
)

// IsTerminal reports whether the step ends the remote analysis.
func (s Step) IsTerminal() bool {
	return s == StepComplete || s == StepError
}

// Known reports whether the step is one the service is documented to send.
// Unknown steps are still delivered verbatim.
func (s Step) Known() bool {
	switch s {
	case StepStarting, StepSearching, StepProcessing, StepAnalyzing,
		StepCombining, StepComplete, StepError:
		return true
	}
	return false
}

// Event is one progress notification.
type Event struct {
	Country string `json:"country"`
	Step    Step   `json:"step"`
	// JobID is set by services that thread the job token through events.
	JobID string `json:"job_id,omitempty"`
}

// Global reports whether the event concerns the whole job.
func (e Event) Global() bool {
	return e.Country == AllCountries
}

var errMissingStep = errors.New("missing step")

// ParseEvent decodes the data payload of one stream message.
func ParseEvent(data string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return Event{}, apperrors.EventParseError{Data: data, Cause: err}
	}
	ev.Step = Step(strings.TrimSpace(string(ev.Step)))
	if ev.Step == "" {
		return Event{}, apperrors.EventParseError{Data: data, Cause: errMissingStep}
	}
	return ev, nil
}
