package tui

import (
	"time"

	"github.com/agbru/epanalyzer/internal/orchestration"
)

// CoordinatorMsg carries a state change produced by the coordinator.
type CoordinatorMsg struct {
	Msg orchestration.Msg
}

// TickMsg refreshes the elapsed timer while a job is loading.
type TickMsg time.Time

// StartFailedMsg reports a job that could not be started for a reason other
// than validation, which reaches the model as a CoordinatorMsg.
type StartFailedMsg struct {
	Err error
}

// ContextCancelledMsg is sent when the session context ends.
type ContextCancelledMsg struct {
	Err error
}
