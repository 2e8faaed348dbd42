package progress

import "sync"

// Reconciler folds the event stream of one job into its latest state.
// Only the most recent event is kept. A terminal step is recorded but does
// not end the subscription: the primary request outcome does that.
type Reconciler struct {
	mu       sync.Mutex
	jobID    string
	latest   Event
	has      bool
	terminal bool
	accepted int
	ignored  int
}

// NewReconciler returns a reconciler for the given job. Events carrying a
// different job id are ignored; events without one are accepted.
func NewReconciler(jobID string) *Reconciler {
	return &Reconciler{jobID: jobID}
}

// Apply records ev and reports whether it was accepted.
func (r *Reconciler) Apply(ev Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.JobID != "" && r.jobID != "" && ev.JobID != r.jobID {
		r.ignored++
		return false
	}
	r.latest = ev
	r.has = true
	r.accepted++
	if ev.Step.IsTerminal() {
		r.terminal = true
	}
	return true
}

// Latest returns the most recent accepted event.
func (r *Reconciler) Latest() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.has
}

// TerminalSeen reports whether a complete or error step was observed.
func (r *Reconciler) TerminalSeen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminal
}

// Counts returns the number of accepted and ignored events.
func (r *Reconciler) Counts() (accepted, ignored int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accepted, r.ignored
}
