//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/epanalyzer/internal/format"
	"github.com/agbru/epanalyzer/internal/orchestration"
	"github.com/agbru/epanalyzer/internal/view"
)

const (
	// ProgressRefreshRate is the spinner frame interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 24
)

// Spinner abstracts a terminal spinner so the reporter can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix locks the spinner because its render loop reads Suffix
// concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

// ProgressReporter renders the loading state of a Store as a spinner line.
// It starts a fresh spinner for every job generation and stops it as soon
// as the job leaves the loading phase.
type ProgressReporter struct {
	out io.Writer

	mu         sync.Mutex
	spinner    Spinner
	eta        *format.ProgressWithETA
	generation uint64
	running    bool
}

// NewProgressReporter returns a reporter writing to out.
func NewProgressReporter(out io.Writer) *ProgressReporter {
	return &ProgressReporter{out: out}
}

// Attach subscribes the reporter to store and returns the function that
// detaches it.
func (r *ProgressReporter) Attach(store *orchestration.Store) func() {
	return store.Subscribe(r.Observe)
}

// Observe updates the spinner for state s. It is a Store listener and never
// dispatches.
func (r *ProgressReporter) Observe(s orchestration.JobState) {
	vm := view.Present(s)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !vm.Loading {
		r.stopLocked()
		return
	}
	if !r.running || s.Generation != r.generation {
		r.stopLocked()
		r.spinner = newSpinner(r.out)
		r.eta = format.NewProgressWithETA()
		r.generation = s.Generation
		r.spinner.UpdateSuffix(" " + view.ButtonLoading)
		r.spinner.Start()
		r.running = true
	}
	if vm.Status != nil {
		r.spinner.UpdateSuffix(" " + FormatStatusLine(*vm.Status, r.eta))
	}
}

// Stop halts the spinner if one is running.
func (r *ProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *ProgressReporter) stopLocked() {
	if r.running {
		r.spinner.Stop()
		r.running = false
	}
}

// FormatStatusLine renders a status line followed by a progress bar. eta
// may be nil, in which case no estimate is shown.
func FormatStatusLine(st view.StatusLine, eta *format.ProgressWithETA) string {
	if eta == nil {
		return st.Text + "  " + format.ProgressBar(st.Fraction, ProgressBarWidth)
	}
	_, remaining := eta.Update(st.Fraction)
	return st.Text + "  " + format.FormatProgressBarWithETA(st.Fraction, remaining, ProgressBarWidth)
}
