//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks
//go:generate mockgen -destination=mocks/mock_subscription.go -package=mocks github.com/agbru/epanalyzer/internal/progress Subscription

package orchestration

import (
	"context"
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/progress"
)

// Fetcher issues the primary analysis request. api.Client implements it.
type Fetcher interface {
	FetchProjects(ctx context.Context, jobID string, sel analysis.Selection) (analysis.Response, error)
}

// ProgressSource opens per-job progress subscriptions. progress.SSESource
// implements it.
type ProgressSource interface {
	Subscribe(ctx context.Context, jobID string, onEvent func(progress.Event)) (progress.Subscription, error)
}

// Recorder receives job outcomes, typically to update metrics.
type Recorder interface {
	JobFinished(result string, elapsed time.Duration)
	Degraded()
}

// Dispatcher delivers messages to the execution queue that owns JobState.
// Store implements it for the CLI; the TUI forwards to its program loop.
type Dispatcher interface {
	Dispatch(msg Msg)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(msg Msg)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(msg Msg) { f(msg) }

type nopRecorder struct{}

func (nopRecorder) JobFinished(string, time.Duration) {}
func (nopRecorder) Degraded()                         {}

// noProgress is used when no progress source is configured.
type noProgress struct{}

func (noProgress) Subscribe(context.Context, string, func(progress.Event)) (progress.Subscription, error) {
	return progress.SubscriptionFunc(func() {}), nil
}
