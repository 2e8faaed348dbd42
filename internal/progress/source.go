package progress

import "context"

// Source opens progress subscriptions for jobs.
type Source interface {
	// Subscribe opens a subscription for jobID and delivers events to
	// onEvent from a single goroutine, in arrival order. An error means the
	// subscription could not be opened at all.
	Subscribe(ctx context.Context, jobID string, onEvent func(Event)) (Subscription, error)
}

// Subscription is an open progress stream.
type Subscription interface {
	// Close ends the stream. It is idempotent and returns only after the
	// delivering goroutine has exited, so no callback runs afterwards.
	Close()
}

// Observer receives stream health notifications, typically to update metrics.
type Observer interface {
	EventReceived(step Step)
	EventDropped()
	Reconnected()
	Degraded()
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) EventReceived(Step) {}
func (NopObserver) EventDropped()      {}
func (NopObserver) Reconnected()       {}
func (NopObserver) Degraded()          {}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, jobID string, onEvent func(Event)) (Subscription, error)

// Subscribe calls f.
func (f SourceFunc) Subscribe(ctx context.Context, jobID string, onEvent func(Event)) (Subscription, error) {
	return f(ctx, jobID, onEvent)
}

// SubscriptionFunc adapts a close function to the Subscription interface.
// The function must itself be idempotent.
type SubscriptionFunc func()

// Close calls f.
func (f SubscriptionFunc) Close() { f() }
