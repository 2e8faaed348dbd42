package orchestration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/epanalyzer/internal/analysis"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/logging"
	"github.com/agbru/epanalyzer/internal/metrics"
	"github.com/agbru/epanalyzer/internal/progress"
)

// TracerName identifies spans created by the coordinator.
const TracerName = "github.com/agbru/epanalyzer/internal/orchestration"

var (
	// ErrSuperseded is the outcome of a job replaced by a newer one.
	ErrSuperseded = errors.New("job superseded by a newer job")
	// ErrClosed is returned by StartJob after Close.
	ErrClosed = errors.New("coordinator closed")
)

// Options configures a Coordinator. Zero values select defaults.
type Options struct {
	Logger   logging.Logger
	Recorder Recorder
	Tracer   trace.Tracer
	// Timeout bounds each job; zero means no limit beyond the caller's context.
	Timeout  time.Duration
	NewJobID func() string
	Now      func() time.Time
}

// Coordinator runs analysis jobs, one current job at a time.
type Coordinator struct {
	fetcher    Fetcher
	source     ProgressSource
	dispatcher Dispatcher

	logger   logging.Logger
	recorder Recorder
	tracer   trace.Tracer
	timeout  time.Duration
	newJobID func() string
	now      func() time.Time

	// generation is read without the lock by event callbacks.
	generation atomic.Uint64

	mu      sync.Mutex
	current *Job
	closed  bool
}

// NewCoordinator wires a coordinator. A nil source runs every job without
// progress.
func NewCoordinator(fetcher Fetcher, source ProgressSource, dispatcher Dispatcher, opts Options) *Coordinator {
	c := &Coordinator{
		fetcher:    fetcher,
		source:     source,
		dispatcher: dispatcher,
		logger:     opts.Logger,
		recorder:   opts.Recorder,
		tracer:     opts.Tracer,
		timeout:    opts.Timeout,
		newJobID:   opts.NewJobID,
		now:        opts.Now,
	}
	if c.source == nil {
		c.source = noProgress{}
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(TracerName)
	}
	if c.newJobID == nil {
		c.newJobID = uuid.NewString
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Generation returns the token of the most recently started job.
func (c *Coordinator) Generation() uint64 { return c.generation.Load() }

// StartJob validates sel and starts a job for it, superseding any job in
// flight. Validation failures are dispatched and returned without touching
// the network. The job runs in the background; StartJob returns once its
// start has been dispatched.
func (c *Coordinator) StartJob(ctx context.Context, sel analysis.Selection) (*Job, error) {
	if err := sel.Validate(); err != nil {
		c.dispatcher.Dispatch(ValidationFailedMsg{Generation: c.generation.Load(), Message: err.Error()})
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	gen := c.generation.Add(1)
	if prev := c.current; prev != nil {
		prev.supersede()
	}

	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	job := &Job{
		gen:       gen,
		id:        c.newJobID(),
		sel:       sel,
		startedAt: c.now(),
		cancel:    cancel,
		settled:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	c.current = job

	c.logger.Info("job started",
		logging.Uint64("generation", gen),
		logging.String("job_id", job.id),
		logging.String("region", string(sel.Region)),
		logging.String("technology", string(sel.Technology)))
	c.dispatcher.Dispatch(JobStartedMsg{Generation: gen, JobID: job.id, Selection: sel, At: job.startedAt})

	go c.run(ctx, job)
	return job, nil
}

// Close supersedes the current job and rejects further starts.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.generation.Add(1)
	if c.current != nil {
		c.current.supersede()
		c.current = nil
	}
}

func (c *Coordinator) isCurrent(gen uint64) bool {
	return c.generation.Load() == gen
}

func (c *Coordinator) run(ctx context.Context, job *Job) {
	ctx, span := c.tracer.Start(ctx, "analysis.job", trace.WithAttributes(
		attribute.String("analysis.region", string(job.sel.Region)),
		attribute.String("analysis.technology", string(job.sel.Technology)),
		attribute.Int64("analysis.generation", int64(job.gen)),
		attribute.String("analysis.job_id", job.id),
	))
	defer span.End()
	log := c.logger

	rec := progress.NewReconciler(job.id)
	sub, err := c.source.Subscribe(ctx, job.id, func(ev progress.Event) {
		if !c.isCurrent(job.gen) || !rec.Apply(ev) {
			return
		}
		c.dispatcher.Dispatch(ProgressMsg{Generation: job.gen, Event: ev})
	})
	if err != nil {
		if ctx.Err() == nil {
			c.recorder.Degraded()
			log.Warn("progress unavailable, continuing without it",
				logging.Uint64("generation", job.gen), logging.Err(err))
			span.AddEvent("progress.degraded")
		}
	} else {
		job.attach(sub)
	}
	close(job.settled)

	resp, err := c.fetcher.FetchProjects(ctx, job.id, job.sel)
	job.finalize()
	elapsed := c.now().Sub(job.startedAt)

	if !c.isCurrent(job.gen) {
		c.recorder.JobFinished(metrics.ResultSuperseded, elapsed)
		log.Debug("discarding superseded job outcome", logging.Uint64("generation", job.gen))
		span.SetAttributes(attribute.Bool("analysis.superseded", true))
		job.complete(ErrSuperseded)
		return
	}

	if err != nil {
		err = c.classify(ctx, err)
		c.recorder.JobFinished(metrics.ResultFailed, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("job failed", err,
			logging.Uint64("generation", job.gen), logging.Duration("elapsed", elapsed))
		c.dispatcher.Dispatch(JobFailedMsg{Generation: job.gen, Err: err, At: c.now()})
		job.complete(err)
		return
	}

	accepted, ignored := rec.Counts()
	c.recorder.JobFinished(metrics.ResultSucceeded, elapsed)
	log.Info("job succeeded",
		logging.Uint64("generation", job.gen),
		logging.Duration("elapsed", elapsed),
		logging.String("variant", resp.Variant.String()),
		logging.Int("progress_events", accepted),
		logging.Int("foreign_events", ignored))
	c.dispatcher.Dispatch(JobSucceededMsg{Generation: job.gen, Response: resp, At: c.now()})
	job.complete(nil)
}

// classify turns a deadline hit by the job's own timeout into a TimeoutError.
func (c *Coordinator) classify(ctx context.Context, err error) error {
	if c.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.TimeoutError{Operation: "analysis", Limit: c.timeout}
	}
	return err
}

// Job is a handle on one started job.
type Job struct {
	gen       uint64
	id        string
	sel       analysis.Selection
	startedAt time.Time
	cancel    context.CancelFunc

	mu         sync.Mutex
	sub        progress.Subscription
	superseded bool
	closeOnce  sync.Once
	// settled is closed once the subscription attempt has returned.
	settled chan struct{}

	done chan struct{}
	err  error
}

// Generation returns the job's generation token.
func (j *Job) Generation() uint64 { return j.gen }

// ID returns the job id sent to the service.
func (j *Job) ID() string { return j.id }

// Selection returns the selection the job runs for.
func (j *Job) Selection() analysis.Selection { return j.sel }

// Done is closed once the job's outcome is known.
func (j *Job) Done() <-chan struct{} { return j.done }

// Err returns the job's error after Done is closed: nil on success,
// ErrSuperseded when replaced, or the failure.
func (j *Job) Err() error {
	select {
	case <-j.done:
		return j.err
	default:
		return nil
	}
}

// Wait blocks until the job ends or ctx is done.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// attach records the job's subscription, closing it at once if the job was
// superseded while the subscription was opening.
func (j *Job) attach(sub progress.Subscription) {
	j.mu.Lock()
	if !j.superseded {
		j.sub = sub
		j.mu.Unlock()
		return
	}
	j.mu.Unlock()
	sub.Close()
}

// supersede cancels the job and returns only after its subscription, open
// or still opening, has been closed.
func (j *Job) supersede() {
	j.mu.Lock()
	j.superseded = true
	j.mu.Unlock()
	j.cancel()
	<-j.settled
	j.finalize()
}

// finalize closes the subscription exactly once.
func (j *Job) finalize() {
	j.closeOnce.Do(func() {
		j.mu.Lock()
		sub := j.sub
		j.sub = nil
		j.mu.Unlock()
		if sub != nil {
			sub.Close()
		}
	})
}

func (j *Job) complete(err error) {
	j.cancel()
	j.err = err
	close(j.done)
}
