package progress

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/logging"
)

// ProgressPath is the service endpoint that streams progress events.
const ProgressPath = "/api/progress"

// Default reconnection settings.
const (
	DefaultReconnectRetries  = 5
	DefaultReconnectInterval = 250 * time.Millisecond
	DefaultReconnectMax      = 5 * time.Second
)

// SSEOptions configures an SSESource.
type SSEOptions struct {
	// Client performs the streaming requests. It must not set a Timeout.
	Client *http.Client
	Logger logging.Logger
	// Observer is notified of received and dropped events and of reconnects.
	Observer Observer
	// ReconnectRetries bounds the reconnection attempts after a dropped
	// stream. Zero disables reconnection.
	ReconnectRetries int
	// ReconnectInterval is the first backoff delay.
	ReconnectInterval time.Duration
	// ReconnectMax caps the backoff delay.
	ReconnectMax time.Duration
}

// SSESource subscribes to the service's server-sent event stream.
type SSESource struct {
	endpoint *url.URL
	opts     SSEOptions
	// dropLog throttles warnings about malformed events.
	dropLog *rate.Sometimes
}

// NewSSESource returns a source reading {baseURL}/api/progress.
func NewSSESource(baseURL string, opts SSEOptions) (*SSESource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + ProgressPath)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.NewConfigError("invalid progress base URL %q", baseURL)
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.ReconnectRetries < 0 {
		opts.ReconnectRetries = 0
	}
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = DefaultReconnectInterval
	}
	if opts.ReconnectMax <= 0 {
		opts.ReconnectMax = DefaultReconnectMax
	}
	return &SSESource{
		endpoint: u,
		opts:     opts,
		dropLog:  &rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}, nil
}

// Subscribe connects to the stream and returns once the service has
// accepted it. Events are then delivered from a background goroutine until
// Close is called or ctx is done.
func (s *SSESource) Subscribe(ctx context.Context, jobID string, onEvent func(Event)) (Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	body, err := s.connect(subCtx, jobID)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &sseSubscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		s.run(subCtx, jobID, body, onEvent, sub)
	}()
	return sub, nil
}

func (s *SSESource) connect(ctx context.Context, jobID string) (io.ReadCloser, error) {
	u := *s.endpoint
	if jobID != "" {
		q := u.Query()
		q.Set("job_id", jobID)
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if jobID != "" {
		req.Header.Set("X-Job-ID", jobID)
	}

	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return nil, apperrors.TransportError{Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, apperrors.TransportError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return resp.Body, nil
}

// run reads the stream, reconnecting after drops until retries run out.
func (s *SSESource) run(ctx context.Context, jobID string, body io.ReadCloser, onEvent func(Event), sub *sseSubscription) {
	log := s.opts.Logger
	for {
		err := s.read(ctx, body, onEvent)
		body.Close()
		if ctx.Err() != nil {
			return
		}
		log.Debug("progress stream dropped", logging.String("job_id", jobID), logging.Err(err))

		body = s.reconnect(ctx, jobID)
		if body == nil {
			if ctx.Err() == nil {
				sub.degraded.Store(true)
				s.opts.Observer.Degraded()
				log.Warn("progress stream lost, continuing without progress",
					logging.String("job_id", jobID), logging.Int("retries", s.opts.ReconnectRetries))
			}
			return
		}
		s.opts.Observer.Reconnected()
	}
}

func (s *SSESource) reconnect(ctx context.Context, jobID string) io.ReadCloser {
	if s.opts.ReconnectRetries == 0 {
		return nil
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.opts.ReconnectInterval
	policy.MaxInterval = s.opts.ReconnectMax
	policy.MaxElapsedTime = 0

	var body io.ReadCloser
	op := func() error {
		b, err := s.connect(ctx, jobID)
		if err != nil {
			return err
		}
		body = b
		return nil
	}
	notify := func(err error, wait time.Duration) {
		s.opts.Logger.Debug("progress reconnect failed",
			logging.String("job_id", jobID), logging.Err(err), logging.Duration("wait", wait))
	}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.opts.ReconnectRetries)), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil
	}
	return body
}

// read parses server-sent event framing: data lines accumulate, a blank
// line dispatches, comment lines and other fields are ignored.
func (s *SSESource) read(ctx context.Context, body io.Reader, onEvent func(Event)) error {
	r := bufio.NewReader(body)
	var data []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if len(data) > 0 {
				s.dispatch(ctx, strings.Join(data, "\n"), onEvent)
				data = data[:0]
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "data":
			data = append(data, "")
		}
	}
}

func (s *SSESource) dispatch(ctx context.Context, payload string, onEvent func(Event)) {
	if ctx.Err() != nil {
		return
	}
	ev, err := ParseEvent(payload)
	if err != nil {
		s.opts.Observer.EventDropped()
		s.dropLog.Do(func() {
			s.opts.Logger.Warn("dropping malformed progress event", logging.Err(err))
		})
		return
	}
	s.opts.Observer.EventReceived(ev.Step)
	onEvent(ev)
}

// String describes the source for logs.
func (s *SSESource) String() string {
	return fmt.Sprintf("sse(%s)", s.endpoint.Redacted())
}

type sseSubscription struct {
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
	degraded atomic.Bool
}

// Close cancels the stream and waits for the reader goroutine to exit.
func (s *sseSubscription) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Degraded reports whether the stream was abandoned after failed reconnects.
func (s *sseSubscription) Degraded() bool {
	return s.degraded.Load()
}

// Done is closed when the reader goroutine exits.
func (s *sseSubscription) Done() <-chan struct{} {
	return s.done
}
