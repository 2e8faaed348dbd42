package server

import (
	"sync"
	"sync/atomic"

	"github.com/agbru/epanalyzer/internal/progress"
)

// DefaultHubBuffer is the per-subscriber queue length.
const DefaultHubBuffer = 64

// Hub fans progress events out to stream subscribers. A subscriber whose
// queue is full loses the event; publishers never block.
type Hub struct {
	mu      sync.Mutex
	subs    map[*HubSubscription]struct{}
	buffer  int
	dropped atomic.Uint64
}

// NewHub returns a hub with the given per-subscriber buffer.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultHubBuffer
	}
	return &Hub{subs: make(map[*HubSubscription]struct{}), buffer: buffer}
}

// HubSubscription receives events published after it was created.
type HubSubscription struct {
	hub   *Hub
	jobID string
	ch    chan progress.Event
	once  sync.Once
}

// Subscribe registers a subscriber. A non-empty jobID restricts delivery
// to events of that job and untagged events.
func (h *Hub) Subscribe(jobID string) *HubSubscription {
	s := &HubSubscription{hub: h, jobID: jobID, ch: make(chan progress.Event, h.buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Publish delivers ev to every matching subscriber and returns how many
// received it.
func (h *Hub) Publish(ev progress.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for s := range h.subs {
		if !s.accepts(ev) {
			continue
		}
		select {
		case s.ch <- ev:
			delivered++
		default:
			h.dropped.Add(1)
		}
	}
	return delivered
}

// Len returns the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were lost to full queues.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Events returns the delivery channel. It is closed by Close.
func (s *HubSubscription) Events() <-chan progress.Event { return s.ch }

// Close unregisters the subscriber. It is safe to call more than once.
func (s *HubSubscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}

func (s *HubSubscription) accepts(ev progress.Event) bool {
	return s.jobID == "" || ev.JobID == "" || ev.JobID == s.jobID
}
