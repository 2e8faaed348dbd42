package tui

import "time"

// sparkBlocks maps levels 0..7 to the block elements ▁▂▃▄▅▆▇█.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// DurationHistory keeps the most recent job durations, oldest first once
// read back.
type DurationHistory struct {
	samples []time.Duration
	head    int
	count   int
}

// NewDurationHistory returns a history holding up to capacity samples.
func NewDurationHistory(capacity int) *DurationHistory {
	if capacity <= 0 {
		capacity = 1
	}
	return &DurationHistory{samples: make([]time.Duration, capacity)}
}

// Add records d, evicting the oldest sample when full.
func (h *DurationHistory) Add(d time.Duration) {
	h.samples[h.head] = d
	h.head = (h.head + 1) % len(h.samples)
	if h.count < len(h.samples) {
		h.count++
	}
}

// Len returns the number of recorded samples.
func (h *DurationHistory) Len() int { return h.count }

// Last returns the newest sample, or 0 when empty.
func (h *DurationHistory) Last() time.Duration {
	if h.count == 0 {
		return 0
	}
	return h.samples[(h.head-1+len(h.samples))%len(h.samples)]
}

// Values returns the samples in chronological order.
func (h *DurationHistory) Values() []time.Duration {
	if h.count == 0 {
		return nil
	}
	out := make([]time.Duration, h.count)
	start := (h.head - h.count + len(h.samples)) % len(h.samples)
	for i := range h.count {
		out[i] = h.samples[(start+i)%len(h.samples)]
	}
	return out
}

// Max returns the longest recorded sample.
func (h *DurationHistory) Max() time.Duration {
	var m time.Duration
	for _, d := range h.Values() {
		m = max(m, d)
	}
	return m
}

// RenderSparkline draws one block per duration, scaled to the longest one.
// A series of zero durations renders at the lowest level.
func RenderSparkline(values []time.Duration) string {
	if len(values) == 0 {
		return ""
	}
	var peak time.Duration
	for _, v := range values {
		peak = max(peak, v)
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		level := 0
		if peak > 0 && v > 0 {
			level = int(float64(v) / float64(peak) * 7)
		}
		runes[i] = sparkBlocks[min(max(level, 0), 7)]
	}
	return string(runes)
}
