package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps estimates derived from very slow progress.
const maxETA = 24 * time.Hour

// ProgressWithETA estimates the remaining time of a job from the fraction
// completed so far. It is not safe for concurrent use.
type ProgressWithETA struct {
	startTime    time.Time
	progress     float64
	progressRate float64 // fraction per second since start
	now          func() time.Time
}

// NewProgressWithETA starts tracking at the current time.
func NewProgressWithETA() *ProgressWithETA {
	return newProgressWithClock(time.Now)
}

func newProgressWithClock(now func() time.Time) *ProgressWithETA {
	return &ProgressWithETA{startTime: now(), now: now}
}

// Update records the completed fraction, clamped to [0, 1], and returns it
// with the current estimate.
func (p *ProgressWithETA) Update(progress float64) (float64, time.Duration) {
	p.progress = clamp(progress)
	if elapsed := p.now().Sub(p.startTime).Seconds(); elapsed > 0 {
		p.progressRate = p.progress / elapsed
	}
	return p.progress, p.GetETA()
}

// Progress returns the last recorded fraction.
func (p *ProgressWithETA) Progress() float64 { return p.progress }

// GetETA returns the estimated remaining time, or 0 while no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 || p.progress >= 1 {
		return 0
	}
	seconds := (1 - p.progress) / p.progressRate
	if seconds > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
}

// FormatETA renders an estimate compactly: "45s", "2m30s", "1h15m".
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}
	eta = eta.Round(time.Second)
	h := int(eta.Hours())
	m := int(eta.Minutes()) % 60
	s := int(eta.Seconds()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatProgressBarWithETA renders "[█████░░░░░]  50.0% ETA: 30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp(progress)*100, FormatETA(eta))
}

// ProgressBar returns a bar of length runes, filled in proportion to progress.
func ProgressBar(progress float64, length int) string {
	count := int(clamp(progress) * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
