package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/epanalyzer/internal/format"
	"github.com/agbru/epanalyzer/internal/orchestration"
)

// Title is the dashboard heading.
const Title = "Energy Projects Analyzer"

// HeaderModel renders the top bar: title, version, job phase and elapsed time.
type HeaderModel struct {
	version string
	width   int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header for state s as seen at now.
func (h HeaderModel) View(s orchestration.JobState, now time.Time) string {
	titleText := Title
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	left := titleStyle.Render(titleText)

	right := phaseStyle(s.Phase).Render(strings.ToUpper(s.Phase.String()))
	if !s.StartedAt.IsZero() {
		right += versionStyle.Render(" | ") +
			elapsedStyle.Render("Elapsed: "+format.FormatClock(s.Elapsed(now)))
	}

	gap := max(h.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap) + right)
}

func phaseStyle(p orchestration.Phase) lipgloss.Style {
	switch p {
	case orchestration.PhaseLoading:
		return statusRunningStyle
	case orchestration.PhaseSucceeded:
		return statusDoneStyle
	case orchestration.PhaseFailed:
		return statusErrorStyle
	default:
		return statusIdleStyle
	}
}
