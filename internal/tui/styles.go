package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/epanalyzer/internal/ui"
)

// Style variables for the TUI dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle           lipgloss.Style
	headerStyle          lipgloss.Style
	titleStyle           lipgloss.Style
	versionStyle         lipgloss.Style
	elapsedStyle         lipgloss.Style
	selectorLabelStyle   lipgloss.Style
	selectorStyle        lipgloss.Style
	selectorFocusedStyle lipgloss.Style
	buttonStyle          lipgloss.Style
	buttonDisabledStyle  lipgloss.Style
	progressStyle        lipgloss.Style
	errorStyle           lipgloss.Style
	noticeStyle          lipgloss.Style
	sectionStyle         lipgloss.Style
	cardTitleStyle       lipgloss.Style
	fieldLabelStyle      lipgloss.Style
	linkStyle            lipgloss.Style
	dimStyle             lipgloss.Style
	metricLabelStyle     lipgloss.Style
	metricValueStyle     lipgloss.Style
	sparklineStyle       lipgloss.Style
	statusIdleStyle      lipgloss.Style
	statusRunningStyle   lipgloss.Style
	statusDoneStyle      lipgloss.Style
	statusErrorStyle     lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	versionStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)

	selectorLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	selectorStyle = lipgloss.NewStyle().Foreground(t.Text)
	selectorFocusedStyle = lipgloss.NewStyle().Foreground(t.Selected).Bold(true)

	buttonStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, true)
	buttonDisabledStyle = buttonStyle.Foreground(t.Dim)

	progressStyle = lipgloss.NewStyle().Foreground(t.Accent)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)

	sectionStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	cardTitleStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	fieldLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	linkStyle = lipgloss.NewStyle().Foreground(t.Link).Underline(true)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)

	metricLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	metricValueStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	sparklineStyle = lipgloss.NewStyle().Foreground(t.Accent)

	statusIdleStyle = lipgloss.NewStyle().Foreground(t.Dim).Bold(true)
	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}
