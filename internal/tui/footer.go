package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel shows the key bindings and the session statistics.
type FooterModel struct {
	help  help.Model
	width int
}

// NewFooterModel creates a footer with short help.
func NewFooterModel() FooterModel {
	h := help.New()
	h.ShortSeparator = "  "
	return FooterModel{help: h}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// ToggleFull switches between short and full help.
func (f *FooterModel) ToggleFull() {
	f.help.ShowAll = !f.help.ShowAll
}

// View renders the session line above the key help.
func (f FooterModel) View(keys KeyMap, session SessionModel) string {
	session.SetWidth(f.width)
	return lipgloss.JoinVertical(lipgloss.Left,
		" "+session.View(),
		" "+f.help.View(keys),
	)
}
