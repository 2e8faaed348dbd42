package tui

import (
	"strings"

	"github.com/agbru/epanalyzer/internal/analysis"
)

// SelectorModel cycles through a fixed option catalog. It starts with no
// option selected unless one is preset.
type SelectorModel[T ~string] struct {
	label   string
	options []analysis.Option[T]
	// index is -1 while nothing is selected.
	index int
}

// NewSelector returns a selector over options with preset selected when it
// is part of the catalog.
func NewSelector[T ~string](label string, options []analysis.Option[T], preset T) SelectorModel[T] {
	s := SelectorModel[T]{label: label, options: options, index: -1}
	for i, o := range options {
		if o.ID == preset {
			s.index = i
		}
	}
	return s
}

// Next selects the following option, wrapping around.
func (s *SelectorModel[T]) Next() {
	if len(s.options) > 0 {
		s.index = (s.index + 1) % len(s.options)
	}
}

// Prev selects the preceding option, wrapping around.
func (s *SelectorModel[T]) Prev() {
	if len(s.options) == 0 {
		return
	}
	if s.index <= 0 {
		s.index = len(s.options) - 1
		return
	}
	s.index--
}

// Value returns the selected ID, or "" when nothing is selected.
func (s SelectorModel[T]) Value() T {
	if s.index < 0 {
		return ""
	}
	return s.options[s.index].ID
}

// View renders the selector, highlighted when focused.
func (s SelectorModel[T]) View(focused bool) string {
	choice := "Select " + strings.ToLower(s.label)
	if s.index >= 0 {
		o := s.options[s.index]
		choice = o.Icon + " " + o.Name
	}
	label := selectorLabelStyle.Render(s.label + ":")
	if focused {
		return label + " " + selectorFocusedStyle.Render("◀ "+choice+" ▶")
	}
	return label + " " + selectorStyle.Render("  "+choice+"  ")
}
