// Package view turns a JobState into a ViewModel: plain data that the CLI
// and TUI renderers draw without further decisions. Present is pure.
package view
