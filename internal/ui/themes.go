package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette used for line-oriented output: the rendered
// analysis, the REPL and the CLI banners. Each field holds an ANSI escape
// code for one role of the rendered result.
type Theme struct {
	// Name identifies the theme on the command line.
	Name string
	// Heading colors report titles such as "Analysis Summary".
	Heading string
	// Country colors country section headings and source groups.
	Country string
	// Project colors project card titles.
	Project string
	// Label colors card field labels and REPL command names.
	Label string
	// Link colors URLs: the service address, Read More targets, saved files.
	Link string
	// Success marks completed actions and the REPL prompt.
	Success string
	// Notice marks validation messages and cancellations.
	Notice string
	// Error marks failures.
	Error string
	// Muted is used for rules, borders and secondary values.
	Muted string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string
}

const (
	bold      = "\033[1m"
	underline = "\033[4m"
	reset     = "\033[0m"
)

var (
	// DarkTheme is the default: greens for renewables with amber countries,
	// tuned for dark backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Heading:   "\033[38;5;71m",  // Leaf green
		Country:   "\033[38;5;214m", // Amber
		Project:   "\033[38;5;114m", // Light green
		Label:     "\033[38;5;110m", // Steel blue
		Link:      "\033[38;5;39m",  // Sky blue
		Success:   "\033[38;5;82m",  // Bright green
		Notice:    "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Muted:     "\033[38;5;244m", // Grey
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
	}

	// LightTheme keeps the same roles in darker tones for light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Heading:   "\033[38;5;22m",  // Forest green
		Country:   "\033[38;5;130m", // Burnt orange
		Project:   "\033[38;5;28m",  // Green
		Label:     "\033[38;5;24m",  // Navy
		Link:      "\033[38;5;26m",  // Blue
		Success:   "\033[38;5;28m",  // Green
		Notice:    "\033[38;5;136m", // Dark yellow
		Error:     "\033[38;5;124m", // Dark red
		Muted:     "\033[38;5;242m", // Dark grey
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
	}

	// SolarTheme is a warm dark theme built around sunlight yellows.
	SolarTheme = Theme{
		Name:      "solar",
		Heading:   "\033[38;5;220m", // Sun yellow
		Country:   "\033[38;5;208m", // Orange
		Project:   "\033[38;5;229m", // Pale yellow
		Label:     "\033[38;5;180m", // Sand
		Link:      "\033[38;5;75m",  // Sky
		Success:   "\033[38;5;148m", // Lime
		Notice:    "\033[38;5;214m", // Amber
		Error:     "\033[38;5;160m", // Red
		Muted:     "\033[38;5;243m", // Grey
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
	}

	// NoColorTheme disables all escape codes. Used for --no-color and NO_COLOR.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		SolarTheme.Name:   SolarTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// ThemeNames lists the accepted --theme values in display order.
func ThemeNames() []string {
	return []string{DarkTheme.Name, LightTheme.Name, SolarTheme.Name, NoColorTheme.Name}
}

// TUITheme holds lipgloss colors for the dashboard.
type TUITheme struct {
	// Text is the body text of cards and panels.
	Text lipgloss.TerminalColor
	// Border outlines the controls and results panels.
	Border lipgloss.TerminalColor
	// Accent colors titles, headings and the progress bar.
	Accent lipgloss.TerminalColor
	// Selected highlights the focused option of a selector.
	Selected lipgloss.TerminalColor
	// Success marks a succeeded job.
	Success lipgloss.TerminalColor
	// Warning marks validation notices.
	Warning lipgloss.TerminalColor
	// Error marks failures.
	Error lipgloss.TerminalColor
	// Dim is used for help text and secondary values.
	Dim lipgloss.TerminalColor
	// Link colors source URLs.
	Link lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default dashboard palette.
	DarkTUITheme = TUITheme{
		Text:     lipgloss.Color("#E0E0E0"),
		Border:   lipgloss.Color("#2E7D32"),
		Accent:   lipgloss.Color("#66BB6A"),
		Selected: lipgloss.Color("#FFD54F"),
		Success:  lipgloss.Color("#9ECE6A"),
		Warning:  lipgloss.Color("#FFB347"),
		Error:    lipgloss.Color("#FF4444"),
		Dim:      lipgloss.Color("#777777"),
		Link:     lipgloss.Color("#4FC3F7"),
	}

	// LightTUITheme suits light terminal backgrounds.
	LightTUITheme = TUITheme{
		Text:     lipgloss.Color("#212121"),
		Border:   lipgloss.Color("#1B5E20"),
		Accent:   lipgloss.Color("#2E7D32"),
		Selected: lipgloss.Color("#E65100"),
		Success:  lipgloss.Color("#33691E"),
		Warning:  lipgloss.Color("#BF6A00"),
		Error:    lipgloss.Color("#C62828"),
		Dim:      lipgloss.Color("#616161"),
		Link:     lipgloss.Color("#1565C0"),
	}

	// SolarTUITheme pairs with SolarTheme.
	SolarTUITheme = TUITheme{
		Text:     lipgloss.Color("#F5F0E1"),
		Border:   lipgloss.Color("#F9A825"),
		Accent:   lipgloss.Color("#FFD54F"),
		Selected: lipgloss.Color("#FF8F00"),
		Success:  lipgloss.Color("#C0CA33"),
		Warning:  lipgloss.Color("#FFB300"),
		Error:    lipgloss.Color("#E53935"),
		Dim:      lipgloss.Color("#8D8D8D"),
		Link:     lipgloss.Color("#64B5F6"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:     lipgloss.NoColor{},
		Border:   lipgloss.NoColor{},
		Accent:   lipgloss.NoColor{},
		Selected: lipgloss.NoColor{},
		Success:  lipgloss.NoColor{},
		Warning:  lipgloss.NoColor{},
		Error:    lipgloss.NoColor{},
		Dim:      lipgloss.NoColor{},
		Link:     lipgloss.NoColor{},
	}

	tuiThemes = map[string]TUITheme{
		DarkTheme.Name:    DarkTUITheme,
		LightTheme.Name:   LightTUITheme,
		SolarTheme.Name:   SolarTUITheme,
		NoColorTheme.Name: NoColorTUITheme,
	}
)

// GetCurrentTUITheme returns the dashboard palette paired with the active
// theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if t, ok := tuiThemes[currentTheme.Name]; ok {
		return t
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// ValidTheme reports whether name is a known theme.
func ValidTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// SetTheme activates a theme by name. Unknown names select DarkTheme.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if t, ok := themes[name]; ok {
		currentTheme = t
		return
	}
	currentTheme = DarkTheme
}

// InitTheme selects the theme at startup. noColor and the NO_COLOR
// environment variable (https://no-color.org/) both disable colors and
// take precedence over name.
func InitTheme(name string, noColor bool) {
	if noColor {
		SetTheme(NoColorTheme.Name)
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		SetTheme(NoColorTheme.Name)
		return
	}
	SetTheme(name)
}
