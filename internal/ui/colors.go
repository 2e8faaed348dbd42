package ui

// Color accessors return the escape code of the active theme, so callers
// automatically honor --no-color and NO_COLOR.

// ColorReset clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorBold starts bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline starts underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

func ColorHeading() string { return GetCurrentTheme().Heading }
func ColorCountry() string { return GetCurrentTheme().Country }
func ColorProject() string { return GetCurrentTheme().Project }
func ColorLabel() string   { return GetCurrentTheme().Label }
func ColorLink() string    { return GetCurrentTheme().Link }
func ColorSuccess() string { return GetCurrentTheme().Success }
func ColorNotice() string  { return GetCurrentTheme().Notice }
func ColorError() string   { return GetCurrentTheme().Error }
func ColorMuted() string   { return GetCurrentTheme().Muted }

// Colorize wraps s in the given color and a reset.
func Colorize(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + ColorReset()
}
