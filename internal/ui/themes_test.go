package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// These tests mutate the global theme and must not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		name string
		want string
	}{
		{"light", "light"},
		{"solar", "solar"},
		{"none", "none"},
		{"neon", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) -> %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	t.Run("flag disables colors", func(t *testing.T) {
		InitTheme("light", true)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("theme = %q, want none", GetCurrentTheme().Name)
		}
		if ColorSuccess() != "" || ColorReset() != "" {
			t.Error("no-color theme must not emit escape codes")
		}
	})

	t.Run("NO_COLOR disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme("solar", false)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("theme = %q, want none", GetCurrentTheme().Name)
		}
	})

	t.Run("named theme", func(t *testing.T) {
		InitTheme("solar", false)
		if GetCurrentTheme().Name != "solar" {
			t.Errorf("theme = %q, want solar", GetCurrentTheme().Name)
		}
		if ColorHeading() != SolarTheme.Heading {
			t.Errorf("ColorHeading = %q, want the solar heading", ColorHeading())
		}
	})
}

func TestRoleAccessors(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	SetCurrentTheme(DarkTheme)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"heading", ColorHeading(), DarkTheme.Heading},
		{"country", ColorCountry(), DarkTheme.Country},
		{"project", ColorProject(), DarkTheme.Project},
		{"label", ColorLabel(), DarkTheme.Label},
		{"link", ColorLink(), DarkTheme.Link},
		{"success", ColorSuccess(), DarkTheme.Success},
		{"notice", ColorNotice(), DarkTheme.Notice},
		{"error", ColorError(), DarkTheme.Error},
		{"muted", ColorMuted(), DarkTheme.Muted},
	}
	for _, tt := range tests {
		if tt.got != tt.want || tt.got == "" {
			t.Errorf("%s color = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestGetCurrentTUITheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		theme Theme
		want  TUITheme
	}{
		{DarkTheme, DarkTUITheme},
		{LightTheme, LightTUITheme},
		{SolarTheme, SolarTUITheme},
		{Theme{Name: "custom"}, DarkTUITheme},
	}
	for _, tt := range tests {
		SetCurrentTheme(tt.theme)
		if got := GetCurrentTUITheme(); got != tt.want {
			t.Errorf("TUI theme for %q = %+v, want %+v", tt.theme.Name, got, tt.want)
		}
	}

	SetCurrentTheme(NoColorTheme)
	if _, ok := GetCurrentTUITheme().Accent.(lipgloss.NoColor); !ok {
		t.Error("no-color TUI theme should use lipgloss.NoColor")
	}
}

func TestColorize(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	SetCurrentTheme(DarkTheme)

	if got := Colorize("", "plain"); got != "plain" {
		t.Errorf("Colorize without color = %q", got)
	}
	if got := Colorize(ColorError(), "x"); got != DarkTheme.Error+"x"+DarkTheme.Reset {
		t.Errorf("Colorize = %q", got)
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(themes) {
		t.Fatalf("ThemeNames() = %v, want every registered theme", names)
	}
	for _, name := range names {
		if !ValidTheme(name) {
			t.Errorf("%q should be valid", name)
		}
	}
	if ValidTheme("neon") {
		t.Error("neon should be invalid")
	}
}
