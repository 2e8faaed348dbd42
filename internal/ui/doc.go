// Package ui holds the color themes shared by the CLI renderer and the
// dashboard. The active theme is chosen once at startup by InitTheme; the
// none theme produces plain text for --no-color and NO_COLOR.
package ui
