// Package ui provides the terminal dashboard.
package ui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"dayboard/internal/timeutil"
)

// unicodeSupported caches whether the terminal supports Unicode.
// Initialized once on first call to SupportsUnicode().
var (
	unicodeSupported     bool
	unicodeSupportedOnce sync.Once
)

// SupportsUnicode returns true if the terminal likely supports Unicode
// characters, based on the locale environment variables.
func SupportsUnicode() bool {
	unicodeSupportedOnce.Do(func() {
		for _, envVar := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
			val := strings.ToLower(os.Getenv(envVar))
			if strings.Contains(val, "utf-8") || strings.Contains(val, "utf8") {
				unicodeSupported = true
				return
			}
		}
		unicodeSupported = false
	})
	return unicodeSupported
}

// Icon returns the appropriate icon based on terminal Unicode support.
func Icon(unicodeIcon, asciiIcon string) string {
	if SupportsUnicode() {
		return unicodeIcon
	}
	return asciiIcon
}

// IconDone returns the completed-todo checkbox.
func IconDone() string { return Icon("✓", "x") }

// IconOpen returns the open-todo checkbox.
func IconOpen() string { return Icon("◦", "o") }

// IconAllDay returns the all-day event marker.
func IconAllDay() string { return Icon("☀", "*") }

// Colors (OneDark palette)
var (
	ColorPrimary   = lipgloss.Color("#61AFEF") // Soft blue
	ColorSecondary = lipgloss.Color("#56B6C2") // Cyan
	ColorSuccess   = lipgloss.Color("#98C379") // Green
	ColorWarning   = lipgloss.Color("#E5C07B") // Yellow
	ColorError     = lipgloss.Color("#E06C75") // Red
	ColorMuted     = lipgloss.Color("#5C6370") // Gray
	ColorAccent    = lipgloss.Color("#C678DD") // Purple
	ColorOrange    = lipgloss.Color("#D19A66") // Orange
)

// Base styles
var (
	Bold     = lipgloss.NewStyle().Bold(true)
	Dim      = lipgloss.NewStyle().Foreground(ColorMuted)
	Title    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	Subtitle = lipgloss.NewStyle().Foreground(ColorSecondary)

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)

	FocusedBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	ListItem = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedListItem = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(ColorPrimary).
				Bold(true)

	HelpBar = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(1, 0)
)

// Urgency colors keyed by classification level.
var urgencyColors = map[timeutil.UrgencyLevel]lipgloss.Color{
	timeutil.UrgencyPast:     ColorMuted,
	timeutil.UrgencyCritical: ColorError,
	timeutil.UrgencyWarning:  ColorOrange,
	timeutil.UrgencyNormal:   ColorWarning,
	timeutil.UrgencyFuture:   ColorSuccess,
}

// UrgencyStyle returns the style for a deadline's urgency level.
func UrgencyStyle(level timeutil.UrgencyLevel) lipgloss.Style {
	color, ok := urgencyColors[level]
	if !ok {
		color = ColorMuted
	}
	return lipgloss.NewStyle().Foreground(color)
}

// Countdown tone colors, hottest to coolest.
var toneColors = map[timeutil.CountdownTone]lipgloss.Color{
	timeutil.ToneFaded:     ColorMuted,
	timeutil.ToneImmediate: ColorError,
	timeutil.ToneNear:      ColorOrange,
	timeutil.ToneMid:       ColorWarning,
	timeutil.ToneFar:       ColorSecondary,
	timeutil.ToneDistant:   ColorPrimary,
}

// ToneStyle returns the style for a holiday countdown tone.
func ToneStyle(tone timeutil.CountdownTone) lipgloss.Style {
	color, ok := toneColors[tone]
	if !ok {
		color = ColorMuted
	}
	return lipgloss.NewStyle().Foreground(color)
}
