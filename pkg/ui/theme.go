package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	// Colors
	Primary   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// Styles
	Base        lipgloss.Style // every tree row
	Selected    lipgloss.Style // patched over the selected row
	BorderStyle lipgloss.Style // block border
	Title       lipgloss.Style // block title in the tree border
	Status      lipgloss.Style
	StatusError lipgloss.Style
	FindBar     lipgloss.Style
	Preview     lipgloss.Style // preview pane frame
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Error:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Foreground(ThemeFg("#F8F8F2")).
		Bold(true)

	t.BorderStyle = r.NewStyle().Foreground(t.Border)
	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Status = r.NewStyle().Foreground(t.Muted)
	t.StatusError = r.NewStyle().Foreground(t.Error).Bold(true)
	t.FindBar = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Preview = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return t
}

// TestTheme returns a theme whose renderer writes no escape sequences.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(io.Discard))
}
