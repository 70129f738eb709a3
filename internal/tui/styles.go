// Package tui is the terminal front end: the room registration wizard and
// the location search bar.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#FF385C", Dark: "#FF5A76"}
	muted  = lipgloss.AdaptiveColor{Light: "#717171", Dark: "#9A9A9A"}
	danger = lipgloss.Color("#E53935")
	ok     = lipgloss.Color("#2E7D32")
)

type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Box      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Label:    lipgloss.NewStyle().Width(18),
		Focused:  lipgloss.NewStyle().Width(18).Bold(true).Foreground(accent),
		Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(danger),
		Success:  lipgloss.NewStyle().Foreground(ok).Bold(true),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}
