package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ------- styling helpers (Lip Gloss) -------
var (
	titleStyle    lipgloss.Style
	successStyle  lipgloss.Style
	pendingStyle  lipgloss.Style
	accentStyle   lipgloss.Style
	mutedStyle    lipgloss.Style
	errorStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	helpStyle     lipgloss.Style
	borderColor   lipgloss.Color
)

func init() { SetTheme("classic") }

// SetTheme picks the palette. "mono" drops every color.
func SetTheme(name string) {
	plain := lipgloss.NewStyle()
	switch strings.ToLower(name) {
	case "mono":
		titleStyle = plain.Bold(true)
		successStyle, pendingStyle, accentStyle = plain, plain, plain
		mutedStyle, helpStyle = plain, plain
		errorStyle = plain.Bold(true)
		selectedStyle = plain.Bold(true)
		borderColor = ""
	case "neon":
		titleStyle = plain.Bold(true).Foreground(lipgloss.Color("13"))
		successStyle = plain.Foreground(lipgloss.Color("10"))
		pendingStyle = plain.Foreground(lipgloss.Color("11"))
		accentStyle = plain.Foreground(lipgloss.Color("14"))
		mutedStyle = plain.Faint(true)
		errorStyle = plain.Foreground(lipgloss.Color("9")).Bold(true)
		selectedStyle = plain.Bold(true).Foreground(lipgloss.Color("13"))
		helpStyle = plain.Faint(true)
		borderColor = lipgloss.Color("13")
	default:
		titleStyle = plain.Bold(true)
		successStyle = plain.Foreground(lipgloss.Color("42"))
		pendingStyle = plain.Foreground(lipgloss.Color("214"))
		accentStyle = plain.Foreground(lipgloss.Color("12"))
		mutedStyle = plain.Faint(true)
		errorStyle = plain.Foreground(lipgloss.Color("9")).Bold(true)
		selectedStyle = plain.Bold(true).Reverse(true)
		helpStyle = plain.Faint(true)
		borderColor = lipgloss.Color("8")
	}
}

func box() lipgloss.Style {
	s := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if borderColor != "" {
		s = s.BorderForeground(borderColor)
	}
	return s
}

func panelString(inner string) string { return box().Render(inner) }
