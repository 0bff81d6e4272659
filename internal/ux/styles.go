package ux

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Success renders a green checkmark line.
func Success(format string, args ...any) string {
	return successStyle.Render("✓") + " " + fmt.Sprintf(format, args...)
}

// Warn renders a yellow warning line.
func Warn(format string, args ...any) string {
	return warnStyle.Render("!") + " " + fmt.Sprintf(format, args...)
}

// Fail renders a red failure line.
func Fail(format string, args ...any) string {
	return errorStyle.Render("✗") + " " + fmt.Sprintf(format, args...)
}

// Bullet renders an indented list item.
func Bullet(format string, args ...any) string {
	return "  " + accentStyle.Render("•") + " " + fmt.Sprintf(format, args...)
}

// Heading renders a section heading.
func Heading(text string) string {
	return accentStyle.Bold(true).Render(text)
}

// Dim renders secondary detail text.
func Dim(text string) string {
	return dimStyle.Render(text)
}
