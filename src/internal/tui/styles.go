// Package tui renders the human-facing views of the plugin (tables, boxes)
// with lipgloss. Protocol commands never use it.
package tui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Lazy initialization to avoid cold start penalty from lipgloss terminal detection
var (
	initOnce sync.Once

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorSuccess   lipgloss.Color
	colorMuted     lipgloss.Color

	StyleVersion lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleInfoBox lipgloss.Style

	StyleTableTitle     lipgloss.Style
	StyleTableHeader    lipgloss.Style
	StyleTableCell      lipgloss.Style
	StyleTableRowActive lipgloss.Style
	StyleTableBorder    lipgloss.Style
)

func initStyles() {
	initOnce.Do(func() {
		// Force TrueColor profile to skip slow terminal capability detection
		// See: https://github.com/charmbracelet/lipgloss/issues/86
		lipgloss.SetColorProfile(termenv.TrueColor)

		colorPrimary = lipgloss.Color("39")    // Cyan
		colorSecondary = lipgloss.Color("213") // Magenta
		colorSuccess = lipgloss.Color("42")    // Green
		colorMuted = lipgloss.Color("245")     // Gray

		StyleVersion = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

		StyleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

		StyleInfoBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

		StyleTableTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

		StyleTableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingRight(2)

		StyleTableCell = lipgloss.NewStyle().
			PaddingRight(2)

		StyleTableRowActive = StyleTableCell.
			Foreground(colorSuccess)

		StyleTableBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	})
}

// RenderVersion renders a version string with styling
func RenderVersion(version string) string {
	initStyles()
	return StyleVersion.Render(version)
}

// RenderInfoBox renders content in an info-styled box
func RenderInfoBox(content string) string {
	initStyles()
	return StyleInfoBox.Render(content)
}
