// SPDX-License-Identifier: EPL-2.0

package ui

import "github.com/charmbracelet/lipgloss"

// Palette in standard ANSI colors so it follows the terminal theme.
var (
	colorBorder = lipgloss.ANSIColor(8)  // bright black
	colorTitle  = lipgloss.ANSIColor(10) // bright green
	colorText   = lipgloss.ANSIColor(7)  // white
	colorDim    = lipgloss.ANSIColor(8)
	colorAccent = lipgloss.ANSIColor(11) // bright yellow
	colorError  = lipgloss.ANSIColor(9)  // bright red

	levelLow  = lipgloss.ANSIColor(10)
	levelMid  = lipgloss.ANSIColor(11)
	levelHigh = lipgloss.ANSIColor(9)
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(panelWidth + 6)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true)

	trackStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	fillStyle = lipgloss.NewStyle().Foreground(colorAccent)

	errorStyle = lipgloss.NewStyle().Foreground(colorError)

	lowStyle  = lipgloss.NewStyle().Foreground(levelLow)
	midStyle  = lipgloss.NewStyle().Foreground(levelMid)
	highStyle = lipgloss.NewStyle().Foreground(levelHigh)
)

func levelStyle(level float64) lipgloss.Style {
	switch {
	case level > 0.75:
		return highStyle
	case level > 0.45:
		return midStyle
	default:
		return lowStyle
	}
}
