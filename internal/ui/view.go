// SPDX-License-Identifier: EPL-2.0

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/audreact"
)

const (
	panelWidth = 60
	meterWidth = 40
)

var barBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		titleStyle.Render("audreact"),
		trackStyle.Render(m.opts.Title),
		"",
		m.renderProgress(),
		"",
	}

	if len(m.opts.Sources) > 0 {
		sections = append(sections, m.renderSources())
	} else {
		sections = append(sections, m.renderIntensity(), "", m.renderSpectrum())
	}

	sections = append(sections, "", m.renderStatus())

	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderProgress() string {
	return fmt.Sprintf("%s %s %6.2f%%",
		labelStyle.Render("progress "),
		Meter(m.progress/100, meterWidth),
		m.progress)
}

func (m Model) renderIntensity() string {
	if !m.calibrated {
		return labelStyle.Render("intensity ") + dimStyle.Render("uncalibrated, run audreact calibrate")
	}
	return fmt.Sprintf("%s %s %6.2f",
		labelStyle.Render("intensity"),
		Meter(m.intensity, meterWidth),
		m.intensity)
}

func (m Model) renderSpectrum() string {
	return Spectrum(m.levels, panelWidth)
}

func (m Model) renderSources() string {
	width := 0
	for _, id := range m.opts.Sources {
		width = max(width, lipgloss.Width(id))
	}

	lines := make([]string, len(m.opts.Sources))
	for i, id := range m.opts.Sources {
		p := m.powers[i]
		lines[i] = fmt.Sprintf("%s %s %6.3f",
			labelStyle.Render(fmt.Sprintf("%-*s", width, id)),
			Meter(p, meterWidth),
			p)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	var line string
	switch {
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.state == audreact.StateEnded:
		line = "ended"
	default:
		line = m.state.String()
	}
	if m.status != "" {
		line += " · " + m.status
	}
	return dimStyle.Render(line + "  [q] quit")
}

// Meter draws a horizontal bar of width cells filled to level (0..1).
func Meter(level float64, width int) string {
	filled := int(max(0, min(level, 1)) * float64(width))
	return fillStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
}

// Spectrum draws one block per level, spread over width columns.
func Spectrum(levels []float64, width int) string {
	if len(levels) == 0 {
		return ""
	}
	bw := max(1, (width-(len(levels)-1))/len(levels))

	var sb strings.Builder
	for i, level := range levels {
		idx := int(level * float64(len(barBlocks)-1))
		idx = max(0, min(idx, len(barBlocks)-1))

		sb.WriteString(levelStyle(level).Render(strings.Repeat(barBlocks[idx], bw)))
		if i < len(levels)-1 {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}
