// Package ui provides shared rendering helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle grays out background content behind the floating panel. The
// background is stripped of its own ANSI codes first because SGR 2
// (faint) doesn't reliably combine with existing colors in most
// terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// PanelOrigin returns the top-left screen cell of a centered panel.
// Mouse coordinates inside the panel are translated by subtracting this
// origin. Never negative, so oversized panels clamp to the screen edge.
func PanelOrigin(panelWidth, panelHeight, screenWidth, screenHeight int) (x, y int) {
	x = (screenWidth - panelWidth) / 2
	y = (screenHeight - panelHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// PanelSize measures a rendered panel in visual cells.
func PanelSize(panel string) (w, h int) {
	lines := strings.Split(panel, "\n")
	return maxLineWidth(lines), len(lines)
}

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// dimLine strips ANSI codes and applies the dim gray.
func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow lays panelLine over bgLine starting at startX, dimming
// the background segments on either side.
func compositeRow(bgLine, panelLine string, startX, panelWidth, totalWidth int) string {
	var out strings.Builder

	stripped := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(stripped)

	if startX > 0 {
		left := ansi.Truncate(stripped, startX, "")
		leftWidth := ansi.StringWidth(left)
		out.WriteString(DimStyle.Render(left))
		if leftWidth < startX {
			out.WriteString(strings.Repeat(" ", startX-leftWidth))
		}
	}

	out.WriteString(panelLine)

	rightStart := startX + panelWidth
	if rightStart < totalWidth && bgWidth > rightStart {
		out.WriteString(DimStyle.Render(ansi.Cut(stripped, rightStart, bgWidth)))
	}

	return out.String()
}

// OverlayPanel composites the floating panel over a dimmed background,
// centered on a screen of the given size. The panel keeps its own
// styling; everything around it is dimmed.
func OverlayPanel(background, panel string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	panelLines := strings.Split(panel, "\n")

	panelWidth := maxLineWidth(panelLines)
	startX, startY := PanelOrigin(panelWidth, len(panelLines), width, height)

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	rows := make([]string, 0, height)
	for y := 0; y < height; y++ {
		bgLine := ""
		if y < len(bgLines) {
			bgLine = bgLines[y]
		}

		row := y - startY
		if row >= 0 && row < len(panelLines) {
			rows = append(rows, compositeRow(bgLine, panelLines[row], startX, panelWidth, width))
		} else {
			rows = append(rows, dimLine(bgLine))
		}
	}

	return strings.Join(rows, "\n")
}
