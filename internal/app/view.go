package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/glyphpick/internal/styles"
	"github.com/marcus/glyphpick/internal/ui"
)

// View renders the document, with the picker panel composited on top
// when open.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.doc.View(m.width),
		m.statusLine(),
	)

	if !m.showPicker {
		return base
	}

	panel := m.picker.View()
	m.panelW, m.panelH = ui.PanelSize(panel)
	return ui.OverlayPanel(base, panel, m.width, m.height)
}

// statusLine shows the toast when one is active, key hints otherwise.
func (m *Model) statusLine() string {
	if m.toast != "" {
		style := styles.ToastSuccess
		if m.toastErr {
			style = styles.ToastError
		}
		return style.Render(m.toast)
	}

	parts := []string{
		styles.BarChip.Render("glyphpick"),
		styles.KeyHint.Render(m.openKey()) + styles.Subtle.Render(" emoji"),
		styles.KeyHint.Render("ctrl+c") + styles.Subtle.Render(" quit"),
	}
	return strings.Join(parts, " ")
}
