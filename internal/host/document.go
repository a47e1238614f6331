package host

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/glyphpick/internal/styles"
)

// Document is the editing buffer emoji are inserted into. It wraps a
// textarea and implements Inserter so commits land at the cursor.
type Document struct {
	area    textarea.Model
	focused bool
}

// NewDocument creates an empty document sized to fill later via SetSize.
func NewDocument() *Document {
	ta := textarea.New()
	ta.Placeholder = "Type here, press ctrl+e to pick an emoji..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	return &Document{area: ta}
}

// Insert places the glyph at the cursor position.
func (d *Document) Insert(glyph string) error {
	d.area.InsertString(glyph)
	return nil
}

// Focus gives the document keyboard focus.
func (d *Document) Focus() tea.Cmd {
	d.focused = true
	return d.area.Focus()
}

// Blur removes keyboard focus.
func (d *Document) Blur() {
	d.focused = false
	d.area.Blur()
}

// Focused reports whether the document has keyboard focus.
func (d *Document) Focused() bool {
	return d.focused
}

// Value returns the document text.
func (d *Document) Value() string {
	return d.area.Value()
}

// SetSize resizes the textarea, leaving room for the frame.
func (d *Document) SetSize(w, h int) {
	frame := styles.PanelActive.GetHorizontalFrameSize()
	d.area.SetWidth(max(w-frame, 1))
	d.area.SetHeight(max(h-styles.PanelActive.GetVerticalFrameSize()-1, 1))
}

// Update forwards events to the textarea while focused.
func (d *Document) Update(msg tea.Msg) tea.Cmd {
	if !d.focused {
		return nil
	}
	var cmd tea.Cmd
	d.area, cmd = d.area.Update(msg)
	return cmd
}

// View renders the document pane.
func (d *Document) View(width int) string {
	frame := styles.PanelInactive
	if d.focused {
		frame = styles.PanelActive
	}
	header := styles.PanelHeader.Render("Document")
	body := lipgloss.JoinVertical(lipgloss.Left, header, d.area.View())
	return frame.Width(max(width-frame.GetHorizontalFrameSize(), 1)).Render(body)
}
