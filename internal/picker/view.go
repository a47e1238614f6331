package picker

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/glyphpick/internal/styles"
)

// tileCell is the width of one grid cell: a double-width glyph plus
// padding.
const tileCell = 4

// toneSwatches previews each skin tone rank in the tone row.
var toneSwatches = []string{"✋", "✋🏻", "✋🏼", "✋🏽", "✋🏾", "✋🏿"}

var (
	tileFocused = lipgloss.NewStyle().
			Background(styles.BgTertiary)

	catActive = lipgloss.NewStyle().
			Background(styles.BgTertiary).
			Padding(0, 1)

	catInactive = lipgloss.NewStyle().
			Padding(0, 1)

	toneActive = lipgloss.NewStyle().
			Background(styles.BgTertiary)
)

// contentOffsetX and contentOffsetY locate the panel content relative
// to its top-left corner: one border cell plus the horizontal padding.
const (
	contentOffsetX = 2
	contentOffsetY = 1
)

func (m *Model) innerWidth() int {
	w := m.width - styles.PanelActive.GetHorizontalFrameSize()
	if w < 3*tileCell {
		w = 3 * tileCell
	}
	return w
}

func (m *Model) gridColumns() int {
	cols := m.innerWidth() / tileCell
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m *Model) gridRows() int {
	// Panel chrome: header, search, category bar, tone row, plus the
	// optional info bar and footer, plus the frame itself.
	reserved := 5 + styles.PanelActive.GetVerticalFrameSize()
	if m.showInfoBar {
		reserved++
	}
	if m.showFooter {
		reserved++
	}
	rows := m.height - reserved
	if rows < 2 {
		rows = 2
	}
	return rows
}

// View renders the panel and registers mouse hit regions in
// panel-local coordinates.
func (m *Model) View() string {
	m.Mouse.Clear()

	inner := m.innerWidth()
	var sections []string

	sections = append(sections, styles.PanelHeader.Render("Emoji"))
	sections = append(sections, m.input.View())
	sections = append(sections, m.viewCategoryBar(len(sections)))
	sections = append(sections, m.viewGrid(len(sections))...)
	if m.showInfoBar {
		sections = append(sections, m.viewInfoBar())
	}
	sections = append(sections, m.viewToneRow(len(sections)))
	if m.showFooter {
		sections = append(sections, m.viewFooter())
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return styles.PanelActive.Width(inner).Render(body)
}

// viewCategoryBar renders the category chips, dimmed while a search
// filter is active.
func (m *Model) viewCategoryBar(row int) string {
	var b strings.Builder
	x := contentOffsetX
	y := contentOffsetY + row

	searching := m.Searching()
	for i, g := range m.groups {
		chip := g.Icon
		var rendered string
		switch {
		case searching:
			rendered = styles.Subtle.Padding(0, 1).Render(chip)
		case i == m.category:
			rendered = catActive.Render(chip)
		default:
			rendered = catInactive.Render(chip)
		}
		w := runewidth.StringWidth(chip) + 2
		if !searching {
			m.Mouse.HitMap.AddRect("cat:"+g.Title, x, y, w, 1, i)
		}
		b.WriteString(rendered)
		x += w
	}
	return b.String()
}

// viewGrid renders the tile rows, scrolled so the cursor stays
// visible.
func (m *Model) viewGrid(startRow int) []string {
	cols := m.gridColumns()
	visible := m.gridRows()

	if len(m.tiles) == 0 {
		empty := m.emptyNotice()
		rows := make([]string, visible)
		rows[0] = styles.Muted.Render(empty)
		for i := 1; i < visible; i++ {
			rows[i] = ""
		}
		return rows
	}

	totalRows := (len(m.tiles) + cols - 1) / cols
	cursorRow := m.cursor / cols
	first := 0
	if cursorRow >= visible {
		first = cursorRow - visible + 1
	}

	rows := make([]string, 0, visible)
	for r := first; r < first+visible; r++ {
		if r >= totalRows {
			rows = append(rows, "")
			continue
		}
		var b strings.Builder
		y := contentOffsetY + startRow + (r - first)
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(m.tiles) {
				break
			}
			cell := runewidth.FillRight(m.tiles[i].Glyph, tileCell-1)
			if i == m.cursor {
				b.WriteString(tileFocused.Render(cell) + " ")
			} else {
				b.WriteString(cell + " ")
			}
			m.Mouse.HitMap.AddRect("tile:"+m.tiles[i].Name, contentOffsetX+c*tileCell, y, tileCell, 1, i)
		}
		rows = append(rows, b.String())
	}
	return rows
}

func (m *Model) emptyNotice() string {
	switch {
	case m.dataGone:
		return "emoji data unavailable"
	case m.Searching():
		return "no matches"
	default:
		return "nothing here"
	}
}

// viewInfoBar shows the focused emoji's name.
func (m *Model) viewInfoBar() string {
	name := m.FocusedName()
	if name == "" {
		return styles.Subtle.Render("─")
	}
	glyph := ""
	if m.cursor >= 0 && m.cursor < len(m.tiles) {
		glyph = m.tiles[m.cursor].Glyph + " "
	}
	return glyph + styles.Muted.Render(name)
}

// viewToneRow renders the tone swatches with the active rank
// highlighted.
func (m *Model) viewToneRow(row int) string {
	var b strings.Builder
	b.WriteString(styles.Subtle.Render("tone "))
	x := contentOffsetX + runewidth.StringWidth("tone ")
	y := contentOffsetY + row

	for rank, swatch := range toneSwatches {
		cell := runewidth.FillRight(swatch, 2)
		if rank == m.tone {
			b.WriteString(toneActive.Render(cell) + " ")
		} else {
			b.WriteString(cell + " ")
		}
		m.Mouse.HitMap.AddRect("tone:"+strconv.Itoa(rank), x, y, 3, 1, rank)
		x += 3
	}
	return b.String()
}

func (m *Model) viewFooter() string {
	hints := []string{"↑↓←→ move", "⏎ insert", "⇥ category", "^t tone", "esc close"}
	return styles.Subtle.Render(strings.Join(hints, "  "))
}
