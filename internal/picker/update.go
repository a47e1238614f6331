package picker

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/glyphpick/internal/index"
	"github.com/marcus/glyphpick/internal/mouse"
)

// Init focuses the search field and loads the initial category.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.input.Focus(), m.reloadCategory())
}

// Reset clears the search and reloads the active category. Used when
// the panel is reopened. initialSearch pre-fills the query, so opening
// the picker mid-word starts in search mode.
func (m *Model) Reset(initialSearch string) tea.Cmd {
	m.input.SetValue(initialSearch)
	m.input.CursorEnd()
	m.dataGone = false
	if m.Searching() {
		return tea.Batch(m.input.Focus(), m.startSearch())
	}
	return tea.Batch(m.input.Focus(), m.reloadCategory())
}

// Update handles picker events.
func (m *Model) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case TilesMsg:
		return m.applyTiles(message)
	case tea.KeyMsg:
		return m.handleKey(message)
	case tea.MouseMsg:
		return m.HandleMouse(message)
	}
	return nil
}

// applyTiles installs async results, discarding superseded epochs.
func (m *Model) applyTiles(message TilesMsg) tea.Cmd {
	if message.Epoch != m.epoch {
		return nil
	}
	if message.Err != nil {
		m.dataGone = errors.Is(message.Err, index.ErrDataUnavailable)
		m.setRecords(nil)
		return nil
	}
	m.dataGone = false
	// Results are resolved back through the catalog by name; entries
	// the catalog no longer knows are dropped silently.
	m.setRecords(m.catalog.Resolve(message.Records))
	return nil
}

func (m *Model) handleKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		if m.input.Value() != "" {
			m.input.SetValue("")
			return m.reloadCategory()
		}
		return closeCmd

	case "enter":
		return m.Activate(m.FocusedName())

	case "tab":
		return m.CycleCategory(1)

	case "shift+tab":
		return m.CycleCategory(-1)

	case "ctrl+t":
		m.SetTone((m.tone + 1) % (maxToneRank + 1))
		return nil

	case "left":
		m.moveCursor(-1)
		return nil
	case "right":
		m.moveCursor(1)
		return nil
	case "up":
		m.moveCursor(-m.gridColumns())
		return nil
	case "down":
		m.moveCursor(m.gridColumns())
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	after := m.input.Value()
	if before == after {
		return cmd
	}

	if m.Searching() {
		return tea.Batch(cmd, m.startSearch())
	}
	if searchable(before) {
		// Dropped below the search threshold: category browsing
		// resumes with the stored category and tone.
		return tea.Batch(cmd, m.reloadCategory())
	}
	return cmd
}

// Activate commits the named emoji with the selected tone. Unknown
// names are ignored.
func (m *Model) Activate(name string) tea.Cmd {
	rec, ok := m.catalog.Lookup(name)
	if !ok {
		return nil
	}
	return commitCmd(rec.Name, rec.GlyphForTone(m.tone))
}

// CycleCategory moves the active category by delta, wrapping around.
// While searching the change is stored but tiles stay filtered; the
// new category shows when browsing resumes.
func (m *Model) CycleCategory(delta int) tea.Cmd {
	if len(m.groups) == 0 {
		return nil
	}
	m.category = ((m.category+delta)%len(m.groups) + len(m.groups)) % len(m.groups)
	if m.Searching() {
		return nil
	}
	return m.reloadCategory()
}

// SetCategory jumps straight to a category index.
func (m *Model) SetCategory(i int) tea.Cmd {
	if i < 0 || i >= len(m.groups) {
		return nil
	}
	m.category = i
	if m.Searching() {
		return nil
	}
	return m.reloadCategory()
}

// reloadCategory starts a fresh group load under a new epoch.
func (m *Model) reloadCategory() tea.Cmd {
	m.epoch++
	if len(m.groups) == 0 {
		m.setRecords(nil)
		return nil
	}
	return m.loadGroupCmd(m.epoch, m.groups[m.category].Title)
}

// startSearch starts a fresh search under a new epoch.
func (m *Model) startSearch() tea.Cmd {
	m.epoch++
	return m.searchCmd(m.epoch, strings.TrimSpace(m.input.Value()))
}

func (m *Model) moveCursor(delta int) {
	if len(m.tiles) == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.tiles) {
		return
	}
	m.cursor = next
}

// HandleMouse resolves a mouse event already translated into panel
// coordinates.
func (m *Model) HandleMouse(message tea.MouseMsg) tea.Cmd {
	action := m.Mouse.HandleMouse(message)

	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return nil
		}
		switch {
		case strings.HasPrefix(action.Region.ID, "tile:"):
			i, ok := action.Region.Data.(int)
			if !ok || i < 0 || i >= len(m.tiles) {
				return nil
			}
			m.cursor = i
			if action.Type == mouse.ActionDoubleClick {
				return m.Activate(m.tiles[i].Name)
			}
			// Holding the button sweeps the selection across tiles.
			m.Mouse.StartDrag(message.X, message.Y, "grid", i)
		case strings.HasPrefix(action.Region.ID, "cat:"):
			if i, ok := action.Region.Data.(int); ok {
				return m.SetCategory(i)
			}
		case strings.HasPrefix(action.Region.ID, "tone:"):
			if rank, ok := action.Region.Data.(int); ok {
				m.SetTone(rank)
			}
		}

	case mouse.ActionHover:
		// Hovering a tile focuses it so the info bar follows the
		// pointer.
		m.focusTileAt(message.X, message.Y)

	case mouse.ActionDrag:
		if m.Mouse.DragRegion() == "grid" {
			m.focusTileAt(message.X, message.Y)
		}

	case mouse.ActionScrollUp:
		m.moveCursor(-m.gridColumns())
	case mouse.ActionScrollDown:
		m.moveCursor(m.gridColumns())
	}
	return nil
}

// focusTileAt moves the cursor to the tile under the given panel
// coordinates, if any.
func (m *Model) focusTileAt(x, y int) {
	region := m.Mouse.HitMap.Test(x, y)
	if region == nil || !strings.HasPrefix(region.ID, "tile:") {
		return
	}
	if i, ok := region.Data.(int); ok && i >= 0 && i < len(m.tiles) {
		m.cursor = i
	}
}
