package picker

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/glyphpick/internal/emoji"
)

// TilesMsg delivers the result of an async tile request, either a
// group load or a search. Epoch identifies the request; results from a
// superseded epoch are discarded on arrival.
type TilesMsg struct {
	Epoch   uint64
	Query   string // "" for group loads
	Records []emoji.Record
	Err     error
}

// GetEpoch implements the stale-check used by Update.
func (m TilesMsg) GetEpoch() uint64 {
	return m.Epoch
}

// CommitMsg reports that the user activated an emoji.
type CommitMsg struct {
	Name  string
	Glyph string
}

// CloseMsg asks the host to dismiss the picker.
type CloseMsg struct{}

// loadGroupCmd requests the records of a category.
func (m *Model) loadGroupCmd(epoch uint64, title string) tea.Cmd {
	return func() tea.Msg {
		records, err := m.searcher.LoadGroup(title)
		return TilesMsg{Epoch: epoch, Records: records, Err: err}
	}
}

// searchCmd requests the records matching a query.
func (m *Model) searchCmd(epoch uint64, query string) tea.Cmd {
	return func() tea.Msg {
		records, err := m.searcher.Search(query)
		return TilesMsg{Epoch: epoch, Query: query, Records: records, Err: err}
	}
}

// commitCmd emits the activation for the host to consume.
func commitCmd(name, glyph string) tea.Cmd {
	return func() tea.Msg {
		return CommitMsg{Name: name, Glyph: glyph}
	}
}

func closeCmd() tea.Msg {
	return CloseMsg{}
}
