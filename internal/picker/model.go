// Package picker implements the emoji picker panel: a searchable,
// categorized grid with skin tone selection.
package picker

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/marcus/glyphpick/internal/emoji"
	"github.com/marcus/glyphpick/internal/index"
	"github.com/marcus/glyphpick/internal/mouse"
)

// minSearchLen is the query length, in runes, at which the picker
// switches from category browsing to search filtering.
const minSearchLen = 2

// maxToneRank is the highest skin tone rank (0 = base glyph).
const maxToneRank = 5

// Searcher supplies emoji records asynchronously. *index.Index
// satisfies it.
type Searcher interface {
	LoadGroup(title string) ([]emoji.Record, error)
	Search(query string) ([]emoji.Record, error)
}

// Tile is one cell of the picker grid: a name and the glyph rendered
// for the current tone.
type Tile struct {
	Name  string
	Glyph string
}

// Model is the picker panel state.
type Model struct {
	catalog  *emoji.Catalog
	searcher Searcher
	groups   []index.GroupInfo

	input    textinput.Model
	tone     int
	category int
	cursor   int

	// records are the source rows behind the current tiles, kept so
	// tone changes can re-derive glyphs without another query.
	records []emoji.Record
	tiles   []Tile

	// epoch guards in-flight tile requests: only the newest request's
	// results are applied, older ones are discarded on arrival.
	epoch uint64

	dataGone bool

	showInfoBar bool
	showFooter  bool

	width  int
	height int

	Mouse *mouse.Handler
}

// New creates a picker over the given catalog and searcher. groups
// defines the category bar, in display order; the first group is the
// initial category. defaultTone is clamped to the valid rank range.
func New(catalog *emoji.Catalog, searcher Searcher, groups []index.GroupInfo, defaultTone int) *Model {
	in := textinput.New()
	in.Placeholder = "Search emoji..."
	in.Prompt = "🔎 "
	in.CharLimit = 64

	if defaultTone < 0 || defaultTone > maxToneRank {
		defaultTone = 0
	}

	return &Model{
		catalog:     catalog,
		searcher:    searcher,
		groups:      groups,
		input:       in,
		tone:        defaultTone,
		showInfoBar: true,
		showFooter:  true,
		Mouse:       mouse.NewHandler(),
	}
}

// SetUIOptions toggles the info bar and footer rows.
func (m *Model) SetUIOptions(showInfoBar, showFooter bool) {
	m.showInfoBar = showInfoBar
	m.showFooter = showFooter
}

// Searching reports whether the picker is in the search-filtering
// state: the trimmed query has at least minSearchLen runes.
func (m *Model) Searching() bool {
	return searchable(m.input.Value())
}

func searchable(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= minSearchLen
}

// SearchText returns the raw search input.
func (m *Model) SearchText() string {
	return m.input.Value()
}

// Tone returns the selected skin tone rank.
func (m *Model) Tone() int {
	return m.tone
}

// SetTone selects a skin tone rank. While browsing, tiles are rebuilt
// immediately; while searching, the choice is stored and applied when
// browsing resumes.
func (m *Model) SetTone(rank int) {
	if rank < 0 || rank > maxToneRank {
		return
	}
	m.tone = rank
	if !m.Searching() {
		m.rebuildTiles()
	}
}

// Category returns the active category index.
func (m *Model) Category() int {
	return m.category
}

// CategoryTitle returns the active category title, or "" when there
// are no groups.
func (m *Model) CategoryTitle() string {
	if m.category < 0 || m.category >= len(m.groups) {
		return ""
	}
	return m.groups[m.category].Title
}

// Tiles returns the current grid contents.
func (m *Model) Tiles() []Tile {
	return m.tiles
}

// Cursor returns the focused tile index.
func (m *Model) Cursor() int {
	return m.cursor
}

// FocusedName returns the name of the tile under the cursor, or "".
func (m *Model) FocusedName() string {
	if m.cursor < 0 || m.cursor >= len(m.tiles) {
		return ""
	}
	return m.tiles[m.cursor].Name
}

// SetSize tells the picker how much room the panel has.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// rebuildTiles re-derives the grid from the stored records with the
// current tone, clamping the cursor into range.
func (m *Model) rebuildTiles() {
	tiles := make([]Tile, 0, len(m.records))
	for _, rec := range m.records {
		tiles = append(tiles, Tile{Name: rec.Name, Glyph: rec.GlyphForTone(m.tone)})
	}
	m.tiles = tiles
	if m.cursor >= len(m.tiles) {
		m.cursor = len(m.tiles) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// setRecords replaces the grid wholesale. Results always replace, never
// append.
func (m *Model) setRecords(records []emoji.Record) {
	m.records = records
	m.cursor = 0
	m.rebuildTiles()
}
