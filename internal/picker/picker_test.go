package picker

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/glyphpick/internal/emoji"
	"github.com/marcus/glyphpick/internal/index"
	"github.com/marcus/glyphpick/internal/mouse"
)

// fakeSearcher resolves group loads and searches from in-memory data,
// so tests drive the async flow by running returned commands directly.
type fakeSearcher struct {
	groups   map[string][]emoji.Record
	searchFn func(query string) ([]emoji.Record, error)
}

func (f *fakeSearcher) LoadGroup(title string) ([]emoji.Record, error) {
	return f.groups[title], nil
}

func (f *fakeSearcher) Search(query string) ([]emoji.Record, error) {
	if f.searchFn != nil {
		return f.searchFn(query)
	}
	return nil, nil
}

var (
	wave = emoji.Record{
		Name:  "waving hand",
		Glyph: "👋",
		Group: "People",
		Tones: []string{"👋", "👋🏻", "👋🏼", "👋🏽", "👋🏾", "👋🏿"},
	}
	grin = emoji.Record{
		Name:  "grinning face",
		Glyph: "😀",
		Group: "Smileys",
		Tones: []string{"😀"},
	}
	dog = emoji.Record{
		Name:  "dog face",
		Glyph: "🐶",
		Group: "Animals",
		Tones: []string{"🐶"},
	}
)

func newTestPicker(t *testing.T, searcher Searcher) *Model {
	t.Helper()
	catalog, err := emoji.NewCatalog([]emoji.Group{
		{Title: "Smileys", Icon: "😀", Records: []emoji.Record{grin}},
		{Title: "People", Icon: "👋", Records: []emoji.Record{wave}},
		{Title: "Animals", Icon: "🐶", Records: []emoji.Record{dog}},
	})
	if err != nil {
		t.Fatal(err)
	}
	groups := []index.GroupInfo{
		{Title: "Smileys", Icon: "😀"},
		{Title: "People", Icon: "👋"},
		{Title: "Animals", Icon: "🐶"},
	}
	m := New(catalog, searcher, groups, 0)
	m.SetSize(44, 16)
	return m
}

// run executes a command and feeds any resulting message back into the
// model, like the bubbletea runtime would.
func run(m *Model, cmd tea.Cmd) {
	for cmd != nil {
		message := cmd()
		if message == nil {
			return
		}
		if batch, ok := message.(tea.BatchMsg); ok {
			for _, c := range batch {
				run(m, c)
			}
			return
		}
		cmd = m.Update(message)
	}
}

func typeKey(m *Model, s string) tea.Cmd {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// resolveTiles runs a command tree until it yields the TilesMsg of the
// request it started, without delivering it to the model.
func resolveTiles(t *testing.T, cmd tea.Cmd) TilesMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a tile request command")
	}
	message := cmd()
	if batch, ok := message.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if tiles, ok := c().(TilesMsg); ok {
				return tiles
			}
		}
		t.Fatal("no TilesMsg in batch")
	}
	tiles, ok := message.(TilesMsg)
	if !ok {
		t.Fatalf("message = %T, want TilesMsg", message)
	}
	return tiles
}

func TestInit_LoadsFirstGroup(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"Smileys": {grin}}}
	m := newTestPicker(t, s)
	run(m, m.Init())

	if m.Searching() {
		t.Error("picker should start in browsing state")
	}
	if m.CategoryTitle() != "Smileys" {
		t.Errorf("initial category = %q, want Smileys", m.CategoryTitle())
	}
	if len(m.Tiles()) != 1 || m.Tiles()[0].Name != "grinning face" {
		t.Errorf("tiles = %v, want the Smileys group", m.Tiles())
	}
}

func TestSearchThreshold(t *testing.T) {
	s := &fakeSearcher{
		groups:   map[string][]emoji.Record{"Smileys": {grin}},
		searchFn: func(string) ([]emoji.Record, error) { return []emoji.Record{wave}, nil },
	}
	m := newTestPicker(t, s)
	run(m, m.Init())

	// One rune stays in browsing.
	run(m, typeKey(m, "w"))
	if m.Searching() {
		t.Error("single rune should not trigger search")
	}
	if len(m.Tiles()) != 1 || m.Tiles()[0].Name != "grinning face" {
		t.Error("tiles should still show the category")
	}

	// Second rune crosses the threshold.
	run(m, typeKey(m, "a"))
	if !m.Searching() {
		t.Error("two runes should trigger search")
	}
	if len(m.Tiles()) != 1 || m.Tiles()[0].Name != "waving hand" {
		t.Errorf("tiles = %v, want search results", m.Tiles())
	}
}

func TestSearch_WhitespaceOnlyStaysBrowsing(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"Smileys": {grin}}}
	m := newTestPicker(t, s)
	run(m, m.Init())

	run(m, typeKey(m, "  "))
	if m.Searching() {
		t.Error("whitespace-only query should not count toward the threshold")
	}
}

func TestLastRequesterWins(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"Smileys": {grin}}}
	m := newTestPicker(t, s)
	run(m, m.Init())

	// Start two searches without delivering results, keeping both
	// commands in hand like in-flight requests.
	s.searchFn = func(q string) ([]emoji.Record, error) {
		if q == "wa" {
			return []emoji.Record{wave}, nil
		}
		return []emoji.Record{dog}, nil
	}
	stale := resolveTiles(t, typeKey(m, "wa"))
	fresh := resolveTiles(t, typeKey(m, "d")) // query is now "wad"

	// Fresh result lands first.
	m.Update(fresh)
	if len(m.Tiles()) != 1 || m.Tiles()[0].Name != "dog face" {
		t.Fatalf("tiles = %v, want fresh results", m.Tiles())
	}

	// Stale result arrives late and must be discarded.
	m.Update(stale)
	if len(m.Tiles()) != 1 || m.Tiles()[0].Name != "dog face" {
		t.Errorf("tiles = %v, stale results must not overwrite fresh ones", m.Tiles())
	}
}

func TestResultsReplaceNotAppend(t *testing.T) {
	s := &fakeSearcher{
		groups:   map[string][]emoji.Record{"Smileys": {grin, dog, wave}},
		searchFn: func(string) ([]emoji.Record, error) { return []emoji.Record{wave}, nil },
	}
	m := newTestPicker(t, s)
	run(m, m.Init())
	if len(m.Tiles()) != 3 {
		t.Fatalf("tiles = %d, want 3", len(m.Tiles()))
	}

	run(m, typeKey(m, "wa"))
	if len(m.Tiles()) != 1 {
		t.Errorf("tiles = %d, results must replace the grid wholesale", len(m.Tiles()))
	}
}

func TestDataUnavailable_EmptyTiles(t *testing.T) {
	s := &fakeSearcher{
		groups: map[string][]emoji.Record{"Smileys": {grin}},
		searchFn: func(string) ([]emoji.Record, error) {
			return nil, fmt.Errorf("%w: closed", index.ErrDataUnavailable)
		},
	}
	m := newTestPicker(t, s)
	run(m, m.Init())

	run(m, typeKey(m, "wa"))
	if len(m.Tiles()) != 0 {
		t.Errorf("tiles = %v, want empty on unavailable data", m.Tiles())
	}
}

func TestToneChange_Browsing_RemapsTiles(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"People": {wave, grin}}}
	m := newTestPicker(t, s)
	run(m, m.Init())
	run(m, m.SetCategory(1))

	m.SetTone(3)
	tiles := m.Tiles()
	if tiles[0].Glyph != "👋🏽" {
		t.Errorf("toned glyph = %q, want 👋🏽", tiles[0].Glyph)
	}
	// Toneless records fall back to the base glyph, never the nearest
	// rank.
	if tiles[1].Glyph != "😀" {
		t.Errorf("toneless glyph = %q, want base 😀", tiles[1].Glyph)
	}
}

func TestToneChange_WhileSearching_StoredNotApplied(t *testing.T) {
	s := &fakeSearcher{
		groups:   map[string][]emoji.Record{"Smileys": {grin}, "People": {wave}},
		searchFn: func(string) ([]emoji.Record, error) { return []emoji.Record{wave}, nil },
	}
	m := newTestPicker(t, s)
	run(m, m.Init())
	run(m, typeKey(m, "wa"))

	before := m.Tiles()[0].Glyph
	m.SetTone(2)
	if m.Tiles()[0].Glyph != before {
		t.Error("tone change while searching should not touch the tiles")
	}
	if m.Tone() != 2 {
		t.Errorf("tone = %d, the choice should still be stored", m.Tone())
	}

	// Browsing resumes with the stored tone applied.
	run(m, m.Update(tea.KeyMsg{Type: tea.KeyEscape}))
	run(m, m.SetCategory(1))
	if m.Tiles()[0].Glyph != "👋🏼" {
		t.Errorf("glyph = %q, want stored tone applied on resume", m.Tiles()[0].Glyph)
	}
}

func TestCategoryChange_WhileSearching_Stored(t *testing.T) {
	s := &fakeSearcher{
		groups:   map[string][]emoji.Record{"Smileys": {grin}, "People": {wave}},
		searchFn: func(string) ([]emoji.Record, error) { return []emoji.Record{dog}, nil },
	}
	m := newTestPicker(t, s)
	run(m, m.Init())
	run(m, typeKey(m, "do"))

	if cmd := m.CycleCategory(1); cmd != nil {
		t.Error("category change while searching should not load tiles")
	}
	if m.CategoryTitle() != "People" {
		t.Errorf("category = %q, the change should still be stored", m.CategoryTitle())
	}
	if m.Tiles()[0].Name != "dog face" {
		t.Error("tiles should stay filtered while searching")
	}

	// Clearing the search shows the stored category.
	run(m, m.Update(tea.KeyMsg{Type: tea.KeyEscape}))
	if m.Tiles()[0].Name != "waving hand" {
		t.Errorf("tiles = %v, want the stored category on resume", m.Tiles())
	}
}

func TestCategoryCycle_Wraps(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{
		"Smileys": {grin}, "People": {wave}, "Animals": {dog},
	}}
	m := newTestPicker(t, s)
	run(m, m.Init())

	run(m, m.CycleCategory(-1))
	if m.CategoryTitle() != "Animals" {
		t.Errorf("category = %q, want wrap to Animals", m.CategoryTitle())
	}
	run(m, m.CycleCategory(1))
	if m.CategoryTitle() != "Smileys" {
		t.Errorf("category = %q, want wrap back to Smileys", m.CategoryTitle())
	}
}

func TestActivate(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"People": {wave}}}
	m := newTestPicker(t, s)
	run(m, m.Init())
	m.SetTone(5)

	t.Run("known name commits with tone", func(t *testing.T) {
		cmd := m.Activate("waving hand")
		if cmd == nil {
			t.Fatal("expected a commit command")
		}
		commit, ok := cmd().(CommitMsg)
		if !ok {
			t.Fatalf("message = %T, want CommitMsg", cmd())
		}
		if commit.Glyph != "👋🏿" {
			t.Errorf("glyph = %q, want tone rank 5", commit.Glyph)
		}
		if commit.Name != "waving hand" {
			t.Errorf("name = %q", commit.Name)
		}
	})

	t.Run("unknown name is a no-op", func(t *testing.T) {
		if cmd := m.Activate("no such emoji"); cmd != nil {
			t.Error("activating an unknown name should do nothing")
		}
	})
}

func TestEnter_CommitsFocusedTile(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"Smileys": {grin, dog}}}
	m := newTestPicker(t, s)
	run(m, m.Init())

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a commit command")
	}
	commit := cmd().(CommitMsg)
	if commit.Name != "dog face" {
		t.Errorf("committed %q, want the focused tile", commit.Name)
	}
}

func TestEsc_ClearsSearchThenCloses(t *testing.T) {
	s := &fakeSearcher{
		groups:   map[string][]emoji.Record{"Smileys": {grin}},
		searchFn: func(string) ([]emoji.Record, error) { return []emoji.Record{wave}, nil },
	}
	m := newTestPicker(t, s)
	run(m, m.Init())
	run(m, typeKey(m, "wa"))

	// First esc clears the query and resumes browsing.
	run(m, m.Update(tea.KeyMsg{Type: tea.KeyEscape}))
	if m.SearchText() != "" {
		t.Errorf("search text = %q, want cleared", m.SearchText())
	}
	if m.Tiles()[0].Name != "grinning face" {
		t.Error("browsing should resume after clearing the search")
	}

	// Second esc closes the picker.
	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a close command")
	}
	if _, ok := cmd().(CloseMsg); !ok {
		t.Errorf("message = %T, want CloseMsg", cmd())
	}
}

func TestReset_PrefillStartsSearching(t *testing.T) {
	s := &fakeSearcher{
		groups:   map[string][]emoji.Record{"Smileys": {grin}},
		searchFn: func(string) ([]emoji.Record, error) { return []emoji.Record{dog}, nil },
	}
	m := newTestPicker(t, s)
	run(m, m.Init())

	run(m, m.Reset("dog"))
	if !m.Searching() {
		t.Error("prefilled query past the threshold should start in search state")
	}
	if m.Tiles()[0].Name != "dog face" {
		t.Errorf("tiles = %v, want prefill results", m.Tiles())
	}
}

func TestSearchError_EmptyTiles(t *testing.T) {
	s := &fakeSearcher{
		groups:   map[string][]emoji.Record{"Smileys": {grin}},
		searchFn: func(string) ([]emoji.Record, error) { return nil, errors.New("boom") },
	}
	m := newTestPicker(t, s)
	run(m, m.Init())

	run(m, typeKey(m, "wa"))
	if len(m.Tiles()) != 0 {
		t.Errorf("tiles = %v, want empty on search error", m.Tiles())
	}
}

func TestStaleIndexEntries_DroppedSilently(t *testing.T) {
	s := &fakeSearcher{
		groups: map[string][]emoji.Record{"Smileys": {grin}},
		searchFn: func(string) ([]emoji.Record, error) {
			// The index returns a name the catalog no longer knows.
			return []emoji.Record{wave, {Name: "retired emoji", Glyph: "?"}}, nil
		},
	}
	m := newTestPicker(t, s)
	run(m, m.Init())

	run(m, typeKey(m, "wa"))
	if len(m.Tiles()) != 1 || m.Tiles()[0].Name != "waving hand" {
		t.Errorf("tiles = %v, unknown names should be dropped without error", m.Tiles())
	}
}

func TestEndToEndScenario(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{
		"Smileys": {grin},
		"People":  {wave},
		"Animals": {dog},
	}}
	m := newTestPicker(t, s)
	run(m, m.Init())

	// Browse into a category: tiles are its items at tone 0.
	run(m, m.SetCategory(1))
	if m.Tiles()[0].Glyph != "👋" {
		t.Fatalf("glyph = %q, want base tone", m.Tiles()[0].Glyph)
	}

	// Pick tone 2: same list, toned variants where available.
	m.SetTone(2)
	if m.Tiles()[0].Name != "waving hand" || m.Tiles()[0].Glyph != "👋🏼" {
		t.Fatalf("tiles = %v, want same list at tone 2", m.Tiles())
	}

	// Search replaces the grid with resolved results.
	s.searchFn = func(string) ([]emoji.Record, error) { return []emoji.Record{grin}, nil }
	run(m, typeKey(m, "gr"))
	if m.Tiles()[0].Name != "grinning face" {
		t.Fatalf("tiles = %v, want search results", m.Tiles())
	}

	// Clearing the search reverts to the stored category at the
	// stored tone.
	run(m, m.Update(tea.KeyMsg{Type: tea.KeyBackspace}))
	run(m, m.Update(tea.KeyMsg{Type: tea.KeyBackspace}))
	if m.SearchText() != "" {
		t.Fatalf("search text = %q, want empty", m.SearchText())
	}
	if m.Tiles()[0].Name != "waving hand" || m.Tiles()[0].Glyph != "👋🏼" {
		t.Errorf("tiles = %v, want the prior category at the prior tone", m.Tiles())
	}
}

func TestView_RegistersHitRegions(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"Smileys": {grin, dog}}}
	m := newTestPicker(t, s)
	run(m, m.Init())

	out := m.View()
	if out == "" {
		t.Fatal("empty view")
	}

	kinds := map[string]bool{}
	for _, r := range m.Mouse.HitMap.Regions() {
		switch {
		case strings.HasPrefix(r.ID, "tile:"):
			kinds["tile"] = true
		case strings.HasPrefix(r.ID, "cat:"):
			kinds["cat"] = true
		case strings.HasPrefix(r.ID, "tone:"):
			kinds["tone"] = true
		}
	}
	for _, want := range []string{"tile", "cat", "tone"} {
		if !kinds[want] {
			t.Errorf("view should register %s regions", want)
		}
	}
}

func TestView_UIToggles(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"Smileys": {grin}}}
	m := newTestPicker(t, s)
	run(m, m.Init())

	full := m.View()
	if !strings.Contains(full, "esc close") {
		t.Error("footer should render by default")
	}
	if !strings.Contains(full, "grinning face") {
		t.Error("info bar should render the focused name by default")
	}

	m.SetUIOptions(false, false)
	bare := m.View()
	if strings.Contains(bare, "esc close") {
		t.Error("footer should be suppressed when toggled off")
	}
	if strings.Contains(bare, "grinning face") {
		t.Error("info bar should be suppressed when toggled off")
	}
}

// tileRegion returns the registered region of the i-th tile.
func tileRegion(t *testing.T, m *Model, i int) mouse.Region {
	t.Helper()
	for _, r := range m.Mouse.HitMap.Regions() {
		if strings.HasPrefix(r.ID, "tile:") && r.Data.(int) == i {
			return r
		}
	}
	t.Fatalf("no region for tile %d", i)
	return mouse.Region{}
}

func TestHover_FocusesTile(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"Smileys": {grin, dog}}}
	m := newTestPicker(t, s)
	run(m, m.Init())
	m.View()

	r := tileRegion(t, m, 1)
	m.HandleMouse(tea.MouseMsg{
		X: r.Rect.X, Y: r.Rect.Y,
		Action: tea.MouseActionMotion,
	})
	if m.FocusedName() != "dog face" {
		t.Errorf("focused = %q, hover should follow the pointer", m.FocusedName())
	}
}

func TestDrag_SweepsSelection(t *testing.T) {
	s := &fakeSearcher{groups: map[string][]emoji.Record{"Smileys": {grin, dog, wave}}}
	m := newTestPicker(t, s)
	run(m, m.Init())
	m.View()

	first := tileRegion(t, m, 0)
	m.HandleMouse(tea.MouseMsg{
		X: first.Rect.X, Y: first.Rect.Y,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	if !m.Mouse.IsDragging() {
		t.Fatal("press on a tile should start a sweep")
	}

	last := tileRegion(t, m, 2)
	m.HandleMouse(tea.MouseMsg{
		X: last.Rect.X, Y: last.Rect.Y,
		Action: tea.MouseActionMotion,
	})
	if m.FocusedName() != "waving hand" {
		t.Errorf("focused = %q, sweep should move the cursor", m.FocusedName())
	}

	m.HandleMouse(tea.MouseMsg{Action: tea.MouseActionRelease})
	if m.Mouse.IsDragging() {
		t.Error("release should end the sweep")
	}
}
