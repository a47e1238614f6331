// Package app is the root Bubble Tea model: the editing document with
// the emoji picker floating above it.
package app

import (
	"log/slog"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/glyphpick/internal/config"
	"github.com/marcus/glyphpick/internal/emoji"
	"github.com/marcus/glyphpick/internal/host"
	"github.com/marcus/glyphpick/internal/index"
	"github.com/marcus/glyphpick/internal/picker"
	"github.com/marcus/glyphpick/internal/recent"
)

// defaultOpenKey opens the picker unless overridden in the keymap
// config.
const defaultOpenKey = "ctrl+e"

// Model is the root application model.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	doc      *host.Document
	picker   *picker.Model
	inserter host.Inserter

	catalog *emoji.Catalog
	recents *recent.Store

	showPicker bool

	// panelW/panelH are the measured size of the last rendered picker
	// panel, used to translate mouse coordinates into panel space.
	panelW, panelH int

	toast    string
	toastErr bool

	watcher *config.Watcher

	width, height int
}

// Options wires the app model together.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Catalog  *emoji.Catalog
	Searcher picker.Searcher
	Groups   []index.GroupInfo
	Recents  *recent.Store // may be nil
	Watcher  *config.Watcher
}

// New builds the root model.
func New(opts Options) *Model {
	m := &Model{
		cfg:     opts.Config,
		logger:  opts.Logger,
		doc:     host.NewDocument(),
		catalog: opts.Catalog,
		recents: opts.Recents,
		watcher: opts.Watcher,
	}

	searcher := opts.Searcher
	groups := opts.Groups
	if opts.Recents != nil {
		rs := &recentSearcher{Searcher: searcher, catalog: opts.Catalog, recents: opts.Recents}
		searcher = rs
		groups = append([]index.GroupInfo{{Title: recentGroupTitle, Icon: "🕘"}}, groups...)
	}

	m.picker = picker.New(opts.Catalog, searcher, groups, opts.Config.Picker.DefaultTone)
	m.picker.SetUIOptions(opts.Config.UI.ShowInfoBar, opts.Config.UI.ShowFooter)
	m.inserter = m.buildInserter()
	return m
}

// buildInserter fans commits out to the document, and the clipboard
// when configured.
func (m *Model) buildInserter() host.Inserter {
	targets := host.Multi{m.doc}
	if m.cfg.Picker.CopyToClipboard {
		targets = append(targets, host.Clipboard{})
	}
	return targets
}

// openKey returns the configured picker-open binding.
func (m *Model) openKey() string {
	if k, ok := m.cfg.Keymap.Overrides["picker.open"]; ok && k != "" {
		return k
	}
	return defaultOpenKey
}

// shortcodePrefill extracts a trailing ":word" shortcode from the
// document text so opening the picker mid-word starts the search
// pre-filled.
func shortcodePrefill(text string) string {
	i := strings.LastIndexByte(text, ':')
	if i < 0 {
		return ""
	}
	tail := text[i+1:]
	if tail == "" || len(tail) > 16 {
		return ""
	}
	for _, r := range tail {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ""
		}
	}
	return tail
}

// Init focuses the document and arms the config watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.doc.Focus(), tea.SetWindowTitle("glyphpick")}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForReload())
	}
	return tea.Batch(cmds...)
}
