package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/glyphpick/internal/config"
	"github.com/marcus/glyphpick/internal/msg"
	"github.com/marcus/glyphpick/internal/picker"
	"github.com/marcus/glyphpick/internal/ui"
)

// Update routes events between the document and the picker overlay.
func (m *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.resize(message.Width, message.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(message)

	case tea.MouseMsg:
		return m.handleMouse(message)

	case picker.CommitMsg:
		return m, m.commit(message)

	case picker.CloseMsg:
		m.hidePicker()
		return m, nil

	case picker.TilesMsg:
		return m, m.picker.Update(message)

	case msg.ToastMsg:
		m.toast = message.Message
		m.toastErr = message.IsError
		return m, tea.Tick(message.Duration, func(time.Time) tea.Msg {
			return msg.ToastExpiredMsg{}
		})

	case msg.ToastExpiredMsg:
		m.toast = ""
		return m, nil

	case msg.ConfigReloadedMsg:
		return m, tea.Batch(m.applyConfig(), m.waitForReload())
	}

	if m.showPicker {
		return m, m.picker.Update(message)
	}
	return m, m.doc.Update(message)
}

func (m *Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case m.openKey():
		if !m.showPicker {
			return m, m.ShowPicker(shortcodePrefill(m.doc.Value()))
		}
		return m, nil
	}

	if m.showPicker {
		return m, m.picker.Update(key)
	}
	return m, m.doc.Update(key)
}

func (m *Model) handleMouse(mouseMsg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.showPicker {
		return m, nil
	}

	ox, oy := ui.PanelOrigin(m.panelW, m.panelH, m.width, m.height)
	inside := mouseMsg.X >= ox && mouseMsg.X < ox+m.panelW &&
		mouseMsg.Y >= oy && mouseMsg.Y < oy+m.panelH

	if !inside {
		// A click outside the panel dismisses it, like clicking away
		// from a popup.
		if mouseMsg.Action == tea.MouseActionPress && mouseMsg.Button == tea.MouseButtonLeft {
			m.hidePicker()
		}
		return m, nil
	}

	translated := mouseMsg
	translated.X -= ox
	translated.Y -= oy
	return m, m.picker.HandleMouse(translated)
}

// ShowPicker opens the picker panel, optionally pre-filling the search.
func (m *Model) ShowPicker(initialSearch string) tea.Cmd {
	m.showPicker = true
	m.doc.Blur()
	return m.picker.Reset(initialSearch)
}

func (m *Model) hidePicker() {
	m.showPicker = false
	m.doc.Focus()
}

// commit inserts the chosen glyph, records the use, and dismisses the
// panel.
func (m *Model) commit(c picker.CommitMsg) tea.Cmd {
	m.hidePicker()

	if err := m.inserter.Insert(c.Glyph); err != nil {
		m.logger.Warn("insert failed", "emoji", c.Name, "err", err)
		return msg.ShowError("insert failed: " + err.Error())
	}

	if m.recents != nil {
		if err := m.recents.Touch(c.Name); err != nil {
			m.logger.Warn("history update failed", "emoji", c.Name, "err", err)
		}
	}

	return msg.ShowToast(c.Glyph + " " + c.Name)
}

// applyConfig reloads preferences from disk after the watcher fires.
func (m *Model) applyConfig() tea.Cmd {
	cfg, err := config.Load()
	if err != nil {
		m.logger.Warn("config reload failed", "err", err)
		return msg.ShowError("config reload failed")
	}
	m.cfg = cfg
	m.inserter = m.buildInserter()
	m.picker.SetTone(cfg.Picker.DefaultTone)
	m.picker.SetUIOptions(cfg.UI.ShowInfoBar, cfg.UI.ShowFooter)
	return msg.ShowToast("config reloaded")
}

// waitForReload blocks on the watcher until the config file changes.
func (m *Model) waitForReload() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.watcher.Events(); !ok {
			return nil
		}
		return msg.ConfigReloadedMsg{}
	}
}

func (m *Model) resize(w, h int) {
	m.width = w
	m.height = h
	m.doc.SetSize(w, h-2)

	pw := min(w-8, 46)
	ph := min(h-4, 18)
	m.picker.SetSize(max(pw, 20), max(ph, 10))
}
