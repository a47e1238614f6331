// Package msg defines messages shared between the app shell and its
// components.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultToastDuration is how long toasts stay visible unless the
// sender asks otherwise.
const DefaultToastDuration = 2 * time.Second

// ToastMsg displays a temporary status message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool
}

// ToastExpiredMsg hides the toast after its duration elapses.
type ToastExpiredMsg struct{}

// ShowToast returns a command showing a success toast.
func ShowToast(message string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: DefaultToastDuration}
	}
}

// ShowError returns a command showing an error toast.
func ShowError(message string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: DefaultToastDuration, IsError: true}
	}
}

// ConfigReloadedMsg signals that the config file changed on disk and
// the new values have been loaded.
type ConfigReloadedMsg struct{}
