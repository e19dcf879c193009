package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriBoard/internal/eventbus"
	"github.com/Rorical/RoriBoard/internal/models"
)

func HandleUpdateWithEventBus(m *models.AppModel, w *Widgets, msg tea.Msg, eb *eventbus.EventBus) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(m, w, msg, eb)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(m, w, msg, eb)
		return nil
	case TickMsg:
		return HandleTickMsg(m)
	case CoreEventMsg:
		return HandleCoreEvent(m, w, msg)
	case spinner.TickMsg:
		if !m.Loading {
			return nil
		}
		var cmd tea.Cmd
		w.Spinner, cmd = w.Spinner.Update(msg)
		return cmd
	}
	return forwardToFocused(m, w, msg)
}

// forwardToFocused passes cursor blinks and similar messages to the input
// that currently has focus.
func forwardToFocused(m *models.AppModel, w *Widgets, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.View == models.AuthView:
		f := w.authFields(m.AuthMode)[w.AuthFocus()]
		*f, cmd = f.Update(msg)
	case m.View == models.ComposeView && w.ComposeFocus() == 0:
		w.Title, cmd = w.Title.Update(msg)
	case m.View == models.ComposeView:
		w.Body, cmd = w.Body.Update(msg)
	case m.View == models.DetailView && m.FocusComment:
		w.Comment, cmd = w.Comment.Update(msg)
	}
	return cmd
}
