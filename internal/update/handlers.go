package update

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriBoard/internal/eventbus"
	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/pager"
)

const (
	hintLoginRequired = "Login required."
	hintTitleRequired = "Title is required."
	hintCredentials   = "Email and password are required."
	hintSignupFields  = "Email, username and password are required."
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(m *models.AppModel, w *Widgets, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	if keyMsg.String() == "ctrl+c" {
		return tea.Quit
	}
	// an open confirmation swallows every key
	if m.PendingConfirmation != nil {
		handleModalKey(m, keyMsg, eb)
		return nil
	}
	switch m.View {
	case models.DetailView:
		return handleDetailKey(m, w, keyMsg, eb)
	case models.ComposeView:
		return handleComposeKey(m, w, keyMsg, eb)
	case models.AuthView:
		return handleAuthKey(m, w, keyMsg, eb)
	default:
		return handleListKey(m, w, keyMsg, eb)
	}
}

func send(m *models.AppModel, eb *eventbus.EventBus, ev eventbus.UIEvent) {
	if err := eb.SendToCore(ev); err != nil {
		m.Status = "Error: " + err.Error()
	}
}

func handleListKey(m *models.AppModel, w *Widgets, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	pv := m.Pager
	switch keyMsg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Posts)-1 {
			m.Cursor++
		}
	case "enter":
		if p, ok := m.SelectedPost(); ok {
			send(m, eb, eventbus.OpenPostEvent{ID: p.ID})
		}
	case "left", "[":
		if pv.Page > 1 {
			send(m, eb, eventbus.LoadPageEvent{Page: pv.Page - 1})
		}
	case "right", "]":
		if pv.Page < pv.LastPage {
			send(m, eb, eventbus.LoadPageEvent{Page: pv.Page + 1})
		}
	case "{":
		if pv.HasPrevious {
			send(m, eb, eventbus.LoadPageEvent{Page: pv.PreviousTarget()})
		}
	case "}":
		if pv.HasNext {
			send(m, eb, eventbus.LoadPageEvent{Page: pv.NextTarget()})
		}
	case "g", "home":
		if pv.Page != 1 {
			send(m, eb, eventbus.LoadPageEvent{Page: 1})
		}
	case "G", "end":
		if pv.LastPage > 0 && pv.Page != pv.LastPage {
			send(m, eb, eventbus.LoadPageEvent{Page: pv.LastPage})
		}
	case "s":
		send(m, eb, eventbus.ChangePageSizeEvent{PageSize: nextPageSize(pv.PageSize)})
	case "r":
		send(m, eb, eventbus.LoadPageEvent{})
	case "c":
		if m.User == nil {
			m.Notice = hintLoginRequired
			return openAuth(m, w, models.LoginMode)
		}
		m.View = models.ComposeView
		w.ResetCompose()
		w.FocusCompose(0)
		return textinput.Blink
	case "a":
		if m.User == nil {
			return openAuth(m, w, models.LoginMode)
		}
	case "L":
		if m.User != nil {
			send(m, eb, eventbus.LogoutEvent{})
		}
	}
	return nil
}

// nextPageSize cycles through the per-page options.
func nextPageSize(current int) int {
	i := slices.Index(pager.PageSizeOptions, current)
	return pager.PageSizeOptions[(i+1)%len(pager.PageSizeOptions)]
}

func openAuth(m *models.AppModel, w *Widgets, mode models.AuthMode) tea.Cmd {
	m.View = models.AuthView
	m.AuthMode = mode
	w.ResetAuth()
	w.FocusAuth(mode, 0)
	return textinput.Blink
}

func handleDetailKey(m *models.AppModel, w *Widgets, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	if m.FocusComment {
		switch keyMsg.String() {
		case "esc":
			m.FocusComment = false
			w.Comment.Blur()
		case "enter":
			body := strings.TrimSpace(w.Comment.Value())
			if body != "" && m.Post != nil {
				send(m, eb, eventbus.AddCommentEvent{PostID: m.Post.ID, Body: body})
				w.Comment.Reset()
			}
		default:
			var cmd tea.Cmd
			w.Comment, cmd = w.Comment.Update(keyMsg)
			return cmd
		}
		return nil
	}

	switch keyMsg.String() {
	case "q", "esc", "backspace":
		send(m, eb, eventbus.BackToListEvent{})
	case "up", "k":
		if m.CommentCursor > 0 {
			m.CommentCursor--
		}
	case "down", "j":
		if m.CommentCursor < len(m.Comments)-1 {
			m.CommentCursor++
		}
	}
	if m.Post == nil {
		return nil
	}
	switch keyMsg.String() {
	case "l":
		send(m, eb, eventbus.ToggleLikeEvent{PostID: m.Post.ID})
	case "d":
		send(m, eb, eventbus.DeletePostEvent{PostID: m.Post.ID})
	case "x":
		if c, ok := m.SelectedComment(); ok {
			send(m, eb, eventbus.DeleteCommentEvent{PostID: m.Post.ID, CommentID: c.ID})
		}
	case "r":
		send(m, eb, eventbus.OpenPostEvent{ID: m.Post.ID})
	case "c", "i":
		if m.User == nil {
			m.Notice = hintLoginRequired
			return nil
		}
		m.FocusComment = true
		return w.Comment.Focus()
	}
	return nil
}

func handleComposeKey(m *models.AppModel, w *Widgets, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch keyMsg.String() {
	case "esc":
		m.View = models.ListView
		w.ResetCompose()
		return nil
	case "tab", "shift+tab":
		w.FocusCompose(w.ComposeFocus() + 1)
		return nil
	case "ctrl+s":
		title := strings.TrimSpace(w.Title.Value())
		if title == "" {
			m.Notice = hintTitleRequired
			w.FocusCompose(0)
			return nil
		}
		send(m, eb, eventbus.CreatePostEvent{Title: title, Body: w.Body.Value()})
		return nil
	case "enter":
		if w.ComposeFocus() == 0 {
			w.FocusCompose(1)
			return nil
		}
	}

	var cmd tea.Cmd
	if w.ComposeFocus() == 0 {
		w.Title, cmd = w.Title.Update(keyMsg)
	} else {
		w.Body, cmd = w.Body.Update(keyMsg)
	}
	return cmd
}

func handleAuthKey(m *models.AppModel, w *Widgets, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	fields := w.authFields(m.AuthMode)
	switch keyMsg.String() {
	case "esc":
		m.View = models.ListView
		w.ResetAuth()
		return nil
	case "ctrl+t":
		if m.AuthMode == models.LoginMode {
			m.AuthMode = models.SignupMode
		} else {
			m.AuthMode = models.LoginMode
		}
		w.FocusAuth(m.AuthMode, 0)
		return nil
	case "tab", "down":
		w.FocusAuth(m.AuthMode, w.AuthFocus()+1)
		return nil
	case "shift+tab", "up":
		w.FocusAuth(m.AuthMode, w.AuthFocus()-1)
		return nil
	case "enter":
		if w.AuthFocus() < len(fields)-1 {
			w.FocusAuth(m.AuthMode, w.AuthFocus()+1)
			return nil
		}
		submitAuth(m, w, eb)
		return nil
	}

	var cmd tea.Cmd
	f := fields[w.AuthFocus()]
	*f, cmd = f.Update(keyMsg)
	return cmd
}

func submitAuth(m *models.AppModel, w *Widgets, eb *eventbus.EventBus) {
	email := strings.TrimSpace(w.Email.Value())
	password := w.Password.Value()
	if m.AuthMode == models.SignupMode {
		username := strings.TrimSpace(w.Username.Value())
		if email == "" || username == "" || password == "" {
			m.Notice = hintSignupFields
			return
		}
		send(m, eb, eventbus.SignupEvent{Email: email, Username: username, Password: password})
		return
	}
	if email == "" || password == "" {
		m.Notice = hintCredentials
		return
	}
	send(m, eb, eventbus.LoginEvent{Email: email, Password: password})
}

// handleModalKey answers the visible confirmation round. y and n answer
// directly, Enter activates the focused button, Esc only dismisses prompts
// that allow it.
func handleModalKey(m *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) {
	req := m.PendingConfirmation
	switch keyMsg.String() {
	case "y", "Y":
		answer(m, eb, true)
	case "n", "N":
		answer(m, eb, false)
	case "enter":
		answer(m, eb, req.ConfirmFocused)
	case "esc":
		if req.Options.DismissOnBackdrop {
			answer(m, eb, false)
		}
	case "left", "right", "h", "l", "tab", "shift+tab":
		req.ConfirmFocused = !req.ConfirmFocused
	}
}

func answer(m *models.AppModel, eb *eventbus.EventBus, approved bool) {
	id := m.PendingConfirmation.ID
	m.PendingConfirmation = nil
	send(m, eb, eventbus.ConfirmationResponseEvent{ID: id, Approved: approved})
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(m *models.AppModel, w *Widgets, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		wasLoading := m.Loading
		if event.Pager.Page != m.Pager.Page {
			m.Cursor = 0
		}
		m.Posts = event.Posts
		m.Pager = event.Pager
		m.Post = event.Post
		m.Comments = event.Comments
		m.Liked = event.Liked
		m.User = event.User
		m.Loading = event.Busy
		m.Err = event.Error
		if event.Notice != "" {
			m.Notice = event.Notice
		}
		m.ClampCursors()

		switch {
		case event.Error != nil:
			m.Status = "Error: " + event.Error.Error()
		case event.Busy:
			m.Status = "Loading"
		default:
			m.Status = "Ready"
		}
		if m.Loading && !wasLoading {
			return w.Spinner.Tick
		}

	case eventbus.NavigateEvent:
		return navigate(m, w, event.View)

	case eventbus.ConfirmationRequestEvent:
		m.PendingConfirmation = &models.ConfirmationRequest{
			ID:             event.ID,
			Options:        event.Options,
			ConfirmFocused: !event.Options.Danger,
		}

	case eventbus.ConfirmationClearedEvent:
		if m.PendingConfirmation != nil && m.PendingConfirmation.ID == event.ID {
			m.PendingConfirmation = nil
		}

	case eventbus.SessionEvent:
		m.User = event.User
		if !event.LoggedIn {
			m.FocusComment = false
			w.Comment.Blur()
			if m.View == models.ComposeView {
				return navigate(m, w, models.AuthView)
			}
		}
	}
	return nil
}

func navigate(m *models.AppModel, w *Widgets, view models.View) tea.Cmd {
	prev := m.View
	if prev == models.ComposeView && view != models.ComposeView {
		w.ResetCompose()
	}
	if prev == models.AuthView {
		w.ResetAuth()
	}
	m.View = view

	switch view {
	case models.AuthView:
		m.AuthMode = models.LoginMode
		w.FocusAuth(models.LoginMode, 0)
		return textinput.Blink
	case models.DetailView:
		m.CommentCursor = 0
		m.FocusComment = false
		w.Comment.Reset()
		w.Comment.Blur()
	}
	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// HandleWindowSizeMsg records the terminal size and hands the width to the
// core, which owns the pager window.
func HandleWindowSizeMsg(m *models.AppModel, w *Widgets, sizeMsg tea.WindowSizeMsg, eb *eventbus.EventBus) {
	m.Width = sizeMsg.Width
	m.Height = sizeMsg.Height
	w.Resize(sizeMsg.Width)
	send(m, eb, eventbus.ResizeEvent{Width: sizeMsg.Width})
}

func HandleTickMsg(m *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if m.Loading {
		m.LoadingDots = (m.LoadingDots + 1) % 4
	} else {
		m.LoadingDots = 0
	}
	return TickCmd()
}
