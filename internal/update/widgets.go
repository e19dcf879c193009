package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/ui/components"
)

// Widgets holds the stateful bubbles the views draw.
type Widgets struct {
	Email    textinput.Model
	Username textinput.Model
	Password textinput.Model

	Title   textinput.Model
	Body    textarea.Model
	Comment textinput.Model

	Spinner  spinner.Model
	Markdown *components.Markdown

	authFocus    int
	composeFocus int
}

func NewWidgets() *Widgets {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	body := textarea.New()
	body.Placeholder = "Write your post (markdown)…"
	body.ShowLineNumbers = false
	body.SetHeight(10)

	comment := textinput.New()
	comment.Placeholder = "Add a comment…"
	comment.CharLimit = 2000

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Widgets{
		Email:    email,
		Username: username,
		Password: password,
		Title:    title,
		Body:     body,
		Comment:  comment,
		Spinner:  spin,
		Markdown: components.NewMarkdown(),
	}
}

// authFields lists the inputs of the auth form in tab order.
func (w *Widgets) authFields(mode models.AuthMode) []*textinput.Model {
	if mode == models.SignupMode {
		return []*textinput.Model{&w.Email, &w.Username, &w.Password}
	}
	return []*textinput.Model{&w.Email, &w.Password}
}

// FocusAuth focuses field i of the auth form, wrapping around.
func (w *Widgets) FocusAuth(mode models.AuthMode, i int) {
	fields := w.authFields(mode)
	w.Username.Blur()
	i = (i%len(fields) + len(fields)) % len(fields)
	for j, f := range fields {
		if j == i {
			f.Focus()
		} else {
			f.Blur()
		}
	}
	w.authFocus = i
}

func (w *Widgets) AuthFocus() int { return w.authFocus }

func (w *Widgets) ResetAuth() {
	w.Email.Reset()
	w.Username.Reset()
	w.Password.Reset()
	w.blurAuth()
	w.authFocus = 0
}

func (w *Widgets) blurAuth() {
	w.Email.Blur()
	w.Username.Blur()
	w.Password.Blur()
}

// FocusCompose focuses the title (0) or the body (1).
func (w *Widgets) FocusCompose(i int) {
	w.composeFocus = i % 2
	if w.composeFocus == 0 {
		w.Body.Blur()
		w.Title.Focus()
		return
	}
	w.Title.Blur()
	w.Body.Focus()
}

func (w *Widgets) ComposeFocus() int { return w.composeFocus }

func (w *Widgets) ResetCompose() {
	w.Title.Reset()
	w.Body.Reset()
	w.Title.Blur()
	w.Body.Blur()
	w.composeFocus = 0
}

// Resize adapts input widths to the terminal.
func (w *Widgets) Resize(width int) {
	inner := max(width-8, 10)
	w.Email.Width = inner
	w.Username.Width = inner
	w.Password.Width = inner
	w.Title.Width = inner
	w.Comment.Width = inner
	w.Body.SetWidth(inner)
}
