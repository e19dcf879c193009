package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/ui/styles"
)

// RenderInput frames an input view, highlighting it when focused.
func RenderInput(view string, focused bool, width int) string {
	if focused {
		return styles.FocusedInputStyle(width).Render(view)
	}
	return styles.InputStyle(width).Render(view)
}

// AuthForm carries the rendered inputs of the login/signup form.
type AuthForm struct {
	Mode     models.AuthMode
	Email    string
	Username string
	Password string
	Focus    int
}

func RenderAuth(f AuthForm, width int) string {
	login := styles.ButtonStyle(f.Mode == models.LoginMode, false).Render("Log in")
	signup := styles.ButtonStyle(f.Mode == models.SignupMode, false).Render("Sign up")

	fields := []string{f.Email, f.Password}
	if f.Mode == models.SignupMode {
		fields = []string{f.Email, f.Username, f.Password}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, login, signup) + "\n\n")
	for i, view := range fields {
		b.WriteString(RenderInput(view, i == f.Focus, width) + "\n")
	}
	return b.String()
}

func RenderComposer(title, body string, focus int, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("New post") + "\n\n")
	b.WriteString(RenderInput(title, focus == 0, width) + "\n")
	b.WriteString(RenderInput(body, focus == 1, width) + "\n")
	return b.String()
}
