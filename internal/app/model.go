package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/update"
	"github.com/Rorical/RoriBoard/ui/components"
	"github.com/Rorical/RoriBoard/ui/styles"
)

const (
	listHelp    = "↑/↓ select · enter open · ←/→ page · {/} window · s per page · c compose · a login · L logout · r reload · q quit"
	detailHelp  = "l like · c comment · ↑/↓ comments · x delete comment · d delete post · r reload · esc back"
	commentHelp = "enter send · esc cancel"
	composeHelp = "tab switch field · ctrl+s publish · esc cancel"
	authHelp    = "tab next field · enter submit · ctrl+t login/signup · esc cancel"
)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.widgets.Spinner.Tick,
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, m.widgets, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	eventBus := m.dispatcher.GetEventBus()
	cmd := update.HandleUpdateWithEventBus(&m.appModel, m.widgets, msg, eventBus)
	return m, cmd
}

func (m *AppModel) View() string {
	am := &m.appModel
	width := am.Width
	if width <= 0 {
		width = 80
	}

	if am.PendingConfirmation != nil {
		return components.RenderModal(am.PendingConfirmation, width, max(am.Height-1, 0)) + "\n" + m.renderStatus(width)
	}

	var b strings.Builder
	b.WriteString(styles.HeaderStyle(width).Render("RoriBoard · " + am.View.String()))
	b.WriteString("\n\n")

	help := listHelp
	switch am.View {
	case models.DetailView:
		b.WriteString(components.RenderThread(components.Thread{
			Post:          am.Post,
			Comments:      am.Comments,
			CommentCursor: am.CommentCursor,
			Liked:         am.Liked,
			User:          am.User,
		}, m.widgets.Markdown, width))
		b.WriteString("\n")
		help = detailHelp
		if am.FocusComment {
			b.WriteString(components.RenderInput(m.widgets.Comment.View(), true, width) + "\n")
			help = commentHelp
		}
	case models.ComposeView:
		b.WriteString(components.RenderComposer(m.widgets.Title.View(), m.widgets.Body.View(), m.widgets.ComposeFocus(), width))
		help = composeHelp
	case models.AuthView:
		b.WriteString(components.RenderAuth(components.AuthForm{
			Mode:     am.AuthMode,
			Email:    m.widgets.Email.View(),
			Username: m.widgets.Username.View(),
			Password: m.widgets.Password.View(),
			Focus:    m.widgets.AuthFocus(),
		}, width))
		help = authHelp
	default:
		b.WriteString(components.RenderPostList(am.Posts, am.Cursor, am.Loading, width))
		b.WriteString("\n")
		b.WriteString(components.RenderPager(am.Pager))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if line := components.RenderMessages(am.Notice, am.Err, width); line != "" {
		b.WriteString(line + "\n")
	}
	b.WriteString(components.RenderHelp(help) + "\n")
	b.WriteString(m.renderStatus(width))
	return b.String()
}

func (m *AppModel) renderStatus(width int) string {
	am := &m.appModel
	return components.RenderStatus(components.Status{
		Text:        am.Status,
		Loading:     am.Loading,
		LoadingDots: am.LoadingDots,
		Spinner:     m.widgets.Spinner.View(),
		User:        am.User,
		Profile:     m.profile,
	}, width)
}
