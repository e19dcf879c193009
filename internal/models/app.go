package models

import "github.com/Rorical/RoriBoard/internal/confirm"

type View int

const (
	ListView View = iota
	DetailView
	ComposeView
	AuthView
)

func (v View) String() string {
	switch v {
	case ListView:
		return "list"
	case DetailView:
		return "detail"
	case ComposeView:
		return "compose"
	case AuthView:
		return "auth"
	}
	return "unknown"
}

type AuthMode int

const (
	LoginMode AuthMode = iota
	SignupMode
)

// PagerView is the pager bar as the core computed it.
type PagerView struct {
	Start       int
	End         int
	Page        int
	LastPage    int
	PageSize    int
	Total       int
	HasPrevious bool
	HasNext     bool
}

// PreviousTarget is the page the left arrow jumps to.
func (p PagerView) PreviousTarget() int {
	return max(1, p.Start-1)
}

// NextTarget is the page the right arrow jumps to.
func (p PagerView) NextTarget() int {
	return p.End + 1
}

// ConfirmationRequest is the visible step of a staged confirmation.
type ConfirmationRequest struct {
	ID      string
	Options confirm.Options
	// ConfirmFocused selects which button Enter activates.
	ConfirmFocused bool
}

// AppModel is UI-local state. Board data arrives from core snapshots.
type AppModel struct {
	View          View
	Posts         []Post
	Cursor        int
	Pager         PagerView
	Post          *Post
	Comments      []Comment
	CommentCursor int
	Liked         bool
	User          *User
	Notice        string

	AuthMode     AuthMode
	FocusComment bool

	Status      string
	Loading     bool
	LoadingDots int
	Width       int
	Height      int
	Err         error

	PendingConfirmation *ConfirmationRequest
}

// SelectedPost is the post under the list cursor.
func (m *AppModel) SelectedPost() (Post, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Posts) {
		return Post{}, false
	}
	return m.Posts[m.Cursor], true
}

// SelectedComment is the comment under the thread cursor.
func (m *AppModel) SelectedComment() (Comment, bool) {
	if m.CommentCursor < 0 || m.CommentCursor >= len(m.Comments) {
		return Comment{}, false
	}
	return m.Comments[m.CommentCursor], true
}

// ClampCursors keeps both cursors inside their lists.
func (m *AppModel) ClampCursors() {
	m.Cursor = clampIndex(m.Cursor, len(m.Posts))
	m.CommentCursor = clampIndex(m.CommentCursor, len(m.Comments))
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
