package eventbus

import (
	"github.com/Rorical/RoriBoard/internal/confirm"
	"github.com/Rorical/RoriBoard/internal/models"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// LoadPageEvent asks for a listing page. Zero reloads the current page.
type LoadPageEvent struct {
	Page int
}

// ResizeEvent reports the width available to the pager bar.
type ResizeEvent struct {
	Width int
}

type ChangePageSizeEvent struct {
	PageSize int
}

type OpenPostEvent struct {
	ID string
}

// BackToListEvent leaves the thread view and refreshes the listing.
type BackToListEvent struct{}

type ToggleLikeEvent struct {
	PostID string
}

type AddCommentEvent struct {
	PostID string
	Body   string
}

type DeleteCommentEvent struct {
	PostID    string
	CommentID string
}

type CreatePostEvent struct {
	Title string
	Body  string
}

type DeletePostEvent struct {
	PostID string
}

type LoginEvent struct {
	Email    string
	Password string
}

type SignupEvent struct {
	Email    string
	Username string
	Password string
}

type LogoutEvent struct{}

// ConfirmationResponseEvent - UI sends user's confirmation decision back to Core
type ConfirmationResponseEvent struct {
	ID       string // Must match the ID from ConfirmationRequestEvent
	Approved bool
}

func (LoadPageEvent) UIEvent()             {}
func (ResizeEvent) UIEvent()               {}
func (ChangePageSizeEvent) UIEvent()       {}
func (OpenPostEvent) UIEvent()             {}
func (BackToListEvent) UIEvent()           {}
func (ToggleLikeEvent) UIEvent()           {}
func (AddCommentEvent) UIEvent()           {}
func (DeleteCommentEvent) UIEvent()        {}
func (CreatePostEvent) UIEvent()           {}
func (DeletePostEvent) UIEvent()           {}
func (LoginEvent) UIEvent()                {}
func (SignupEvent) UIEvent()               {}
func (LogoutEvent) UIEvent()               {}
func (ConfirmationResponseEvent) UIEvent() {}

// StateUpdateEvent - Core pushes a full board snapshot to UI
type StateUpdateEvent struct {
	Posts    []models.Post
	Pager    models.PagerView
	Post     *models.Post
	Comments []models.Comment
	Liked    bool
	User     *models.User
	Busy     bool
	Notice   string
	Error    error
}

// NavigateEvent moves the UI to another view after a core-side action.
type NavigateEvent struct {
	View models.View
}

// ConfirmationRequestEvent - Core shows one confirmation round
type ConfirmationRequestEvent struct {
	ID      string
	Options confirm.Options
	Step    int
}

// ConfirmationClearedEvent hides the confirmation with ID.
type ConfirmationClearedEvent struct {
	ID string
}

// SessionEvent reports a login or logout.
type SessionEvent struct {
	User     *models.User
	LoggedIn bool
	Reason   string
}

func (StateUpdateEvent) CoreEvent()         {}
func (NavigateEvent) CoreEvent()            {}
func (ConfirmationRequestEvent) CoreEvent() {}
func (ConfirmationClearedEvent) CoreEvent() {}
func (SessionEvent) CoreEvent()             {}
