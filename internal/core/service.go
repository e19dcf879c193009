package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Rorical/RoriBoard/internal/api"
	"github.com/Rorical/RoriBoard/internal/config"
	"github.com/Rorical/RoriBoard/internal/confirm"
	"github.com/Rorical/RoriBoard/internal/eventbus"
	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/pager"
	"github.com/Rorical/RoriBoard/internal/session"
)

const (
	noticeLoginRequired = "Login required."
	noticeNotAuthor     = "Only the author can delete this."
	noticeExpired       = "Session expired. Please log in again."
)

// BoardService owns board state and runs every network call for the UI.
type BoardService struct {
	config   *config.Config
	profile  config.Profile
	client   *api.Client
	session  *session.Store
	state    *BoardState
	eventBus *eventbus.EventBus
	registry *confirm.Registry
	logger   *zap.Logger

	pagerMu sync.Mutex
	pager   *pager.Controller
	loadSeq atomic.Uint64

	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	unsubscribe func()
	stopOnce    sync.Once
}

// NewBoardService wires the client, session and bus together. client must
// carry the session store used for auth.
func NewBoardService(cfg *config.Config, client *api.Client, eb *eventbus.EventBus, logger *zap.Logger) *BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	profile := cfg.Current()
	ctx, cancel := context.WithCancel(context.Background())

	bs := &BoardService{
		config:   cfg,
		profile:  profile,
		client:   client,
		session:  client.Session(),
		state:    NewBoardState(),
		eventBus: eb,
		logger:   logger.Named("core"),
		pager:    pager.NewController(profile.Pager, profile.PageSize),
		ctx:      ctx,
		cancel:   cancel,
	}
	bs.registry = confirm.NewRegistry(
		confirm.WithPolicy(confirm.ParsePolicy(profile.Confirm.Policy)),
		confirm.WithTimeout(profile.Confirm.Timeout),
		confirm.WithPresenter(confirm.Presenter{
			Show: bs.showConfirmation,
			Hide: bs.hideConfirmation,
		}),
	)
	if bs.session != nil {
		bs.state.SetUser(bs.session.User())
		bs.unsubscribe = bs.session.Subscribe(bs.onSessionEvent)
	}
	bs.state.SetNotice(fmt.Sprintf("Profile: %s (%s)", cfg.ActiveProfile, profile.BaseURL))
	return bs
}

// Start pushes the initial state, resolves the signed-in user and loads page 1.
func (bs *BoardService) Start() {
	bs.pushStateToUI()
	bs.wg.Add(1)
	go bs.eventLoop()
	bs.spawn("bootstrap", func(ctx context.Context) error {
		bs.resumeSession(ctx)
		return bs.loadPage(ctx, 1)
	})
}

// resumeSession resolves the user behind a stored token. A token that no
// longer resolves gets one refresh attempt before the session is dropped.
func (bs *BoardService) resumeSession(ctx context.Context) {
	if bs.session == nil || !bs.session.Authenticated() {
		return
	}
	user, err := bs.client.Me(ctx)
	if err != nil {
		bs.logger.Warn("resolve current user", zap.Error(err))
		return
	}
	if user != nil {
		bs.state.SetUser(user)
		bs.sendToUI(eventbus.SessionEvent{User: user, LoggedIn: true})
		return
	}
	if err := bs.client.Refresh(ctx); err != nil {
		bs.logger.Info("session refresh failed", zap.Error(err))
		if err := bs.session.Logout(ctx, session.ReasonUnauthorized); err != nil {
			bs.logger.Warn("drop session", zap.Error(err))
		}
		return
	}
	bs.state.SetNotice("Session refreshed.")
}

// Stop cancels in-flight work, fails pending confirmations and waits for
// every goroutine the service started.
func (bs *BoardService) Stop() {
	bs.stopOnce.Do(func() {
		bs.cancel()
		bs.registry.Close()
		if bs.unsubscribe != nil {
			bs.unsubscribe()
		}
		bs.wg.Wait()
	})
}

// Registry exposes the confirmation registry the UI answers through.
func (bs *BoardService) Registry() *confirm.Registry {
	return bs.registry
}

func (bs *BoardService) eventLoop() {
	defer bs.wg.Done()
	for {
		select {
		case <-bs.ctx.Done():
			return
		case event, ok := <-bs.eventBus.UIToCore():
			if !ok {
				return
			}
			bs.handleUIEvent(event)
		}
	}
}

func (bs *BoardService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.ResizeEvent:
		bs.pagerMu.Lock()
		bs.pager.Resize(float64(e.Width))
		bs.pagerMu.Unlock()
		bs.pushStateToUI()
	case eventbus.LoadPageEvent:
		bs.spawn("load page", func(ctx context.Context) error { return bs.loadPage(ctx, e.Page) })
	case eventbus.ChangePageSizeEvent:
		bs.pagerMu.Lock()
		bs.pager.SetPageSize(e.PageSize)
		bs.pagerMu.Unlock()
		bs.spawn("change page size", func(ctx context.Context) error { return bs.loadPage(ctx, 1) })
	case eventbus.OpenPostEvent:
		bs.spawn("open post", func(ctx context.Context) error { return bs.openPost(ctx, e.ID) })
	case eventbus.BackToListEvent:
		bs.state.ClearThread()
		bs.sendToUI(eventbus.NavigateEvent{View: models.ListView})
		bs.spawn("back to list", func(ctx context.Context) error { return bs.loadPage(ctx, 0) })
	case eventbus.ToggleLikeEvent:
		bs.spawn("toggle like", func(ctx context.Context) error { return bs.toggleLike(ctx, e.PostID) })
	case eventbus.AddCommentEvent:
		bs.spawn("add comment", func(ctx context.Context) error { return bs.addComment(ctx, e.PostID, e.Body) })
	case eventbus.DeleteCommentEvent:
		bs.spawn("delete comment", func(ctx context.Context) error { return bs.deleteComment(ctx, e.PostID, e.CommentID) })
	case eventbus.CreatePostEvent:
		bs.spawn("create post", func(ctx context.Context) error { return bs.createPost(ctx, e.Title, e.Body) })
	case eventbus.DeletePostEvent:
		bs.spawn("delete post", func(ctx context.Context) error { return bs.deletePost(ctx, e.PostID) })
	case eventbus.LoginEvent:
		bs.spawn("login", func(ctx context.Context) error { return bs.login(ctx, e.Email, e.Password) })
	case eventbus.SignupEvent:
		bs.spawn("signup", func(ctx context.Context) error { return bs.signup(ctx, e.Email, e.Username, e.Password) })
	case eventbus.LogoutEvent:
		bs.spawn("logout", bs.logout)
	case eventbus.ConfirmationResponseEvent:
		bs.handleConfirmationResponse(e)
	}
}

// spawn runs fn off the event loop so confirmation answers keep flowing
// while fn waits on the network or on the user.
func (bs *BoardService) spawn(op string, fn func(ctx context.Context) error) {
	bs.state.Begin()
	bs.pushStateToUI()
	bs.wg.Add(1)
	go func() {
		defer bs.wg.Done()
		err := fn(bs.ctx)
		if errors.Is(err, context.Canceled) && bs.ctx.Err() != nil {
			err = nil
		}
		if err != nil {
			bs.logger.Warn("operation failed", zap.String("op", op), zap.Error(err))
		}
		bs.state.Finish(err)
		bs.pushStateToUI()
	}()
}

// loadPage fetches page (0 means the current page). When the fresh total
// puts the page past the end, the page is pulled back and fetched again.
func (bs *BoardService) loadPage(ctx context.Context, page int) error {
	seq := bs.loadSeq.Add(1)

	bs.pagerMu.Lock()
	st := bs.pager.State()
	bs.pagerMu.Unlock()
	if page < 1 {
		page = st.Page
	}

	result, err := bs.client.LoadPage(ctx, page, st.PageSize)
	if seq != bs.loadSeq.Load() {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load page %d: %w", page, err)
	}

	bs.pagerMu.Lock()
	bs.pager.SetTotal(result.Total)
	corrected := bs.pager.RequestPage(page)
	actual := bs.pager.State().Page
	bs.pagerMu.Unlock()

	if corrected {
		bs.logger.Debug("page past the end, correcting",
			zap.Int("requested", page),
			zap.Int("page", actual),
			zap.Int("total", result.Total))
		return bs.loadPage(ctx, actual)
	}
	bs.state.SetPosts(result.Posts)
	return nil
}

func (bs *BoardService) openPost(ctx context.Context, id string) error {
	thread, err := bs.client.LoadThread(ctx, id)
	if err != nil {
		return fmt.Errorf("open post %s: %w", id, err)
	}
	bs.state.SetThread(thread.Post, thread.Comments, thread.Liked)
	bs.sendToUI(eventbus.NavigateEvent{View: models.DetailView})
	return nil
}

func (bs *BoardService) requireLogin() bool {
	if bs.session != nil && bs.session.Authenticated() {
		return true
	}
	bs.state.SetNotice(noticeLoginRequired)
	return false
}

func (bs *BoardService) toggleLike(ctx context.Context, postID string) error {
	if !bs.requireLogin() {
		return nil
	}
	liked := bs.state.Liked()
	var err error
	if liked {
		err = bs.client.Unlike(ctx, postID)
	} else {
		err = bs.client.Like(ctx, postID)
	}
	if err != nil {
		return fmt.Errorf("toggle like: %w", err)
	}
	post, err := bs.client.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("refresh post: %w", err)
	}
	bs.state.UpdatePost(post, !liked)
	return nil
}

func (bs *BoardService) addComment(ctx context.Context, postID, body string) error {
	if !bs.requireLogin() {
		return nil
	}
	if strings.TrimSpace(body) == "" {
		return nil
	}
	if _, err := bs.client.AddComment(ctx, postID, body); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	thread, err := bs.client.LoadThread(ctx, postID)
	if err != nil {
		return fmt.Errorf("refresh thread: %w", err)
	}
	bs.state.SetThread(thread.Post, thread.Comments, thread.Liked)
	return nil
}

// deleteComment asks the general staged confirmation before deleting.
func (bs *BoardService) deleteComment(ctx context.Context, postID, commentID string) error {
	if !bs.requireLogin() {
		return nil
	}
	comment, ok := bs.state.Comment(commentID)
	user := bs.state.User()
	if !ok || user == nil || user.ID != comment.AuthorID {
		bs.state.SetNotice(noticeNotAuthor)
		return nil
	}

	approved, err := bs.stagedConfirm(ctx, bs.profile.Confirm.Sequence(), "Delete this comment?", confirm.Options{
		Title:             "DELETE COMMENT",
		ConfirmLabel:      "Delete",
		CancelLabel:       "Cancel",
		Danger:            true,
		DismissOnBackdrop: true,
	})
	if err != nil || !approved {
		return err
	}
	if err := bs.client.DeleteComment(ctx, postID, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	thread, err := bs.client.LoadThread(ctx, postID)
	if err != nil {
		return fmt.Errorf("refresh thread: %w", err)
	}
	bs.state.SetThread(thread.Post, thread.Comments, thread.Liked)
	bs.state.SetNotice("Comment deleted.")
	return nil
}

// createPost publishes a post and goes back to page 1 with a fresh total.
func (bs *BoardService) createPost(ctx context.Context, title, body string) error {
	if !bs.requireLogin() {
		return nil
	}
	if strings.TrimSpace(title) == "" {
		bs.state.SetNotice("Title is required.")
		return nil
	}
	if _, err := bs.client.CreatePost(ctx, title, body); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	bs.pagerMu.Lock()
	bs.pager.RequestPage(1)
	bs.pagerMu.Unlock()
	bs.sendToUI(eventbus.NavigateEvent{View: models.ListView})
	bs.state.SetNotice("Post created.")
	return bs.loadPage(ctx, 1)
}

// deletePost runs the delete-post staged confirmation and deletes only after
// every round was accepted. Nothing is changed on rejection or cancellation.
func (bs *BoardService) deletePost(ctx context.Context, postID string) error {
	if !bs.requireLogin() {
		return nil
	}
	post := bs.state.OpenPost()
	user := bs.state.User()
	if post == nil || post.ID != postID || user == nil || user.ID != post.AuthorID {
		bs.state.SetNotice(noticeNotAuthor)
		return nil
	}

	approved, err := bs.stagedConfirm(ctx, bs.profile.Confirm.DeleteSequence(), "Delete this post?", confirm.Options{
		Title:             "DELETE",
		ConfirmLabel:      "Delete",
		CancelLabel:       "Cancel",
		Danger:            true,
		DismissOnBackdrop: true,
	})
	if err != nil || !approved {
		return err
	}
	if err := bs.client.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	bs.state.ClearThread()
	bs.state.SetNotice("Post deleted.")
	bs.sendToUI(eventbus.NavigateEvent{View: models.ListView})
	return bs.loadPage(ctx, 0)
}

func (bs *BoardService) stagedConfirm(ctx context.Context, seq confirm.Sequence, base string, opts confirm.Options) (bool, error) {
	seq.OnStep = func(step, total int) {
		bs.logger.Debug("confirmation round", zap.String("message", base), zap.Int("step", step+1), zap.Int("total", total))
	}
	approved, err := seq.Run(ctx, bs.registry, base, opts)
	if err != nil {
		return false, fmt.Errorf("confirm %q: %w", base, err)
	}
	return approved, nil
}

func (bs *BoardService) login(ctx context.Context, email, password string) error {
	user, err := bs.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		bs.state.SetNotice(api.LoginFailureMessage(err))
		return fmt.Errorf("login: %w", err)
	}
	bs.state.SetUser(user)
	bs.state.SetNotice("Welcome, " + user.Username + ".")
	bs.sendToUI(eventbus.NavigateEvent{View: models.ListView})
	return nil
}

// signup registers without logging in, then returns to the login form.
func (bs *BoardService) signup(ctx context.Context, email, username, password string) error {
	if _, err := bs.client.Signup(ctx, strings.TrimSpace(email), strings.TrimSpace(username), password); err != nil {
		bs.state.SetNotice("Sign up failed.")
		return fmt.Errorf("signup: %w", err)
	}
	bs.state.SetNotice("Signed up. Please log in.")
	bs.sendToUI(eventbus.NavigateEvent{View: models.AuthView})
	return nil
}

func (bs *BoardService) logout(ctx context.Context) error {
	err := bs.client.Logout(ctx)
	bs.state.SetUser(nil)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// onSessionEvent runs on whichever goroutine changed the session.
func (bs *BoardService) onSessionEvent(ev session.Event) {
	switch ev.Kind {
	case session.EventLogin:
		bs.state.SetUser(ev.User)
		bs.sendToUI(eventbus.SessionEvent{User: ev.User, LoggedIn: true})
	case session.EventLogout:
		bs.state.SetUser(nil)
		if ev.Reason == session.ReasonUnauthorized {
			bs.state.SetNotice(noticeExpired)
		} else {
			bs.state.SetNotice("Logged out.")
		}
		bs.sendToUI(eventbus.SessionEvent{LoggedIn: false, Reason: ev.Reason})
	}
	bs.pushStateToUI()
}

func (bs *BoardService) showConfirmation(p confirm.Pending) {
	bs.sendToUI(eventbus.ConfirmationRequestEvent{ID: p.ID, Options: p.Options, Step: p.Options.Step})
}

func (bs *BoardService) hideConfirmation(id string) {
	bs.sendToUI(eventbus.ConfirmationClearedEvent{ID: id})
}

// handleConfirmationResponse handles confirmation responses from the UI
func (bs *BoardService) handleConfirmationResponse(response eventbus.ConfirmationResponseEvent) {
	if err := bs.registry.Resolve(response.ID, response.Approved); err != nil {
		bs.logger.Debug("stale confirmation answer", zap.String("id", response.ID), zap.Error(err))
	}
}

// PagerView returns the current pager window.
func (bs *BoardService) PagerView() models.PagerView {
	bs.pagerMu.Lock()
	defer bs.pagerMu.Unlock()
	w := bs.pager.Window()
	st := bs.pager.State()
	return models.PagerView{
		Start:       w.Start,
		End:         w.End,
		Page:        w.Page,
		LastPage:    w.LastPage,
		PageSize:    st.PageSize,
		Total:       st.Total,
		HasPrevious: w.HasPrevious,
		HasNext:     w.HasNext,
	}
}

func (bs *BoardService) pushStateToUI() {
	snap := bs.state.Snapshot()
	bs.sendToUI(eventbus.StateUpdateEvent{
		Posts:    snap.Posts,
		Pager:    bs.PagerView(),
		Post:     snap.Post,
		Comments: snap.Comments,
		Liked:    snap.Liked,
		User:     snap.User,
		Busy:     snap.Busy,
		Notice:   snap.Notice,
		Error:    snap.Error,
	})
}

func (bs *BoardService) sendToUI(event eventbus.CoreEvent) {
	if err := bs.eventBus.SendToUI(event); err != nil {
		bs.logger.Warn("send to UI", zap.String("event", fmt.Sprintf("%T", event)), zap.Error(err))
	}
}
