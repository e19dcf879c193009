package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Rorical/RoriBoard/internal/api"
	"github.com/Rorical/RoriBoard/internal/config"
	"github.com/Rorical/RoriBoard/internal/eventbus"
	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type fakeBoard struct {
	mu           sync.Mutex
	posts        []models.Post
	comments     map[string][]models.Comment
	deleted      []string
	unauthorized bool
	expired      bool
	refreshable  bool
}

func newFakeBoard(n int) *fakeBoard {
	f := &fakeBoard{comments: make(map[string][]models.Comment)}
	for i := 1; i <= n; i++ {
		f.posts = append(f.posts, models.Post{
			ID:             "p" + strconv.Itoa(i),
			Title:          fmt.Sprintf("post %d", i),
			AuthorID:       "u1",
			AuthorUsername: "rori",
		})
	}
	return f
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBoard) find(id string) (int, bool) {
	for i, p := range f.posts {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (f *fakeBoard) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		expired := f.expired && token != "fresh"
		f.mu.Unlock()
		if token == "" || expired {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "no token"})
			return
		}
		reply(w, http.StatusOK, models.User{ID: "u1", Username: "rori"})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.refreshable {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "no refresh token"})
			return
		}
		reply(w, http.StatusOK, map[string]any{
			"access_token": "fresh",
			"token_type":   "bearer",
			"user":         models.User{ID: "u1", Username: "rori"},
		})
	})
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		start := min(skip, len(f.posts))
		end := min(start+limit, len(f.posts))
		reply(w, http.StatusOK, f.posts[start:end])
	})
	mux.HandleFunc("GET /posts/count", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, map[string]int{"total": len(f.posts)})
	})
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Title, Body string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		p := models.Post{ID: "new", Title: in.Title, Body: in.Body, AuthorID: "u1"}
		f.posts = append([]models.Post{p}, f.posts...)
		reply(w, http.StatusCreated, p)
	})
	mux.HandleFunc("GET /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		i, ok := f.find(r.PathValue("id"))
		if !ok {
			reply(w, http.StatusNotFound, map[string]string{"detail": "not found"})
			return
		}
		reply(w, http.StatusOK, f.posts[i])
	})
	mux.HandleFunc("DELETE /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := r.PathValue("id")
		if i, ok := f.find(id); ok {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
		}
		f.deleted = append(f.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /posts/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, append([]models.Comment{}, f.comments[r.PathValue("id")]...))
	})
	mux.HandleFunc("GET /posts/{id}/liked", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]bool{"liked": false})
	})
	mux.HandleFunc("POST /posts/{id}/likes", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.unauthorized {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
			return
		}
		if i, ok := f.find(r.PathValue("id")); ok {
			f.posts[i].LikesCount++
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (f *fakeBoard) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type harness struct {
	bus     *eventbus.EventBus
	service *BoardService
	store   *session.Store
	board   *fakeBoard
}

func newHarness(t *testing.T, board *fakeBoard, user *models.User, tune func(*config.Profile)) *harness {
	t.Helper()

	srv := httptest.NewServer(board.handler())
	t.Cleanup(srv.Close)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	p := cfg.Profiles[config.DefaultProfile]
	p.BaseURL = srv.URL
	p.Confirm.Delay = 0
	if tune != nil {
		tune(&p)
	}
	cfg.Profiles[config.DefaultProfile] = p
	require.NoError(t, cfg.Use(config.DefaultProfile))

	store, err := session.Open(context.Background(), nil)
	require.NoError(t, err)
	if user != nil {
		require.NoError(t, store.Login(context.Background(), "tok", user))
	}

	bus := eventbus.NewEventBus()
	client := api.New(srv.URL, store, api.WithHTTPClient(srv.Client()))
	service := NewBoardService(cfg, client, bus, nil)
	service.Start()
	t.Cleanup(func() {
		service.Stop()
		srv.CloseClientConnections()
		bus.Close()
	})
	return &harness{bus: bus, service: service, store: store, board: board}
}

func waitFor[T eventbus.CoreEvent](t *testing.T, h *harness, match func(T) bool) T {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-h.bus.CoreToUI():
			if e, ok := ev.(T); ok && (match == nil || match(e)) {
				return e
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func idle(total int) func(eventbus.StateUpdateEvent) bool {
	return func(e eventbus.StateUpdateEvent) bool { return !e.Busy && e.Pager.Total == total }
}

func (h *harness) send(t *testing.T, ev eventbus.UIEvent) {
	t.Helper()
	require.NoError(t, h.bus.SendToCore(ev))
}

func TestStartLoadsFirstPage(t *testing.T) {
	h := newHarness(t, newFakeBoard(23), nil, nil)

	st := waitFor(t, h, idle(23))
	require.Len(t, st.Posts, 10)
	assert.Equal(t, "p1", st.Posts[0].ID)
	assert.Equal(t, 1, st.Pager.Page)
	assert.Equal(t, 3, st.Pager.LastPage)
	assert.False(t, st.Pager.HasPrevious)
	assert.NoError(t, st.Error)
}

func TestStartRefreshesExpiredToken(t *testing.T) {
	board := newFakeBoard(3)
	board.expired = true
	board.refreshable = true
	h := newHarness(t, board, &models.User{ID: "u1"}, nil)

	st := waitFor(t, h, func(e eventbus.StateUpdateEvent) bool {
		return !e.Busy && e.User != nil && e.Notice == "Session refreshed."
	})
	assert.Equal(t, "rori", st.User.Username)
	assert.Equal(t, "fresh", h.store.Token())
}

func TestStartDropsUnrefreshableToken(t *testing.T) {
	board := newFakeBoard(3)
	board.expired = true
	h := newHarness(t, board, &models.User{ID: "u1"}, nil)

	ev := waitFor(t, h, func(e eventbus.SessionEvent) bool { return !e.LoggedIn })
	assert.Equal(t, session.ReasonUnauthorized, ev.Reason)
	st := waitFor(t, h, idle(3))
	assert.Nil(t, st.User)
	assert.False(t, h.store.Authenticated())
}

func TestLoadPastEndSelfCorrects(t *testing.T) {
	h := newHarness(t, newFakeBoard(23), nil, nil)
	waitFor(t, h, idle(23))

	h.send(t, eventbus.LoadPageEvent{Page: 9})
	st := waitFor(t, h, func(e eventbus.StateUpdateEvent) bool {
		return !e.Busy && e.Pager.Page == 3 && len(e.Posts) == 3
	})
	assert.Equal(t, "p21", st.Posts[0].ID)
	assert.Equal(t, 3, st.Pager.End)
}

func TestResizeAndPageSize(t *testing.T) {
	h := newHarness(t, newFakeBoard(200), nil, nil)
	waitFor(t, h, idle(200))

	h.send(t, eventbus.LoadPageEvent{Page: 12})
	waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return !e.Busy && e.Pager.Page == 12 })

	h.send(t, eventbus.ResizeEvent{Width: 26})
	st := waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return e.Pager.End-e.Pager.Start == 2 })
	assert.Equal(t, 10, st.Pager.Start)
	assert.Equal(t, 12, st.Pager.End)
	assert.True(t, st.Pager.HasPrevious)
	assert.True(t, st.Pager.HasNext)

	h.send(t, eventbus.ChangePageSizeEvent{PageSize: 30})
	st = waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return !e.Busy && e.Pager.PageSize == 30 })
	assert.Equal(t, 1, st.Pager.Page)
	assert.Equal(t, 7, st.Pager.LastPage)
	assert.Len(t, st.Posts, 30)
}

func openPost(t *testing.T, h *harness, id string) {
	t.Helper()
	h.send(t, eventbus.OpenPostEvent{ID: id})
	waitFor(t, h, func(e eventbus.NavigateEvent) bool { return e.View == models.DetailView })
}

func TestDeletePostAfterEveryRoundAccepted(t *testing.T) {
	h := newHarness(t, newFakeBoard(5), &models.User{ID: "u1", Username: "rori"}, func(p *config.Profile) {
		p.Confirm.DeleteP = 1
		p.Confirm.DeleteMax = 3
	})
	waitFor(t, h, idle(5))
	openPost(t, h, "p2")

	h.send(t, eventbus.DeletePostEvent{PostID: "p2"})
	for i := 0; i < 3; i++ {
		req := waitFor[eventbus.ConfirmationRequestEvent](t, h, nil)
		assert.Equal(t, strings.Repeat("really ", i)+"Delete this post?", req.Options.Message)
		assert.Equal(t, i+1, req.Step)
		assert.True(t, req.Options.Danger)
		assert.Empty(t, h.board.deletedIDs(), "nothing is deleted before the last round")
		h.send(t, eventbus.ConfirmationResponseEvent{ID: req.ID, Approved: true})
	}

	waitFor(t, h, func(e eventbus.NavigateEvent) bool { return e.View == models.ListView })
	st := waitFor(t, h, idle(4))
	assert.Equal(t, []string{"p2"}, h.board.deletedIDs())
	assert.Equal(t, "Post deleted.", st.Notice)
	assert.Nil(t, st.Post)
}

func TestDeletePostRejectedMidway(t *testing.T) {
	h := newHarness(t, newFakeBoard(5), &models.User{ID: "u1", Username: "rori"}, func(p *config.Profile) {
		p.Confirm.DeleteP = 1
		p.Confirm.DeleteMax = 3
	})
	waitFor(t, h, idle(5))
	openPost(t, h, "p1")

	h.send(t, eventbus.DeletePostEvent{PostID: "p1"})
	first := waitFor[eventbus.ConfirmationRequestEvent](t, h, nil)
	h.send(t, eventbus.ConfirmationResponseEvent{ID: first.ID, Approved: true})
	second := waitFor[eventbus.ConfirmationRequestEvent](t, h, nil)
	h.send(t, eventbus.ConfirmationResponseEvent{ID: second.ID, Approved: false})

	waitFor(t, h, func(e eventbus.ConfirmationClearedEvent) bool { return e.ID == second.ID })
	st := waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return !e.Busy })
	assert.Empty(t, h.board.deletedIDs())
	require.NotNil(t, st.Post)
	assert.Equal(t, "p1", st.Post.ID)
	assert.Equal(t, 0, h.service.Registry().Len())
}

func TestDeletePostRequiresAuthor(t *testing.T) {
	h := newHarness(t, newFakeBoard(2), &models.User{ID: "u2", Username: "other"}, nil)
	waitFor(t, h, idle(2))

	// the fake /auth/me always answers u1; pin the viewer to someone else
	h.service.state.SetUser(&models.User{ID: "u2"})
	openPost(t, h, "p1")
	h.send(t, eventbus.DeletePostEvent{PostID: "p1"})

	waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return e.Notice == noticeNotAuthor })
	assert.Empty(t, h.board.deletedIDs())
	assert.Equal(t, 0, h.service.Registry().Len())
}

func TestDeleteRequiresLogin(t *testing.T) {
	h := newHarness(t, newFakeBoard(2), nil, nil)
	waitFor(t, h, idle(2))
	openPost(t, h, "p1")

	h.send(t, eventbus.DeletePostEvent{PostID: "p1"})
	waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return e.Notice == noticeLoginRequired })
	assert.Empty(t, h.board.deletedIDs())
}

func TestUnauthorizedResponseLogsOut(t *testing.T) {
	board := newFakeBoard(2)
	board.unauthorized = true
	h := newHarness(t, board, &models.User{ID: "u1", Username: "rori"}, nil)
	waitFor(t, h, idle(2))
	openPost(t, h, "p1")

	h.send(t, eventbus.ToggleLikeEvent{PostID: "p1"})
	ev := waitFor(t, h, func(e eventbus.SessionEvent) bool { return !e.LoggedIn })
	assert.Equal(t, session.ReasonUnauthorized, ev.Reason)
	assert.False(t, h.store.Authenticated())

	st := waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return !e.Busy })
	assert.Equal(t, noticeExpired, st.Notice)
	assert.Nil(t, st.User)
	assert.Equal(t, 401, api.StatusOf(st.Error))
}

func TestToggleLikeRefreshesCounters(t *testing.T) {
	h := newHarness(t, newFakeBoard(2), &models.User{ID: "u1", Username: "rori"}, nil)
	waitFor(t, h, idle(2))
	openPost(t, h, "p1")

	h.send(t, eventbus.ToggleLikeEvent{PostID: "p1"})
	st := waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return !e.Busy && e.Liked })
	require.NotNil(t, st.Post)
	assert.Equal(t, 1, st.Post.LikesCount)
}

func TestCreatePostReturnsToFirstPage(t *testing.T) {
	h := newHarness(t, newFakeBoard(25), &models.User{ID: "u1", Username: "rori"}, nil)
	waitFor(t, h, idle(25))

	h.send(t, eventbus.LoadPageEvent{Page: 3})
	waitFor(t, h, func(e eventbus.StateUpdateEvent) bool { return !e.Busy && e.Pager.Page == 3 })

	h.send(t, eventbus.CreatePostEvent{Title: "fresh", Body: "hello"})
	waitFor(t, h, func(e eventbus.NavigateEvent) bool { return e.View == models.ListView })
	st := waitFor(t, h, idle(26))
	assert.Equal(t, 1, st.Pager.Page)
	assert.Equal(t, "new", st.Posts[0].ID)
	assert.Equal(t, "Post created.", st.Notice)
}

func TestStopFailsPendingConfirmation(t *testing.T) {
	h := newHarness(t, newFakeBoard(1), &models.User{ID: "u1", Username: "rori"}, func(p *config.Profile) {
		p.Confirm.DeleteP = 0
	})
	waitFor(t, h, idle(1))
	openPost(t, h, "p1")

	h.send(t, eventbus.DeletePostEvent{PostID: "p1"})
	waitFor[eventbus.ConfirmationRequestEvent](t, h, nil)

	h.service.Stop()
	assert.Empty(t, h.board.deletedIDs())
	assert.Equal(t, 0, h.service.Registry().Len())
}
