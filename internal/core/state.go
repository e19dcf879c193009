package core

import (
	"sync"

	"github.com/Rorical/RoriBoard/internal/models"
)

// Snapshot is a copy of the board state safe to hand to the UI.
type Snapshot struct {
	Posts    []models.Post
	Post     *models.Post
	Comments []models.Comment
	Liked    bool
	User     *models.User
	Busy     bool
	Notice   string
	Error    error
}

// BoardState holds what the core knows about the board.
type BoardState struct {
	mu        sync.RWMutex
	posts     []models.Post
	post      *models.Post
	comments  []models.Comment
	liked     bool
	user      *models.User
	inFlight  int
	notice    string
	lastError error
}

func NewBoardState() *BoardState {
	return &BoardState{posts: make([]models.Post, 0)}
}

func (bs *BoardState) Snapshot() Snapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	snap := Snapshot{
		Posts:    append([]models.Post(nil), bs.posts...),
		Comments: append([]models.Comment(nil), bs.comments...),
		Liked:    bs.liked,
		Busy:     bs.inFlight > 0,
		Notice:   bs.notice,
		Error:    bs.lastError,
	}
	if bs.post != nil {
		p := *bs.post
		snap.Post = &p
	}
	if bs.user != nil {
		u := *bs.user
		snap.User = &u
	}
	return snap
}

// Begin marks one more request in flight and clears the last error.
func (bs *BoardState) Begin() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.inFlight++
	bs.lastError = nil
}

// Finish ends one request, recording err if it failed.
func (bs *BoardState) Finish(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.inFlight > 0 {
		bs.inFlight--
	}
	if err != nil {
		bs.lastError = err
	}
}

func (bs *BoardState) IsBusy() bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.inFlight > 0
}

func (bs *BoardState) SetError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *BoardState) GetLastError() error {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError
}

func (bs *BoardState) SetNotice(notice string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.notice = notice
}

func (bs *BoardState) SetPosts(posts []models.Post) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.posts = append(bs.posts[:0:0], posts...)
}

func (bs *BoardState) Posts() []models.Post {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return append([]models.Post(nil), bs.posts...)
}

// SetThread replaces the open post, its comments and the like flag.
func (bs *BoardState) SetThread(post *models.Post, comments []models.Comment, liked bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if post == nil {
		bs.post = nil
	} else {
		p := *post
		bs.post = &p
	}
	bs.comments = append(bs.comments[:0:0], comments...)
	bs.liked = liked
}

// UpdatePost refreshes the open post's counters if it is still open.
func (bs *BoardState) UpdatePost(post *models.Post, liked bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if post == nil || bs.post == nil || bs.post.ID != post.ID {
		return
	}
	p := *post
	bs.post = &p
	bs.liked = liked
}

func (bs *BoardState) ClearThread() {
	bs.SetThread(nil, nil, false)
}

func (bs *BoardState) OpenPost() *models.Post {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	if bs.post == nil {
		return nil
	}
	p := *bs.post
	return &p
}

func (bs *BoardState) Liked() bool {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.liked
}

func (bs *BoardState) Comment(id string) (models.Comment, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	for _, c := range bs.comments {
		if c.ID == id {
			return c, true
		}
	}
	return models.Comment{}, false
}

func (bs *BoardState) SetUser(u *models.User) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if u == nil {
		bs.user = nil
		return
	}
	copied := *u
	bs.user = &copied
}

func (bs *BoardState) User() *models.User {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	if bs.user == nil {
		return nil
	}
	u := *bs.user
	return &u
}
