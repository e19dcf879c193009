package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Rorical/RoriBoard/internal/models"
)

// DefaultCommentLimit is how many comments a thread view fetches.
const DefaultCommentLimit = 100

func window(skip, limit int) url.Values {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(max(0, skip)))
	q.Set("limit", strconv.Itoa(max(1, limit)))
	return q
}

func (c *Client) ListPosts(ctx context.Context, skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, call{op: "list posts", method: http.MethodGet, path: "/posts", query: window(skip, limit)}, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the total number of posts. A non-2xx answer counts as 0.
func (c *Client) CountPosts(ctx context.Context) (int, error) {
	var out struct {
		Total int `json:"total"`
	}
	err := c.do(ctx, call{op: "count posts", method: http.MethodGet, path: "/posts/count"}, &out)
	if StatusOf(err) != 0 {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return max(0, out.Total), nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, call{op: "get post", method: http.MethodGet, path: "/posts/" + escape(id)}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

type postInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *Client) CreatePost(ctx context.Context, title, body string) (*models.Post, error) {
	var post models.Post
	err := c.do(ctx, call{
		op:     "create post",
		method: http.MethodPost,
		path:   "/posts",
		body:   postInput{Title: title, Body: body},
		auth:   true,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id, title, body string) (*models.Post, error) {
	var post models.Post
	err := c.do(ctx, call{
		op:     "update post",
		method: http.MethodPut,
		path:   "/posts/" + escape(id),
		body:   postInput{Title: title, Body: body},
		auth:   true,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "delete post", method: http.MethodDelete, path: "/posts/" + escape(id), auth: true}, nil)
}

func (c *Client) ListComments(ctx context.Context, postID string, skip, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, call{
		op:     "list comments",
		method: http.MethodGet,
		path:   "/posts/" + escape(postID) + "/comments",
		query:  window(skip, limit),
	}, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) AddComment(ctx context.Context, postID, body string) (*models.Comment, error) {
	var comment models.Comment
	err := c.do(ctx, call{
		op:     "add comment",
		method: http.MethodPost,
		path:   "/posts/" + escape(postID) + "/comments",
		body:   map[string]string{"body": body},
		auth:   true,
	}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	return c.do(ctx, call{
		op:     "delete comment",
		method: http.MethodDelete,
		path:   "/posts/" + escape(postID) + "/comments/" + escape(commentID),
		auth:   true,
	}, nil)
}

// Liked reports whether the current user likes the post. Anonymous callers
// and non-2xx answers report false.
func (c *Client) Liked(ctx context.Context, postID string) (bool, error) {
	if c.session == nil || !c.session.Authenticated() {
		return false, nil
	}
	var out struct {
		Liked bool `json:"liked"`
	}
	err := c.do(ctx, call{op: "liked", method: http.MethodGet, path: "/posts/" + escape(postID) + "/liked", auth: true}, &out)
	if StatusOf(err) != 0 {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out.Liked, nil
}

func (c *Client) Like(ctx context.Context, postID string) error {
	return c.do(ctx, call{op: "like", method: http.MethodPost, path: "/posts/" + escape(postID) + "/likes", auth: true}, nil)
}

func (c *Client) Unlike(ctx context.Context, postID string) error {
	return c.do(ctx, call{op: "unlike", method: http.MethodDelete, path: "/posts/" + escape(postID) + "/likes", auth: true}, nil)
}
