package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/pager"
)

// Page is one listing page plus the total it was cut from.
type Page struct {
	Posts []models.Post
	Total int
}

// LoadPage fetches the posts for page and the total count concurrently.
func (c *Client) LoadPage(ctx context.Context, page, pageSize int) (Page, error) {
	skip, limit := pager.SkipLimit(page, pageSize)
	g, gctx := errgroup.WithContext(ctx)

	var out Page
	g.Go(func() error {
		posts, err := c.ListPosts(gctx, skip, limit)
		out.Posts = posts
		return err
	})
	g.Go(func() error {
		total, err := c.CountPosts(gctx)
		out.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}
	return out, nil
}

// Thread is a post with its comments and the caller's like state.
type Thread struct {
	Post     *models.Post
	Comments []models.Comment
	Liked    bool
}

// LoadThread fetches a post, its comments and the like flag concurrently.
func (c *Client) LoadThread(ctx context.Context, postID string) (Thread, error) {
	g, gctx := errgroup.WithContext(ctx)

	var out Thread
	g.Go(func() error {
		post, err := c.GetPost(gctx, postID)
		out.Post = post
		return err
	})
	g.Go(func() error {
		comments, err := c.ListComments(gctx, postID, 0, DefaultCommentLimit)
		out.Comments = comments
		return err
	})
	g.Go(func() error {
		liked, err := c.Liked(gctx, postID)
		out.Liked = liked
		return err
	})
	if err := g.Wait(); err != nil {
		return Thread{}, err
	}
	return out, nil
}
