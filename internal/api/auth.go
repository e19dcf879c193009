package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/session"
)

var ErrNoSession = errors.New("api: client has no session store")

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	if c.session == nil {
		return nil, ErrNoSession
	}
	var tok tokenResponse
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &tok)
	if err != nil {
		return nil, err
	}
	if err := c.session.Login(ctx, tok.AccessToken, &tok.User); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &tok.User, nil
}

// Signup registers an account. It does not log in.
func (c *Client) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, call{
		op:     "signup",
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   map[string]string{"email": email, "username": username, "password": password},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Me resolves the current user. Any non-2xx answer yields a nil user and no
// error; transport failures are still returned.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	if c.session == nil || !c.session.Authenticated() {
		return nil, nil
	}
	var user models.User
	err := c.do(ctx, call{op: "me", method: http.MethodGet, path: "/auth/me", auth: true}, &user)
	if StatusOf(err) != 0 {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.session.SetUser(&user)
	return &user, nil
}

// Refresh trades the refresh cookie for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	if c.session == nil {
		return ErrNoSession
	}
	var tok tokenResponse
	if err := c.do(ctx, call{op: "refresh", method: http.MethodPost, path: "/auth/refresh"}, &tok); err != nil {
		return err
	}
	user := &tok.User
	if user.ID == "" {
		user = c.session.User()
	}
	return c.session.Login(ctx, tok.AccessToken, user)
}

// Logout tells the service and then clears the local session regardless of
// the outcome.
func (c *Client) Logout(ctx context.Context) error {
	if c.session == nil {
		return ErrNoSession
	}
	var remoteErr error
	if c.session.Authenticated() {
		remoteErr = c.do(ctx, call{op: "logout", method: http.MethodPost, path: "/auth/logout", auth: true}, nil)
	}
	if err := c.session.Logout(ctx, session.ReasonUser); err != nil {
		return errors.Join(remoteErr, err)
	}
	return remoteErr
}
