package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Rorical/RoriBoard/internal/session"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	defaultTimeout = 10 * time.Second
)

// Client talks to the board REST service. Every call is a single attempt.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	logger  *zap.Logger
	timeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds each call. Zero leaves only the caller's deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New builds a client for baseURL. A nil store yields an anonymous client.
func New(baseURL string, store *session.Store, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		session: store,
		logger:  zap.NewNop(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Session() *session.Store { return c.session }

// APIError is a non-2xx response.
type APIError struct {
	Op      string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.Message)
	if code := strings.TrimSpace(e.Code); code != "" {
		if msg == "" {
			msg = code
		} else {
			msg = code + ": " + msg
		}
	}
	if msg == "" {
		return fmt.Sprintf("%s: http %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: http %d: %s", e.Op, e.Status, msg)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, rc call, out any) error {
	u := c.baseURL + rc.path
	if len(rc.query) > 0 {
		u += "?" + rc.query.Encode()
	}
	if c.timeout > 0 {
		if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) > c.timeout {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	var reqBody io.Reader
	if rc.body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(rc.body); err != nil {
			return fmt.Errorf("%s: encode request body: %w", rc.op, err)
		}
		reqBody = buf
	}
	req, err := http.NewRequestWithContext(ctx, rc.method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", rc.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if rc.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rc.auth && c.session != nil {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("op", rc.op),
			zap.String("method", rc.method),
			zap.String("path", rc.path),
			zap.Error(err))
		return fmt.Errorf("%s: %w", rc.op, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", rc.op, err)
	}
	c.logger.Debug("request",
		zap.String("op", rc.op),
		zap.String("method", rc.method),
		zap.String("path", rc.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode == http.StatusUnauthorized && c.session != nil {
		if err := c.session.Logout(context.WithoutCancel(ctx), session.ReasonUnauthorized); err != nil {
			c.logger.Warn("clear session after 401", zap.Error(err))
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(rc.op, resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", rc.op, err)
	}
	return nil
}

// decodeError reads the service's detail payload, which is either a plain
// string, a {code, message} object or a list of validation issues.
func decodeError(op string, status int, payload []byte) *APIError {
	apiErr := &APIError{Op: op, Status: status}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || len(envelope.Detail) == 0 {
		apiErr.Message = strings.TrimSpace(string(payload))
		return apiErr
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		apiErr.Message = text
		return apiErr
	}
	var structured struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Detail, &structured); err == nil {
		apiErr.Code = structured.Code
		apiErr.Message = structured.Message
		return apiErr
	}
	var issues []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				msgs = append(msgs, issue.Msg)
			}
		}
		apiErr.Code = "validation_error"
		apiErr.Message = strings.Join(msgs, "; ")
		return apiErr
	}
	apiErr.Message = string(envelope.Detail)
	return apiErr
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
