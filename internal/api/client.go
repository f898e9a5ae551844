package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/ttdash/internal/model"
)

// DefaultTimeout bounds a single round trip to the runtime.
const DefaultTimeout = 30 * time.Second

// BaseURL returns the REST root of a hosted runtime app, e.g.
// https://solutions.slingrs.io/prod/runtime/api.
func BaseURL(app, env string) string {
	return fmt.Sprintf("https://%s.slingrs.io/%s/runtime/api", app, env)
}

// Client is an authenticated client of the runtime REST API. The session token
// is carried in the Token header of every request once logged in.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logf       func(format string, args ...any)

	mu   sync.Mutex
	ts   oauth2.TokenSource
	tok  *oauth2.Token
	user *model.User
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogf replaces the warning sink, stderr by default.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(c *Client) { c.logf = logf }
}

// WithToken starts the client with a previously stored session token.
func WithToken(tok *oauth2.Token) Option {
	return func(c *Client) { c.setToken(tok) }
}

func stderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// NewClient creates a client for the runtime API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logf:       stderrf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) setToken(tok *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok == nil || tok.AccessToken == "" {
		c.tok, c.ts, c.user = nil, nil, nil
		return
	}
	// Runtime tokens are opaque and cannot be refreshed; the server decides
	// when one expired and answers 401.
	c.tok = tok
	c.ts = oauth2.StaticTokenSource(tok)
}

// Token returns the current session token, or nil when logged out.
func (c *Client) Token() *oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tok
}

// User returns the user resolved by the last Login or CurrentUser call.
func (c *Client) User() *model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// accessToken returns the token to send, or "" when there is no session.
func (c *Client) accessToken() (string, error) {
	c.mu.Lock()
	ts := c.ts
	c.mu.Unlock()
	if ts == nil {
		return "", nil
	}
	tok, err := ts.Token()
	if err != nil {
		return "", &AuthError{Reason: "session token unavailable", Err: err}
	}
	return tok.AccessToken, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	c.setToken(nil)

	var sess model.Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &sess, false); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return model.Session{}, &AuthError{Reason: "invalid email or password", Err: err}
		}
		return model.Session{}, err
	}
	if sess.Token == "" {
		return model.Session{}, &AuthError{Reason: "login response carried no token"}
	}

	c.setToken(&oauth2.Token{AccessToken: sess.Token, TokenType: "Token"})
	c.mu.Lock()
	u := sess.User
	c.user = &u
	c.mu.Unlock()
	return sess, nil
}

// Logout ends the session remotely (best effort) and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == nil {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, true)
	c.setToken(nil)
	return err
}

// CurrentUser resolves the user owning the session token.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	if c.Token() == nil {
		return model.User{}, ErrNotLoggedIn
	}
	var u model.User
	if err := c.Get(ctx, "/users/current", nil, &u); err != nil {
		return model.User{}, err
	}
	c.mu.Lock()
	c.user = &u
	c.mu.Unlock()
	return u, nil
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out, true)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, true)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any, authed bool) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if authed {
		tok, err := c.accessToken()
		if err != nil {
			return err
		}
		if tok != "" {
			req.Header.Set("Token", tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{
			Status:     resp.StatusCode,
			StatusText: strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
			Body:       string(data),
		}
		if resp.StatusCode == http.StatusUnauthorized && authed {
			return &AuthError{Reason: "invalid token or expired", Err: httpErr}
		}
		return httpErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
