// Package client is a Go SDK for the PostCraft REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/postfilter"
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postcraft: %d %s", e.StatusCode, e.Message)
}

// Session is what signup and login return.
type Session struct {
	User  models.UserResponse `json:"user"`
	Token string              `json:"token"`
}

// Client talks to one API base URL. It keeps the session cookie in a jar and
// also sends the last issued token as a bearer header.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Jar is kept if set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken starts the client with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	}
	return c, nil
}

// Token returns the current session token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*Session, error) {
	return c.startSession(ctx, "/api/auth/signup", req)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.startSession(ctx, "/api/auth/login", models.LoginRequest{Email: email, Password: password})
}

// FirebaseLogin exchanges a Firebase ID token for a session.
func (c *Client) FirebaseLogin(ctx context.Context, idToken string) (*Session, error) {
	return c.startSession(ctx, "/api/auth/firebase", models.FirebaseLoginRequest{IDToken: idToken})
}

// Logout clears the session on both sides.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.setToken("")
	return nil
}

func (c *Client) startSession(ctx context.Context, path string, body interface{}) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, path, body, &s); err != nil {
		return nil, err
	}
	c.setToken(s.Token)
	return &s, nil
}

type userPayload struct {
	User models.UserResponse `json:"user"`
}

func (c *Client) Profile(ctx context.Context) (*models.UserResponse, error) {
	return c.user(ctx, http.MethodGet, "/api/profile", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.UserResponse, error) {
	return c.user(ctx, http.MethodPut, "/api/profile", req)
}

// SetSocials replaces every linked account; empty fields are unlinked.
func (c *Client) SetSocials(ctx context.Context, req models.SetSocialsRequest) (*models.UserResponse, error) {
	return c.user(ctx, http.MethodPut, "/api/profile/socials", req)
}

func (c *Client) DeleteSocial(ctx context.Context, platform string) (*models.UserResponse, error) {
	return c.user(ctx, http.MethodDelete, "/api/profile/socials", models.DeleteSocialRequest{Platform: platform})
}

func (c *Client) user(ctx context.Context, method, path string, body interface{}) (*models.UserResponse, error) {
	var out userPayload
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

type postPayload struct {
	Post models.Post `json:"post"`
}

type postsPayload struct {
	Posts []models.Post `json:"posts"`
}

func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	var out postPayload
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// ListPosts returns the caller's posts, newest first, filtered server-side.
func (c *Client) ListPosts(ctx context.Context, filter postfilter.Filter) ([]models.Post, error) {
	q := url.Values{}
	for key, value := range map[string]string{
		"keyword":  filter.Keyword,
		"category": filter.Category,
		"platform": filter.Platform,
		"tag":      filter.Tag,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	path := "/api/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out postsPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var out postPayload
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	var out postPayload
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil)
}

// Autocomplete asks for title ideas when field is "title", caption ideas otherwise.
func (c *Client) Autocomplete(ctx context.Context, prompt, field string) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	body := map[string]string{"prompt": prompt, "field": field}
	if err := c.do(ctx, http.MethodPost, "/api/openai/autocomplete", body, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
