package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/agilsa/GorbyJump/internal/session"
)

var (
	// ErrBackendUnavailable means the verification backend did not
	// answer (health probe or auth-url fetch failed). The caller
	// aborts the action and may alert the user.
	ErrBackendUnavailable = errors.New("client: backend unavailable")

	// ErrNotAuthenticated maps the server's 401 to "not linked"; the
	// caller re-prompts the linking flow.
	ErrNotAuthenticated = errors.New("client: not authenticated")
)

// Client is the single API surface for the verification backend. It is
// constructed with its base address and timeout; nothing else in the
// client core talks to the network directly, so no code path can
// bypass the configured endpoint.
type Client struct {
	baseURL string
	http    *http.Client

	// sessionID is the server session credential. The browser holds it
	// in the callback-set cookie; a process that was never the callback
	// target injects it here so authenticated endpoints still work.
	sessionID string
}

// New builds a Client. The cookie jar carries the session cookie the
// callback flow sets, mirroring the browser's credentialed requests.
func New(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// NewWithHTTPClient injects a custom HTTP client, for tests.
func NewWithHTTPClient(baseURL string, h *http.Client) *Client {
	return &Client{baseURL: baseURL, http: h}
}

// SetSession attaches a session credential to every subsequent
// request. An empty id clears it.
func (c *Client) SetSession(sessionID string) {
	c.sessionID = sessionID
}

// FollowStatus is the check-follow response.
type FollowStatus struct {
	Success      bool   `json:"success"`
	IsFollowing  bool   `json:"isFollowing"`
	TargetUserID string `json:"targetUserId"`
	Message      string `json:"message"`
}

// RetweetStatus is the check-retweet response.
type RetweetStatus struct {
	Success      bool   `json:"success"`
	HasRetweeted bool   `json:"hasRetweeted"`
	Message      string `json:"message"`
}

// TweetResult is the tweet-post response.
type TweetResult struct {
	Success bool   `json:"success"`
	TweetID string `json:"tweetId"`
	Message string `json:"message"`
}

// Profile is the current identity's claims.
type Profile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	DisplayName   string `json:"displayName"`
	Authenticated bool   `json:"authenticated"`
}

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// AuthURL fetches the provider authorization URL.
func (c *Client) AuthURL(ctx context.Context) (string, error) {
	var out struct {
		AuthURL string `json:"authUrl"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/twitter/url", nil, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if out.AuthURL == "" {
		return "", fmt.Errorf("%w: empty auth url", ErrBackendUnavailable)
	}
	return out.AuthURL, nil
}

// CheckFollow asks the backend whether the linked account follows
// targetUsername.
func (c *Client) CheckFollow(ctx context.Context, userID, targetUsername string) (*FollowStatus, error) {
	body := map[string]string{
		"userId":         userID,
		"targetUsername": targetUsername,
	}
	var out FollowStatus
	if err := c.do(ctx, http.MethodPost, "/api/twitter/check-follow", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckRetweet asks the backend whether the linked account retweeted
// tweetID.
func (c *Client) CheckRetweet(ctx context.Context, tweetID string) (*RetweetStatus, error) {
	body := map[string]string{"tweetId": tweetID}
	var out RetweetStatus
	if err := c.do(ctx, http.MethodPost, "/api/twitter/check-retweet", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostTweet publishes text as the linked account.
func (c *Client) PostTweet(ctx context.Context, text string) (*TweetResult, error) {
	body := map[string]string{"text": text}
	var out TweetResult
	if err := c.do(ctx, http.MethodPost, "/api/twitter/tweet", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the current identity claims.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/twitter/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the server-side session. Callers clear local state even
// when this fails.
func (c *Client) Logout(ctx context.Context) error {
	var out map[string]any
	return c.do(ctx, http.MethodPost, "/api/twitter/logout", nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: c.sessionID})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNotAuthenticated
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return decodeErrorResponse(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}
	return nil
}

func decodeErrorResponse(status int, data []byte) error {
	var parsed struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != "" {
		if parsed.Details != "" {
			return fmt.Errorf("client: api status %d: %s: %s", status, parsed.Error, parsed.Details)
		}
		return fmt.Errorf("client: api status %d: %s", status, parsed.Error)
	}
	return fmt.Errorf("client: api status %d", status)
}
