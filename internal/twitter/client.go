package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the production Twitter API root.
	DefaultBaseURL = "https://api.twitter.com"

	// followingPageSize bounds the follow-edge query. A follow beyond
	// this window is invisible to verification.
	followingPageSize = 1000

	// timelinePageSize bounds the authored-content query. A retweet
	// older than this window is invisible to verification; that is a
	// completeness limit of the check, not a failure.
	timelinePageSize = 100
)

// Client talks to the Twitter v2 API. It is explicitly constructed and
// injected by the composing application; nothing reads configuration at
// call time.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option adjusts a Client at construction.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Tests use this
// to target an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient builds a read-side client authenticated with the app-only
// bearer token.
func NewClient(bearerToken string, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: bearerToken,
		TokenType:   "Bearer",
	})

	c := &Client{
		baseURL: DefaultBaseURL,
		http:    oauth2.NewClient(context.Background(), src),
	}
	c.http.Timeout = 10 * time.Second

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupUser resolves a handle to its stable account id.
func (c *Client) LookupUser(ctx context.Context, username string) (*User, error) {
	var out userResponse
	path := "/2/users/by/username/" + url.PathEscape(username)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("twitter: no user data for %q", username)
	}
	return out.Data, nil
}

// Following returns up to followingPageSize outbound follow edges of
// the given account.
func (c *Client) Following(ctx context.Context, userID string) ([]User, error) {
	var out followingResponse
	params := url.Values{
		"user.fields": {"id,username"},
		"max_results": {fmt.Sprint(followingPageSize)},
	}
	path := "/2/users/" + url.PathEscape(userID) + "/following"
	if err := c.get(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// RecentTweets returns up to timelinePageSize of the account's most
// recent authored tweets with their reference lists.
func (c *Client) RecentTweets(ctx context.Context, userID string) ([]Tweet, error) {
	var out tweetsResponse
	params := url.Values{
		"tweet.fields": {"referenced_tweets"},
		"max_results":  {fmt.Sprint(timelinePageSize)},
	}
	path := "/2/users/" + url.PathEscape(userID) + "/tweets"
	if err := c.get(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("twitter: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twitter: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("twitter: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("twitter: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Title = parsed.Title
		apiErr.Detail = parsed.Detail
		if apiErr.Detail == "" && len(parsed.Errors) > 0 {
			apiErr.Detail = parsed.Errors[0].Message
		}
	}
	return apiErr
}
