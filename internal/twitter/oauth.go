package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dghubble/oauth1"
	oauth1twitter "github.com/dghubble/oauth1/twitter"
	"golang.org/x/oauth2"
)

// oauthScopes is the fixed scope set requested for linked accounts:
// read/write on content plus the follow graph.
var oauthScopes = []string{
	"tweet.read",
	"tweet.write",
	"users.read",
	"follows.read",
	"follows.write",
}

// OAuth drives both halves of the provider handshake: the OAuth 2.0
// authorization URL the frontend sends users to, and the OAuth 1.0a
// token exchange that yields the durable token/secret pair. Publishing
// content requires the signed 1.0a scheme; bearer auth has no
// user-context write authority.
type OAuth struct {
	oauth2Config *oauth2.Config
	oauth1Config *oauth1.Config
	baseURL      string
}

// NewOAuth wires the provider endpoints from app credentials.
func NewOAuth(clientID, consumerKey, consumerSecret, callbackURL string) *OAuth {
	return &OAuth{
		oauth2Config: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: callbackURL,
			Scopes:      oauthScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://twitter.com/i/oauth2/authorize",
				TokenURL: "https://api.twitter.com/2/oauth2/token",
			},
		},
		oauth1Config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint:       oauth1twitter.AuthorizeEndpoint,
		},
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL retargets signed API calls, for tests.
func (o *OAuth) SetBaseURL(u string) { o.baseURL = u }

// AuthorizeURL returns the provider authorization URL with the fixed
// scope set. State and challenge are static placeholders; the frontend
// never completes the PKCE exchange on this URL.
func (o *OAuth) AuthorizeURL() string {
	return o.oauth2Config.AuthCodeURL(
		"state",
		oauth2.SetAuthURLParam("code_challenge", "challenge"),
		oauth2.SetAuthURLParam("code_challenge_method", "plain"),
	)
}

// RequestToken begins the 1.0a handshake. The secret must be retained
// by the caller until the callback returns.
func (o *OAuth) RequestToken() (token, secret string, err error) {
	token, secret, err = o.oauth1Config.RequestToken()
	if err != nil {
		return "", "", fmt.Errorf("twitter: request token: %w", err)
	}
	return token, secret, nil
}

// AuthorizationURL is the provider page the browser is redirected to
// during the 1.0a handshake.
func (o *OAuth) AuthorizationURL(requestToken string) (string, error) {
	u, err := o.oauth1Config.AuthorizationURL(requestToken)
	if err != nil {
		return "", fmt.Errorf("twitter: authorization url: %w", err)
	}
	return u.String(), nil
}

// ParseCallback extracts the request token and verifier from the
// provider's callback request.
func (o *OAuth) ParseCallback(r *http.Request) (requestToken, verifier string, err error) {
	requestToken, verifier, err = oauth1.ParseAuthorizationCallback(r)
	if err != nil {
		return "", "", fmt.Errorf("twitter: parse callback: %w", err)
	}
	return requestToken, verifier, nil
}

// AccessToken completes the handshake, exchanging the one-time
// authorization artifact for the durable credential pair.
func (o *OAuth) AccessToken(requestToken, requestSecret, verifier string) (token, secret string, err error) {
	token, secret, err = o.oauth1Config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return "", "", fmt.Errorf("twitter: access token exchange: %w", err)
	}
	return token, secret, nil
}

// Claims are the provider profile fields wrapped into an Identity
// after the handshake.
type Claims struct {
	ID          string `json:"id_str"`
	ScreenName  string `json:"screen_name"`
	DisplayName string `json:"name"`
}

// VerifyCredentials fetches the authenticated account's profile using
// the freshly exchanged credential.
func (o *OAuth) VerifyCredentials(ctx context.Context, token, secret string) (*Claims, error) {
	client := o.oauth1Config.Client(ctx, oauth1.NewToken(token, secret))

	resp, err := client.Get(o.baseURL + "/1.1/account/verify_credentials.json")
	if err != nil {
		return nil, fmt.Errorf("twitter: verify credentials: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twitter: read credentials response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var claims Claims
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, fmt.Errorf("twitter: decode credentials: %w", err)
	}
	if claims.ID == "" {
		return nil, errors.New("twitter: credentials response missing account id")
	}
	return &claims, nil
}

// PostTweet publishes text as the credential's account via a signed
// request and returns the created tweet id.
func (o *OAuth) PostTweet(ctx context.Context, token, secret, text string) (string, error) {
	client := o.oauth1Config.Client(ctx, oauth1.NewToken(token, secret))

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("twitter: marshal tweet: %w", err)
	}

	resp, err := client.Post(
		o.baseURL+"/2/tweets",
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("twitter: post tweet: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("twitter: read tweet response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeAPIError(resp.StatusCode, body)
	}

	var out postTweetResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("twitter: decode tweet response: %w", err)
	}
	if out.Data.ID == "" {
		return "", errors.New("twitter: tweet response missing id")
	}
	return out.Data.ID, nil
}
