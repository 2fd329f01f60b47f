package twitter

import "fmt"

// User is the subset of the v2 user object the verifier needs.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ReferencedTweet links an authored tweet to the tweet it references.
// Kind "retweeted" is the one verification cares about.
type ReferencedTweet struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Tweet is the subset of the v2 tweet object returned by the user
// timeline query.
type Tweet struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	ReferencedTweets []ReferencedTweet `json:"referenced_tweets"`
}

type userResponse struct {
	Data *User `json:"data"`
}

type followingResponse struct {
	Data []User `json:"data"`
}

type tweetsResponse struct {
	Data []Tweet `json:"data"`
}

type postTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// APIError is a non-2xx response from the Twitter API. Detail carries
// the upstream error description when the body had one.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("twitter: api status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("twitter: api status %d", e.StatusCode)
}

type apiErrorBody struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
