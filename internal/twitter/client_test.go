package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient("test-bearer", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	return client, server
}

func TestLookupUser(t *testing.T) {
	c, server := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/users/by/username/JumpGorby" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(userResponse{
			Data: &User{ID: "123", Username: "JumpGorby", Name: "Gorby"},
		})
	})
	defer server.Close()

	u, err := c.LookupUser(context.Background(), "JumpGorby")
	if err != nil {
		t.Fatalf("LookupUser: %v", err)
	}
	if u.ID != "123" {
		t.Errorf("id = %s", u.ID)
	}
}

func TestLookupUserNoData(t *testing.T) {
	c, server := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer server.Close()

	if _, err := c.LookupUser(context.Background(), "ghost"); err == nil {
		t.Error("expected error for missing user data")
	}
}

func TestFollowingQueryShape(t *testing.T) {
	c, server := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/users/u1/following" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("max_results") != "1000" {
			t.Errorf("max_results = %s, want 1000", q.Get("max_results"))
		}
		if q.Get("user.fields") != "id,username" {
			t.Errorf("user.fields = %s", q.Get("user.fields"))
		}
		_ = json.NewEncoder(w).Encode(followingResponse{
			Data: []User{{ID: "a"}, {ID: "b"}},
		})
	})
	defer server.Close()

	users, err := c.Following(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Following: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len = %d", len(users))
	}
}

func TestFollowingEmptyData(t *testing.T) {
	c, server := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"result_count":0}}`))
	})
	defer server.Close()

	users, err := c.Following(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Following: %v", err)
	}
	if users != nil {
		t.Errorf("users = %v, want nil", users)
	}
}

func TestRecentTweetsQueryShape(t *testing.T) {
	c, server := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/users/u1/tweets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("max_results") != "100" {
			t.Errorf("max_results = %s, want 100", q.Get("max_results"))
		}
		if q.Get("tweet.fields") != "referenced_tweets" {
			t.Errorf("tweet.fields = %s", q.Get("tweet.fields"))
		}
		_ = json.NewEncoder(w).Encode(tweetsResponse{
			Data: []Tweet{
				{ID: "1", ReferencedTweets: []ReferencedTweet{{Type: "retweeted", ID: "999"}}},
			},
		})
	})
	defer server.Close()

	tweets, err := c.RecentTweets(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RecentTweets: %v", err)
	}
	if len(tweets) != 1 || tweets[0].ReferencedTweets[0].ID != "999" {
		t.Errorf("tweets = %+v", tweets)
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	c, server := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"title":"Too Many Requests","detail":"Rate limit exceeded"}`))
	})
	defer server.Close()

	_, err := c.Following(context.Background(), "u1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Detail != "Rate limit exceeded" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestAPIErrorLegacyErrorsShape(t *testing.T) {
	c, server := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"User not found"}]}`))
	})
	defer server.Close()

	_, err := c.LookupUser(context.Background(), "ghost")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "User not found" {
		t.Errorf("detail = %q", apiErr.Detail)
	}
}
