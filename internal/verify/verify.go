package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/agilsa/GorbyJump/internal/auth"
	"github.com/agilsa/GorbyJump/internal/twitter"
)

var (
	// ErrNotAuthenticated means no linked identity was supplied. It is
	// returned before any external call is made.
	ErrNotAuthenticated = errors.New("verify: not authenticated")

	// ErrVerificationFailed wraps an upstream API failure. Callers log
	// it and leave the task claimable; there is no automatic retry.
	ErrVerificationFailed = errors.New("verify: verification failed")
)

// GraphAPI is the read side of the social API the verifier queries.
type GraphAPI interface {
	LookupUser(ctx context.Context, username string) (*twitter.User, error)
	Following(ctx context.Context, userID string) ([]twitter.User, error)
	RecentTweets(ctx context.Context, userID string) ([]twitter.Tweet, error)
}

// Publisher is the signed write side used for share tasks.
type Publisher interface {
	PostTweet(ctx context.Context, token, secret, text string) (string, error)
}

// FollowResult is the verdict of a follow check.
type FollowResult struct {
	IsFollowing  bool
	TargetUserID string
}

// RetweetResult is the verdict of a retweet check.
type RetweetResult struct {
	HasRetweeted bool
}

// Service answers task-completion queries against the social graph.
// Every check is an idempotent read: repeated calls with unchanged
// upstream state yield the same verdict.
type Service struct {
	graph     GraphAPI
	publisher Publisher
}

func NewService(graph GraphAPI, publisher Publisher) *Service {
	return &Service{graph: graph, publisher: publisher}
}

// CheckFollow resolves targetHandle to a stable id, then scans the
// identity's outbound follow edges for it. Two sequential external
// calls; failure of either surfaces as ErrVerificationFailed. An empty
// edge list is a negative verdict, not an error.
func (s *Service) CheckFollow(ctx context.Context, identity *auth.Identity, targetHandle string) (*FollowResult, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	target, err := s.graph.LookupUser(ctx, targetHandle)
	if err != nil {
		return nil, wrapUpstream("resolve target user", err)
	}

	following, err := s.graph.Following(ctx, identity.ID)
	if err != nil {
		return nil, wrapUpstream("query follow edges", err)
	}

	res := &FollowResult{TargetUserID: target.ID}
	for _, u := range following {
		if u.ID == target.ID {
			res.IsFollowing = true
			break
		}
	}
	return res, nil
}

// CheckRetweet scans the identity's recent authored tweets for a
// reference of kind "retweeted" targeting tweetID. The timeline query
// is page-bounded, so a retweet older than the window yields a
// negative verdict; that completeness limit is inherent to the check.
func (s *Service) CheckRetweet(ctx context.Context, identity *auth.Identity, tweetID string) (*RetweetResult, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	tweets, err := s.graph.RecentTweets(ctx, identity.ID)
	if err != nil {
		return nil, wrapUpstream("query recent tweets", err)
	}

	res := &RetweetResult{}
	for _, t := range tweets {
		for _, ref := range t.ReferencedTweets {
			if ref.Type == "retweeted" && ref.ID == tweetID {
				res.HasRetweeted = true
				return res, nil
			}
		}
	}
	return res, nil
}

// PostContent publishes text as the identity using its durable
// credential and returns the created content id.
func (s *Service) PostContent(ctx context.Context, identity *auth.Identity, text string) (string, error) {
	if identity == nil {
		return "", ErrNotAuthenticated
	}

	id, err := s.publisher.PostTweet(ctx, identity.Token, identity.TokenSecret, text)
	if err != nil {
		return "", wrapUpstream("post content", err)
	}
	return id, nil
}

// wrapUpstream folds an upstream failure into ErrVerificationFailed,
// preserving the API error detail for logs and error responses.
func wrapUpstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrVerificationFailed, op, err)
}

// Detail extracts the upstream error description when the failure was
// an API-level error, falling back to the error text.
func Detail(err error) string {
	var apiErr *twitter.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
