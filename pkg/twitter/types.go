// Package twitter defines the external API capability consumed by the tools
// and an HTTP implementation of it against the X (Twitter) API.
package twitter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// API is the authenticated capability handle injected into every tool.
// Implementations must be safe for concurrent use.
type API interface {
	// PostTweet publishes text with optional attached media ids.
	PostTweet(ctx context.Context, text string, mediaIDs []string) (*Tweet, error)
	// HomeTimeline fetches the authenticated user's reverse-chronological home feed.
	HomeTimeline(ctx context.Context, maxResults int) (*TweetPage, error)
	// UserByUsername resolves a handle. It returns nil, nil when no user matches.
	UserByUsername(ctx context.Context, username string) (*User, error)
	// UserTweets fetches the latest tweets authored by userID.
	UserTweets(ctx context.Context, userID string, maxResults int) (*TweetPage, error)
	// SearchRecent searches tweets from the last seven days.
	SearchRecent(ctx context.Context, query string, maxResults int) (*TweetPage, error)
	// Me resolves the authenticated identity.
	Me(ctx context.Context) (*User, error)
	// Like likes tweetID on behalf of userID.
	Like(ctx context.Context, userID, tweetID string) error
	// Retweet reposts tweetID on behalf of userID.
	Retweet(ctx context.Context, userID, tweetID string) error
	// UploadMedia uploads a binary and returns its media id.
	UploadMedia(ctx context.Context, data []byte, mimeType string, opts UploadOptions) (string, error)
}

// Tweet is a single post.
type Tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// TweetPage is one page of tweets. Data may be nil when the page is empty.
type TweetPage struct {
	Data []Tweet   `json:"data"`
	Meta *PageMeta `json:"meta,omitempty"`
}

// PageMeta carries paging information returned with a page.
type PageMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token,omitempty"`
}

// User is an account profile.
type User struct {
	ID            string         `json:"id"`
	Username      string         `json:"username"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
	Verified      *bool          `json:"verified,omitempty"`
	Location      string         `json:"location,omitempty"`
	PublicMetrics *PublicMetrics `json:"public_metrics,omitempty"`
}

// PublicMetrics are the public counters of an account.
type PublicMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
}

// UploadOptions tune a media upload.
type UploadOptions struct {
	// LongVideo requests the long-form video category.
	LongVideo bool
}

// RateLimit is the window reported by the x-rate-limit-* response headers.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     int64 // unix seconds
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
	RateLimit  *RateLimit
}

func (e *APIError) Error() string {
	if e == nil {
		return "twitter: <nil> API error"
	}
	msg := strings.TrimSpace(strings.Join(nonEmpty(e.Title, e.Detail), ": "))
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("twitter: HTTP %d: %s", e.StatusCode, msg)
}

// Code returns the HTTP status code.
func (e *APIError) Code() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// RateLimitError reports whether the request was rejected for rate limiting.
func (e *APIError) RateLimitError() bool {
	return e != nil && e.StatusCode == http.StatusTooManyRequests
}

// RateLimitWindow returns the window captured from the response headers.
func (e *APIError) RateLimitWindow() (limit, remaining int, reset int64, ok bool) {
	if e == nil || e.RateLimit == nil {
		return 0, 0, 0, false
	}
	return e.RateLimit.Limit, e.RateLimit.Remaining, e.RateLimit.Reset, true
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
