package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

const (
	// DefaultBaseURL is the X API v2 root.
	DefaultBaseURL = "https://api.twitter.com/2"
	// DefaultUploadURL is the v1.1 media upload endpoint.
	DefaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	// DefaultTimeout bounds every HTTP request issued by the client.
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 4 << 20

	tweetFields = "created_at"
	userFields  = "created_at,description,location,public_metrics,verified"

	// The API rejects page sizes below these floors.
	minUserTweetsPage = 5
	minSearchPage     = 10
	maxPage           = 100
)

// Credentials are the OAuth 1.0a user-context keys.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

// Config configures a Client.
type Config struct {
	Credentials Credentials
	BaseURL     string
	UploadURL   string
	Timeout     time.Duration
	// HTTPClient replaces the OAuth-signing client, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements API over HTTP.
type Client struct {
	http      *http.Client
	baseURL   string
	uploadURL string
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

var _ API = (*Client)(nil)

// NewClient builds a Client signing every request with the configured credentials.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		oauthCfg := oauth1.NewConfig(cfg.Credentials.APIKey, cfg.Credentials.APISecret)
		token := oauth1.NewToken(cfg.Credentials.AccessToken, cfg.Credentials.AccessTokenSecret)
		httpClient = oauthCfg.Client(oauth1.NoContext, token)
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		uploadURL: cfg.UploadURL,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// --- API ---

// PostTweet publishes a tweet.
func (c *Client) PostTweet(ctx context.Context, text string, mediaIDs []string) (*Tweet, error) {
	body := map[string]any{"text": text}
	if len(mediaIDs) > 0 {
		body["media"] = map[string]any{"media_ids": mediaIDs}
	}
	var resp struct {
		Data *Tweet `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/tweets", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, errors.New("twitter: post tweet: empty response")
	}
	return resp.Data, nil
}

// HomeTimeline resolves the authenticated user and fetches their home feed.
func (c *Client) HomeTimeline(ctx context.Context, maxResults int) (*TweetPage, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(pageSize(maxResults, 1)))
	q.Set("tweet.fields", tweetFields)
	var page TweetPage
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(me.ID)+"/timelines/reverse_chronological", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserByUsername resolves a handle; an unknown handle yields nil, nil.
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	q := url.Values{}
	q.Set("user.fields", userFields)
	var resp struct {
		Data *User `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/users/by/username/"+url.PathEscape(username), q, nil, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return resp.Data, nil
}

// UserTweets fetches tweets authored by userID.
func (c *Client) UserTweets(ctx context.Context, userID string, maxResults int) (*TweetPage, error) {
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(pageSize(maxResults, minUserTweetsPage)))
	q.Set("tweet.fields", tweetFields)
	var page TweetPage
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/tweets", q, nil, &page); err != nil {
		return nil, err
	}
	page.Data = trim(page.Data, maxResults)
	return &page, nil
}

// SearchRecent runs a recent search.
func (c *Client) SearchRecent(ctx context.Context, query string, maxResults int) (*TweetPage, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("max_results", strconv.Itoa(pageSize(maxResults, minSearchPage)))
	q.Set("tweet.fields", tweetFields)
	var page TweetPage
	if err := c.doJSON(ctx, http.MethodGet, "/tweets/search/recent", q, nil, &page); err != nil {
		return nil, err
	}
	page.Data = trim(page.Data, maxResults)
	return &page, nil
}

// Me resolves the authenticated identity.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		Data *User `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.ID == "" {
		return nil, errors.New("twitter: users/me: empty response")
	}
	return resp.Data, nil
}

// Like likes a tweet.
func (c *Client) Like(ctx context.Context, userID, tweetID string) error {
	return c.doJSON(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/likes", nil,
		map[string]string{"tweet_id": tweetID}, nil)
}

// Retweet reposts a tweet.
func (c *Client) Retweet(ctx context.Context, userID, tweetID string) error {
	return c.doJSON(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/retweets", nil,
		map[string]string{"tweet_id": tweetID}, nil)
}

// --- transport ---

// doJSON issues a JSON request against the v2 API and decodes the response
// into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("twitter: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("twitter: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	data, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("twitter: decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs req and returns the body of a 2xx response, or an *APIError.
func (c *Client) send(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := readAllWithLimit(resp.Body, maxResponseBytes)
	c.logger.Debug("twitter request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	if err != nil {
		return nil, fmt.Errorf("twitter: read %s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp, data)
	}
	return data, nil
}

// newAPIError builds an APIError from a failed response, understanding both
// the v2 problem format and the v1.1 errors array.
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RateLimit:  parseRateLimit(resp.Header),
	}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
		if apiErr.Detail == "" && len(problem.Errors) > 0 {
			apiErr.Detail = problem.Errors[0].Message
		}
	}
	return apiErr
}

func parseRateLimit(h http.Header) *RateLimit {
	limit, errL := strconv.Atoi(h.Get("x-rate-limit-limit"))
	remaining, errR := strconv.Atoi(h.Get("x-rate-limit-remaining"))
	reset, errS := strconv.ParseInt(h.Get("x-rate-limit-reset"), 10, 64)
	if errL != nil || errR != nil || errS != nil {
		return nil
	}
	return &RateLimit{Limit: limit, Remaining: remaining, Reset: reset}
}

// ResponseTooLargeError reports that a response body exceeded the limit.
type ResponseTooLargeError struct {
	Limit int64
}

func (e ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeded limit of %d bytes", e.Limit)
}

func readAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ResponseTooLargeError{Limit: limit}
	}
	return data, nil
}

// pageSize lifts n to the endpoint's floor and caps it at the API maximum.
func pageSize(n, floor int) int {
	if n < floor {
		n = floor
	}
	if n > maxPage {
		n = maxPage
	}
	return n
}

func trim(tweets []Tweet, n int) []Tweet {
	if n > 0 && len(tweets) > n {
		return tweets[:n]
	}
	return tweets
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
