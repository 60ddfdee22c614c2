package twitter_test

import (
	"context"
	"sync"

	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
)

// fakeAPI is a scripted twitterapi.API that records every call by name.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	tweet     *twitterapi.Tweet
	page      *twitterapi.TweetPage
	user      *twitterapi.User
	me        *twitterapi.User
	mediaID   string
	gotText   string
	gotMedia  []string
	gotMax    int
	gotUserID string
	gotTarget string
	gotMIME   string

	errs map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tweet:   &twitterapi.Tweet{ID: "1234567890", Text: "Hello, World!"},
		me:      &twitterapi.User{ID: "42", Username: "me"},
		mediaID: "media-1",
		errs:    map[string]error{},
	}
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeAPI) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) PostTweet(_ context.Context, text string, mediaIDs []string) (*twitterapi.Tweet, error) {
	f.gotText, f.gotMedia = text, mediaIDs
	if err := f.record("PostTweet"); err != nil {
		return nil, err
	}
	return f.tweet, nil
}

func (f *fakeAPI) HomeTimeline(_ context.Context, maxResults int) (*twitterapi.TweetPage, error) {
	f.gotMax = maxResults
	if err := f.record("HomeTimeline"); err != nil {
		return nil, err
	}
	return f.page, nil
}

func (f *fakeAPI) UserByUsername(_ context.Context, username string) (*twitterapi.User, error) {
	f.gotTarget = username
	if err := f.record("UserByUsername"); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeAPI) UserTweets(_ context.Context, userID string, maxResults int) (*twitterapi.TweetPage, error) {
	f.gotUserID, f.gotMax = userID, maxResults
	if err := f.record("UserTweets"); err != nil {
		return nil, err
	}
	return f.page, nil
}

func (f *fakeAPI) SearchRecent(_ context.Context, query string, maxResults int) (*twitterapi.TweetPage, error) {
	f.gotTarget, f.gotMax = query, maxResults
	if err := f.record("SearchRecent"); err != nil {
		return nil, err
	}
	return f.page, nil
}

func (f *fakeAPI) Me(context.Context) (*twitterapi.User, error) {
	if err := f.record("Me"); err != nil {
		return nil, err
	}
	return f.me, nil
}

func (f *fakeAPI) Like(_ context.Context, userID, tweetID string) error {
	f.gotUserID, f.gotTarget = userID, tweetID
	return f.record("Like")
}

func (f *fakeAPI) Retweet(_ context.Context, userID, tweetID string) error {
	f.gotUserID, f.gotTarget = userID, tweetID
	return f.record("Retweet")
}

func (f *fakeAPI) UploadMedia(_ context.Context, _ []byte, mimeType string, _ twitterapi.UploadOptions) (string, error) {
	f.gotMIME = mimeType
	if err := f.record("UploadMedia"); err != nil {
		return "", err
	}
	return f.mediaID, nil
}
