package twitter

import (
	"fmt"
	"math"
	"strconv"

	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
)

// --- Argument Structs ---

// Count is a requested page size. It accepts any JSON integer form
// (5, 5.0, 1e2) and saturates at MaxResultsLimit instead of overflowing.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return fmt.Errorf("max_results must be a number, got %s", s)
	}
	switch {
	case f >= MaxResultsLimit:
		*c = MaxResultsLimit
	case f <= 0:
		*c = 0
	default:
		*c = Count(math.Trunc(f))
	}
	return nil
}

// PostTweetArgs represents arguments for the post_tweet tool.
type PostTweetArgs struct {
	Text      string `json:"text" jsonschema:"required,maxLength=280,description=The text content of the tweet (max 280 characters)"`
	ImagePath string `json:"image_path,omitempty" jsonschema:"description=Optional path to an image file to attach (jpg/png/gif/webp up to 5MB)"`
	VideoPath string `json:"video_path,omitempty" jsonschema:"description=Optional path to a video file to attach (mp4/mov up to 512MB)"`
}

// HomeTimelineArgs represents arguments for the get_home_timeline tool.
type HomeTimelineArgs struct {
	MaxResults Count `json:"max_results,omitempty" jsonschema:"minimum=1,description=Number of tweets to fetch (capped at 100; defaults to 10)"`
}

// UserTweetsArgs represents arguments for the get_user_tweets tool.
type UserTweetsArgs struct {
	Username   string `json:"username" jsonschema:"required,minLength=1,description=The Twitter username without the @ symbol"`
	MaxResults Count  `json:"max_results,omitempty" jsonschema:"minimum=1,description=Number of tweets to fetch (capped at 100; defaults to 10)"`
}

// SearchTweetsArgs represents arguments for the search_tweets tool.
type SearchTweetsArgs struct {
	Query      string `json:"query" jsonschema:"required,minLength=1,description=Search query using Twitter search syntax"`
	MaxResults Count  `json:"max_results,omitempty" jsonschema:"minimum=1,description=Number of tweets to fetch (capped at 100; defaults to 10)"`
}

// UserInfoArgs represents arguments for the get_user_info tool.
type UserInfoArgs struct {
	Username string `json:"username" jsonschema:"required,minLength=1,description=The Twitter username without the @ symbol"`
}

// TweetActionArgs represents arguments for the like_tweet and retweet tools.
type TweetActionArgs struct {
	TweetID string `json:"tweet_id" jsonschema:"required,minLength=1,description=The ID of the tweet"`
}

// --- Response Structs ---

// Tweet is the caller-facing projection of a tweet.
type Tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// PostTweetResponse is the success payload of post_tweet.
type PostTweetResponse struct {
	Success bool   `json:"success"`
	TweetID string `json:"tweet_id"`
	Text    string `json:"text"`
}

// TimelineResponse is the success payload of get_home_timeline.
type TimelineResponse struct {
	Success bool    `json:"success"`
	Count   int     `json:"count"`
	Tweets  []Tweet `json:"tweets"`
}

// UserTweetsResponse is the success payload of get_user_tweets.
type UserTweetsResponse struct {
	Success  bool    `json:"success"`
	Username string  `json:"username"`
	Count    int     `json:"count"`
	Tweets   []Tweet `json:"tweets"`
}

// SearchTweetsResponse is the success payload of search_tweets.
type SearchTweetsResponse struct {
	Success bool    `json:"success"`
	Query   string  `json:"query"`
	Count   int     `json:"count"`
	Tweets  []Tweet `json:"tweets"`
}

// UserMetrics are the public counters of an account.
type UserMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
}

// UserProfile is the caller-facing projection of an account.
type UserProfile struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	Verified    *bool        `json:"verified,omitempty"`
	Location    string       `json:"location,omitempty"`
	Metrics     *UserMetrics `json:"metrics,omitempty"`
}

// UserInfoResponse is the success payload of get_user_info.
type UserInfoResponse struct {
	Success bool        `json:"success"`
	User    UserProfile `json:"user"`
}

// ActionResponse is the success payload of like_tweet and retweet.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Mapping ---

// toTweets projects a page onto the declared tweet shape. A nil page or
// nil data yields an empty, non-nil slice.
func toTweets(page *twitterapi.TweetPage) []Tweet {
	if page == nil {
		return []Tweet{}
	}
	out := make([]Tweet, 0, len(page.Data))
	for _, t := range page.Data {
		out = append(out, Tweet{ID: t.ID, Text: t.Text, CreatedAt: t.CreatedAt})
	}
	return out
}

func toProfile(u *twitterapi.User) UserProfile {
	p := UserProfile{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Description: u.Description,
		CreatedAt:   u.CreatedAt,
		Verified:    u.Verified,
		Location:    u.Location,
	}
	if m := u.PublicMetrics; m != nil {
		p.Metrics = &UserMetrics{
			FollowersCount: m.FollowersCount,
			FollowingCount: m.FollowingCount,
			TweetCount:     m.TweetCount,
			ListedCount:    m.ListedCount,
		}
	}
	return p
}
