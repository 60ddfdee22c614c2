package twitter

import (
	"context"
	"encoding/json"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// UserTweets fetches recent tweets from a user resolved by handle.
type UserTweets struct {
	base
}

// NewUserTweets creates the get_user_tweets tool.
func NewUserTweets(api twitterapi.API, responder *failure.Responder) *UserTweets {
	return &UserTweets{base{
		name:         "get_user_tweets",
		description:  "Get recent tweets from a specific user",
		inputSchema:  toolkit.GenerateSchema[UserTweetsArgs](),
		outputSchema: toolkit.GenerateSchema[UserTweetsResponse](),
		prefix:       "Failed to fetch user tweets",
		api:          api,
		responder:    responder,
	}}
}

// Execute resolves the handle first; an unknown handle fails without a
// second call.
func (t *UserTweets) Execute(ctx context.Context, raw json.RawMessage) toolkit.Result {
	args, err := toolkit.DecodeArgs[UserTweetsArgs](raw)
	if err != nil {
		return t.fail(err)
	}
	username := normalizeUsername(args.Username)
	if username == "" {
		return t.fail(&UserNotFoundError{Username: username})
	}

	user, err := t.api.UserByUsername(ctx, username)
	if err != nil {
		return t.fail(err)
	}
	if user == nil {
		return t.fail(&UserNotFoundError{Username: username})
	}

	page, err := t.api.UserTweets(ctx, user.ID, effectiveMaxResults(args.MaxResults))
	if err != nil {
		return t.fail(err)
	}
	tweets := toTweets(page)
	return toolkit.Success(UserTweetsResponse{
		Success:  true,
		Username: username,
		Count:    len(tweets),
		Tweets:   tweets,
	})
}
