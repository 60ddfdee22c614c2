package twitter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// LikeTweet likes a tweet as the authenticated user.
type LikeTweet struct {
	base
}

// NewLikeTweet creates the like_tweet tool.
func NewLikeTweet(api twitterapi.API, responder *failure.Responder) *LikeTweet {
	return &LikeTweet{base{
		name:         "like_tweet",
		description:  "Like a tweet by its ID",
		inputSchema:  toolkit.GenerateSchema[TweetActionArgs](),
		outputSchema: toolkit.GenerateSchema[ActionResponse](),
		prefix:       "Failed to like tweet",
		api:          api,
		responder:    responder,
	}}
}

// Execute resolves the current identity, then likes the tweet.
func (t *LikeTweet) Execute(ctx context.Context, raw json.RawMessage) toolkit.Result {
	args, err := toolkit.DecodeArgs[TweetActionArgs](raw)
	if err != nil {
		return t.fail(err)
	}
	me, err := t.api.Me(ctx)
	if err != nil {
		return t.fail(err)
	}
	if err := t.api.Like(ctx, me.ID, args.TweetID); err != nil {
		return t.fail(err)
	}
	return toolkit.Success(ActionResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully liked tweet %s", args.TweetID),
	})
}
