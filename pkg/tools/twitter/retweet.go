package twitter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// Retweet reposts a tweet as the authenticated user.
type Retweet struct {
	base
}

// NewRetweet creates the retweet tool.
func NewRetweet(api twitterapi.API, responder *failure.Responder) *Retweet {
	return &Retweet{base{
		name:         "retweet",
		description:  "Retweet a tweet by its ID",
		inputSchema:  toolkit.GenerateSchema[TweetActionArgs](),
		outputSchema: toolkit.GenerateSchema[ActionResponse](),
		prefix:       "Failed to retweet",
		api:          api,
		responder:    responder,
	}}
}

// Execute resolves the current identity, then reposts the tweet.
func (t *Retweet) Execute(ctx context.Context, raw json.RawMessage) toolkit.Result {
	args, err := toolkit.DecodeArgs[TweetActionArgs](raw)
	if err != nil {
		return t.fail(err)
	}
	me, err := t.api.Me(ctx)
	if err != nil {
		return t.fail(err)
	}
	if err := t.api.Retweet(ctx, me.ID, args.TweetID); err != nil {
		return t.fail(err)
	}
	return toolkit.Success(ActionResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully retweeted tweet %s", args.TweetID),
	})
}
