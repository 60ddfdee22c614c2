package twitter

import (
	"context"
	"encoding/json"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// HomeTimeline fetches the authenticated user's home timeline.
type HomeTimeline struct {
	base
}

// NewHomeTimeline creates the get_home_timeline tool.
func NewHomeTimeline(api twitterapi.API, responder *failure.Responder) *HomeTimeline {
	return &HomeTimeline{base{
		name:         "get_home_timeline",
		description:  "Get the most recent tweets from your home timeline",
		inputSchema:  toolkit.GenerateSchema[HomeTimelineArgs](),
		outputSchema: toolkit.GenerateSchema[TimelineResponse](),
		prefix:       "Failed to fetch home timeline",
		api:          api,
		responder:    responder,
	}}
}

func (t *HomeTimeline) Execute(ctx context.Context, raw json.RawMessage) toolkit.Result {
	args, err := toolkit.DecodeArgs[HomeTimelineArgs](raw)
	if err != nil {
		return t.fail(err)
	}
	page, err := t.api.HomeTimeline(ctx, effectiveMaxResults(args.MaxResults))
	if err != nil {
		return t.fail(err)
	}
	tweets := toTweets(page)
	return toolkit.Success(TimelineResponse{
		Success: true,
		Count:   len(tweets),
		Tweets:  tweets,
	})
}
