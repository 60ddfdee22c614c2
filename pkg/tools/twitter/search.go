package twitter

import (
	"context"
	"encoding/json"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// SearchTweets runs a recent-tweets search.
type SearchTweets struct {
	base
}

// NewSearchTweets creates the search_tweets tool.
func NewSearchTweets(api twitterapi.API, responder *failure.Responder) *SearchTweets {
	return &SearchTweets{base{
		name:         "search_tweets",
		description:  "Search for tweets matching a query from the last 7 days",
		inputSchema:  toolkit.GenerateSchema[SearchTweetsArgs](),
		outputSchema: toolkit.GenerateSchema[SearchTweetsResponse](),
		prefix:       "Failed to search tweets",
		api:          api,
		responder:    responder,
	}}
}

func (t *SearchTweets) Execute(ctx context.Context, raw json.RawMessage) toolkit.Result {
	args, err := toolkit.DecodeArgs[SearchTweetsArgs](raw)
	if err != nil {
		return t.fail(err)
	}
	page, err := t.api.SearchRecent(ctx, args.Query, effectiveMaxResults(args.MaxResults))
	if err != nil {
		return t.fail(err)
	}
	tweets := toTweets(page)
	return toolkit.Success(SearchTweetsResponse{
		Success: true,
		Query:   args.Query,
		Count:   len(tweets),
		Tweets:  tweets,
	})
}
