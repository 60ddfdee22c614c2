// Package twitter implements the social-media tools exposed to agents.
// Every tool is bound to one API handle and one failure Responder at
// construction and reports all failures through the Responder.
package twitter

import (
	"fmt"
	"strings"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

const (
	// DefaultMaxResults applies when max_results is omitted.
	DefaultMaxResults = 10
	// MaxResultsLimit caps any requested max_results.
	MaxResultsLimit = 100
)

// Tools returns the tools in their fixed registration order.
func Tools(api twitterapi.API, responder *failure.Responder) []toolkit.Tool {
	if responder == nil {
		responder = failure.NewResponder()
	}
	return []toolkit.Tool{
		NewPostTweet(api, responder),
		NewHomeTimeline(api, responder),
		NewUserTweets(api, responder),
		NewSearchTweets(api, responder),
		NewUserInfo(api, responder),
		NewLikeTweet(api, responder),
		NewRetweet(api, responder),
	}
}

// Register attaches every tool to surface. It is meant to be called once at
// startup; a second call re-adds the same names.
func Register(surface toolkit.Surface, api twitterapi.API, responder *failure.Responder) error {
	for _, tool := range Tools(api, responder) {
		if err := surface.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.GetName(), err)
		}
	}
	return nil
}

// base carries what every tool shares: identity, schemas and dependencies.
type base struct {
	name         string
	description  string
	inputSchema  interface{}
	outputSchema interface{}
	prefix       string

	api       twitterapi.API
	responder *failure.Responder
}

func (b *base) GetName() string               { return b.name }
func (b *base) GetDescription() string        { return b.description }
func (b *base) GetInputSchema() interface{}   { return b.inputSchema }
func (b *base) GetOutputSchema() interface{}  { return b.outputSchema }
func (b *base) fail(err error) toolkit.Result { return b.responder.Respond(err, b.prefix) }

// UserNotFoundError is returned when a handle resolves to no account.
type UserNotFoundError struct {
	Username string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("User @%s was not found", e.Username)
}

// effectiveMaxResults applies the default and the upper cap. Values below 1
// never reach here because the input schema rejects them.
func effectiveMaxResults(n Count) int {
	if n <= 0 {
		return DefaultMaxResults
	}
	return min(int(n), MaxResultsLimit)
}

// normalizeUsername trims whitespace and one leading @. The result may be
// empty for inputs like "@", which callers treat as an unknown handle.
func normalizeUsername(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}
