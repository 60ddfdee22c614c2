package twitter

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	"github.com/hamzaessahbaoui/twitter-mcp/pkg/tools/media"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// ErrConflictingMedia is returned when both an image and a video are supplied.
var ErrConflictingMedia = errors.New("Cannot attach both image and video to a single tweet")

// PostTweet publishes a tweet with an optional image or video.
type PostTweet struct {
	base
}

// NewPostTweet creates the post_tweet tool.
func NewPostTweet(api twitterapi.API, responder *failure.Responder) *PostTweet {
	return &PostTweet{base{
		name:         "post_tweet",
		description:  "Post a new tweet to Twitter with optional image or video attachment",
		inputSchema:  toolkit.GenerateSchema[PostTweetArgs](),
		outputSchema: toolkit.GenerateSchema[PostTweetResponse](),
		prefix:       "Failed to post tweet",
		api:          api,
		responder:    responder,
	}}
}

// Execute uploads at most one attachment, then publishes the tweet.
func (t *PostTweet) Execute(ctx context.Context, raw json.RawMessage) toolkit.Result {
	args, err := toolkit.DecodeArgs[PostTweetArgs](raw)
	if err != nil {
		return t.fail(err)
	}
	if args.ImagePath != "" && args.VideoPath != "" {
		return t.fail(ErrConflictingMedia)
	}

	var mediaIDs []string
	switch {
	case args.ImagePath != "":
		id, err := media.UploadImage(ctx, t.api, args.ImagePath)
		if err != nil {
			return t.fail(err)
		}
		mediaIDs = append(mediaIDs, id)
	case args.VideoPath != "":
		id, err := media.UploadVideo(ctx, t.api, args.VideoPath)
		if err != nil {
			return t.fail(err)
		}
		mediaIDs = append(mediaIDs, id)
	}

	tweet, err := t.api.PostTweet(ctx, args.Text, mediaIDs)
	if err != nil {
		return t.fail(err)
	}
	return toolkit.Success(PostTweetResponse{
		Success: true,
		TweetID: tweet.ID,
		Text:    tweet.Text,
	})
}
