package twitter

import (
	"context"
	"encoding/json"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

// UserInfo looks up an account profile by handle.
type UserInfo struct {
	base
}

// NewUserInfo creates the get_user_info tool.
func NewUserInfo(api twitterapi.API, responder *failure.Responder) *UserInfo {
	return &UserInfo{base{
		name:         "get_user_info",
		description:  "Get detailed information about a Twitter user",
		inputSchema:  toolkit.GenerateSchema[UserInfoArgs](),
		outputSchema: toolkit.GenerateSchema[UserInfoResponse](),
		prefix:       "Failed to fetch user info",
		api:          api,
		responder:    responder,
	}}
}

func (t *UserInfo) Execute(ctx context.Context, raw json.RawMessage) toolkit.Result {
	args, err := toolkit.DecodeArgs[UserInfoArgs](raw)
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
	return toolkit.Success(UserInfoResponse{
		Success: true,
		User:    toProfile(user),
	})
}
