package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaessahbaoui/twitter-mcp/internal/config"
	"github.com/hamzaessahbaoui/twitter-mcp/internal/metrics"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestToolsCmd_JSON(t *testing.T) {
	out, err := execute(t, "tools")
	require.NoError(t, err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 7)
	assert.Equal(t, "post_tweet", infos[0]["name"])
	assert.Equal(t, "retweet", infos[6]["name"])
	assert.Contains(t, infos[0], "input_schema")
	assert.Contains(t, infos[0], "output_schema")
}

func TestToolsCmd_Text(t *testing.T) {
	out, err := execute(t, "tools", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, `<toolkit name="twitter-mcp">`)
	assert.Contains(t, out, `<tool name="search_tweets"`)
}

func TestToolsCmd_UnknownFormat(t *testing.T) {
	_, err := execute(t, "tools", "-F", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "twitter-mcp dev\n", out)
}

func TestServe_MissingCredentials(t *testing.T) {
	for _, k := range []string{
		config.EnvAPIKey, config.EnvAPISecret, config.EnvAccessToken, config.EnvAccessTokenSecret,
	} {
		t.Setenv(k, "")
	}

	_, err := execute(t, "serve", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvAPIKey)
	assert.Contains(t, err.Error(), config.EnvAccessTokenSecret)
}

func TestBuildToolkit(t *testing.T) {
	cfg := config.Default()
	cfg.Twitter.APIKey = "k"
	cfg.Twitter.APISecret = "s"
	cfg.Twitter.AccessToken = "t"
	cfg.Twitter.AccessTokenSecret = "ts"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tk, err := buildToolkit(cfg, logger, metrics.NewRecorder())
	require.NoError(t, err)
	assert.Len(t, tk.Tools(), 7)
	assert.Equal(t, serverName, tk.GetToolkitName())
}
