package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

func TestOutcome(t *testing.T) {
	responder := failure.NewResponder()

	tests := []struct {
		name   string
		result toolkit.Result
		want   string
	}{
		{name: "success", result: toolkit.Success(map[string]any{"success": true}), want: OutcomeSuccess},
		{name: "generic failure", result: responder.Respond(errors.New("boom"), "Failed"), want: OutcomeError},
		{name: "rate limited", result: responder.Respond(map[string]any{"code": 429}, "Failed"), want: OutcomeRateLimited},
		{name: "unparseable failure", result: toolkit.Result{Content: "not json", IsError: true}, want: OutcomeError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Outcome(tc.result))
		})
	}
}

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()
	responder := failure.NewResponder()

	r.Observe("post_tweet", toolkit.Success(map[string]any{"success": true}), 20*time.Millisecond)
	r.Observe("post_tweet", responder.Respond(map[string]any{"code": 429}, ""), time.Millisecond)
	r.Observe("like_tweet", responder.Respond(errors.New("x"), ""), time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.invocations.WithLabelValues("post_tweet", OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.invocations.WithLabelValues("post_tweet", OutcomeRateLimited)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.invocations.WithLabelValues("like_tweet", OutcomeError)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.rateLimited.WithLabelValues("post_tweet")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.Observe("search_tweets", toolkit.Success(map[string]any{"success": true}), time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `twitter_mcp_tool_invocations_total{outcome="success",tool="search_tweets"} 1`)
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() { r.Observe("x", toolkit.Result{}, 0) })
}
