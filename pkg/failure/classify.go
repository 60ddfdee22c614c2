// Package failure turns arbitrary failure values into the uniform failure
// envelope returned by every tool. It detects rate-limit conditions
// structurally, derives retry guidance from rate-limit metadata, and makes
// sure internal error detail is logged under a correlation id rather than
// returned to the caller.
package failure

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"reflect"
	"time"
)

// isoMillis is the ISO-8601 layout used for reset timestamps.
const isoMillis = "2006-01-02T15:04:05.000Z"

// coder is implemented by failures carrying a numeric status code.
type coder interface {
	Code() int
}

// rateLimitFlagger is implemented by failures that flag themselves as rate limited.
type rateLimitFlagger interface {
	RateLimitError() bool
}

// rateLimitWindower is implemented by failures that carry the rate-limit
// window reported by the remote API.
type rateLimitWindower interface {
	RateLimitWindow() (limit, remaining int, reset int64, ok bool)
}

// RateLimitInfo is the retry guidance derived from a rate-limit window.
type RateLimitInfo struct {
	Limit          int    `json:"limit"`
	Remaining      int    `json:"remaining"`
	Reset          int64  `json:"reset"`
	ResetAt        string `json:"reset_at"`
	ResetInMinutes int    `json:"reset_in_minutes"`
}

// IsRateLimitError reports whether v is a rate-limit condition: it must carry
// a numeric code, and either that code is 429 or the value explicitly flags
// itself as a rate-limit error. Strings, numbers, nil, plain errors and
// objects without a numeric code are never rate-limit conditions.
func IsRateLimitError(v any) bool {
	code, ok := numericCode(v)
	if !ok {
		return false
	}
	return code == http.StatusTooManyRequests || rateLimitFlag(v)
}

// ExtractRateLimit returns the rate-limit guidance carried by v.
// The second return value is false when v is not a rate-limit condition or
// carries no window; a rate-limit error without metadata is a valid state.
func ExtractRateLimit(v any, now time.Time) (*RateLimitInfo, bool) {
	if !IsRateLimitError(v) {
		return nil, false
	}
	limit, remaining, reset, ok := rateLimitWindow(v)
	if !ok {
		return nil, false
	}
	return &RateLimitInfo{
		Limit:          limit,
		Remaining:      remaining,
		Reset:          reset,
		ResetAt:        time.Unix(reset, 0).UTC().Format(isoMillis),
		ResetInMinutes: minutesUntil(reset, now),
	}, true
}

// minutesUntil rounds the time left until reset up to whole minutes and
// never goes below zero.
func minutesUntil(reset int64, now time.Time) int {
	deltaMs := reset*1000 - now.UnixMilli()
	if deltaMs <= 0 {
		return 0
	}
	return int(math.Ceil(float64(deltaMs) / 60000))
}

// --- structural probes ---

func numericCode(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	var c coder
	if asInterface(v, &c) {
		return float64(c.Code()), true
	}
	if m, ok := v.(map[string]any); ok {
		return number(m["code"])
	}
	return 0, false
}

func rateLimitFlag(v any) bool {
	var f rateLimitFlagger
	if asInterface(v, &f) {
		return f.RateLimitError()
	}
	if m, ok := v.(map[string]any); ok {
		flag, _ := m["rateLimitError"].(bool)
		return flag
	}
	return false
}

func rateLimitWindow(v any) (limit, remaining int, reset int64, ok bool) {
	var w rateLimitWindower
	if asInterface(v, &w) {
		return w.RateLimitWindow()
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		return 0, 0, 0, false
	}
	rl, isMap := m["rateLimit"].(map[string]any)
	if !isMap {
		return 0, 0, 0, false
	}
	l, okL := wholeNumber(rl["limit"])
	r, okR := wholeNumber(rl["remaining"])
	s, okS := wholeNumber(rl["reset"])
	if !okL || !okR || !okS {
		return 0, 0, 0, false
	}
	return int(l), int(r), s, true
}

// asInterface finds target's interface type either along an error chain or
// directly on a non-error value. A match holding a nil pointer does not count.
func asInterface[T any](v any, target *T) bool {
	var found bool
	if err, ok := v.(error); ok {
		found = errors.As(err, target)
	} else if t, ok := v.(T); ok {
		*target, found = t, true
	}
	return found && !isNil(*target)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// number accepts the numeric shapes produced by Go literals and JSON decoding.
// The value is returned as-is, so 429.5 is numeric but never equals 429.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			f = float64(rv.Uint())
		default:
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// wholeNumber is number restricted to integral values that fit in an int64.
func wholeNumber(v any) (int64, bool) {
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
