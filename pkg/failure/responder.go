package failure

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

const (
	// ErrorTypeRateLimit marks rate-limit failure envelopes.
	ErrorTypeRateLimit = "RATE_LIMIT_EXCEEDED"

	// GenericMessage replaces failures whose shape cannot be rendered safely.
	GenericMessage = "An unexpected error occurred"

	// DefaultService names the remote API in default rate-limit messages.
	DefaultService = "Twitter API"

	resetsMomentarily = "Rate limit resets momentarily"
)

// Envelope is the failure payload returned to the caller.
type Envelope struct {
	Success   bool     `json:"success"`
	Error     string   `json:"error"`
	ErrorID   string   `json:"error_id,omitempty"`
	ErrorType string   `json:"error_type,omitempty"`
	Details   *Details `json:"details,omitempty"`
}

// Details carries rate-limit guidance.
type Details struct {
	OriginalError string         `json:"original_error"`
	RateLimit     *RateLimitView `json:"rate_limit,omitempty"`
	Message       string         `json:"message,omitempty"`
}

// RateLimitView is the caller-facing subset of RateLimitInfo.
type RateLimitView struct {
	Limit          int    `json:"limit"`
	Remaining      int    `json:"remaining"`
	ResetAt        string `json:"reset_at"`
	ResetInMinutes int    `json:"reset_in_minutes"`
}

// Sanitized is a caller-safe rendering of a failure.
type Sanitized struct {
	Message string
	ErrorID string
}

// Option configures a Responder.
type Option func(*Responder)

// WithLogger sets the operator-facing sink for full error detail.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time source used for reset computations.
func WithClock(now func() time.Time) Option {
	return func(r *Responder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides the correlation id generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Responder) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithService sets the service name used in default rate-limit messages.
func WithService(name string) Option {
	return func(r *Responder) {
		if name != "" {
			r.service = name
		}
	}
}

// Responder converts failures into failure Results. It holds no mutable
// state and is safe for concurrent use.
type Responder struct {
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	service string
}

// NewResponder creates a Responder. Without WithLogger, detail is discarded.
func NewResponder(opts ...Option) *Responder {
	r := &Responder{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		newID:   NewErrorID,
		service: DefaultService,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewErrorID returns a fresh 8-character lowercase hex correlation id.
func NewErrorID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Sanitize renders v as a caller-safe message under a fresh correlation id.
// The full value is logged with the id and never returned.
func (r *Responder) Sanitize(v any) Sanitized {
	id := r.newID()
	r.logger.Error("tool failure",
		"error_id", id,
		"error_type", fmt.Sprintf("%T", v),
		"error", fmt.Sprintf("%+v", v),
	)
	return Sanitized{Message: safeMessage(v), ErrorID: id}
}

// Respond builds the failure Result for v. prefix is the operation-specific
// message, e.g. "Failed to post tweet"; it may be empty.
func (r *Responder) Respond(v any, prefix string) toolkit.Result {
	if IsRateLimitError(v) {
		return toolkit.Failure(r.rateLimitEnvelope(v, prefix))
	}

	s := r.Sanitize(v)
	msg := s.Message
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return toolkit.Failure(Envelope{
		Success: false,
		Error:   msg,
		ErrorID: s.ErrorID,
	})
}

func (r *Responder) rateLimitEnvelope(v any, prefix string) Envelope {
	s := r.Sanitize(v)
	msg := prefix
	if msg == "" {
		msg = r.service + " rate limit reached"
	}
	env := Envelope{
		Success:   false,
		Error:     msg,
		ErrorType: ErrorTypeRateLimit,
		Details:   &Details{OriginalError: s.Message},
	}

	info, ok := ExtractRateLimit(v, r.now())
	if !ok {
		r.logger.Warn("rate limited without window metadata", "error_id", s.ErrorID)
		return env
	}
	env.Details.RateLimit = &RateLimitView{
		Limit:          info.Limit,
		Remaining:      info.Remaining,
		ResetAt:        info.ResetAt,
		ResetInMinutes: info.ResetInMinutes,
	}
	if info.ResetInMinutes > 0 {
		env.Details.Message = fmt.Sprintf("Please retry in %d minute(s).", info.ResetInMinutes)
	} else {
		env.Details.Message = resetsMomentarily
	}
	r.logger.Warn("rate limited", "error_id", s.ErrorID, "reset_at", info.ResetAt, "remaining", info.Remaining)
	return env
}

// safeMessage resolves the caller-facing message of v:
//  1. errors use their message;
//  2. maps with a string "message", or structs with a string Message field, use it;
//  3. any other composite value collapses to GenericMessage;
//  4. scalars use their plain string form, nil renders as "null".
func safeMessage(v any) string {
	if v == nil {
		return "null"
	}
	if isNil(v) {
		return GenericMessage
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if m, ok := v.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok {
			return msg
		}
		return GenericMessage
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return GenericMessage
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		f := rv.FieldByName("Message")
		if f.IsValid() && f.Kind() == reflect.String && f.CanInterface() {
			return f.String()
		}
		return GenericMessage
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return GenericMessage
	}
	if reflect.TypeOf(v).Kind() == reflect.Pointer {
		return GenericMessage
	}
	return fmt.Sprint(v)
}
