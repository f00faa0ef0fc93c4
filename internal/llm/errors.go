package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorKind classifies a failed request.
type ErrorKind string

const (
	// KindRateLimited is a 429 from the provider.
	KindRateLimited ErrorKind = "rate_limited"
	// KindUnavailable covers 5xx responses and transport failures.
	KindUnavailable ErrorKind = "unavailable"
	// KindRejected is any other 4xx: a bad key, an unknown model, a
	// request the provider refuses.
	KindRejected ErrorKind = "rejected"
	// KindInvalidOutput means the model answered with something that is
	// not a lesson matching the requested schema.
	KindInvalidOutput ErrorKind = "invalid_output"
	// KindTruncated means the output hit the token limit.
	KindTruncated ErrorKind = "truncated"
)

// Error is returned by providers for every failure they can classify.
type Error struct {
	Kind     ErrorKind
	Provider string

	// RetryAfter is the provider's requested wait, rate limits only.
	RetryAfter time.Duration

	// Output is the model's raw text for invalid and truncated responses.
	Output json.RawMessage

	Err error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrRateLimited   = &Error{Kind: KindRateLimited}
	ErrUnavailable   = &Error{Kind: KindUnavailable}
	ErrRejected      = &Error{Kind: KindRejected}
	ErrInvalidOutput = &Error{Kind: KindInvalidOutput}
	ErrTruncated     = &Error{Kind: KindTruncated}
)

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	switch e.Kind {
	case KindRateLimited:
		b.WriteString("rate limited")
		if e.RetryAfter > 0 {
			fmt.Fprintf(&b, " (retry after %s)", e.RetryAfter)
		}
	case KindUnavailable:
		b.WriteString("provider unavailable")
	case KindRejected:
		b.WriteString("request rejected")
	case KindInvalidOutput:
		b.WriteString("output is not a valid lesson")
	case KindTruncated:
		b.WriteString("output truncated at the token limit")
	default:
		b.WriteString(string(e.Kind))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil || t.Provider != "" {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Transient reports whether err may succeed if the same request is sent
// again unchanged.
func Transient(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindUnavailable:
		return true
	}
	return false
}

// OutputOf returns the model output carried by err, if any.
func OutputOf(err error) (json.RawMessage, bool) {
	var e *Error
	if errors.As(err, &e) && len(e.Output) > 0 {
		return e.Output, true
	}
	return nil, false
}

// statusError classifies an HTTP failure from a provider SDK. A zero
// status means the request never got a response.
func statusError(provider string, status int, header http.Header, err error) *Error {
	e := &Error{Provider: provider, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.RetryAfter = retryAfter(header)
	case status >= 400 && status < 500:
		e.Kind = KindRejected
	default:
		e.Kind = KindUnavailable
	}
	return e
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
