package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid api client configuration")
	// ErrCircuitOpen indicates the circuit breaker is rejecting calls
	ErrCircuitOpen = errors.New("recommendation service circuit open")
)

// ErrorKind is the closed classification every request outcome maps into.
type ErrorKind int

const (
	// KindUnknown is an outcome that fits no other classification
	KindUnknown ErrorKind = iota
	// KindTimeout is a call that exceeded its deadline or was aborted
	KindTimeout
	// KindNetwork is a transport failure before any HTTP status was received
	KindNetwork
	// KindRateLimit is a 429 or an upstream provider rate-limit response
	KindRateLimit
	// KindClientError is any other 4xx response
	KindClientError
	// KindServerError is any 5xx response
	KindServerError
)

// String returns the kind as a stable lowercase label
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindRateLimit:
		return "rate_limit"
	case KindClientError:
		return "client_error"
	case KindServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// APIError is the classified form of a failed request. It is constructed by
// the classifier and never mutated afterwards.
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int // 0 when no HTTP status was received
	Retryable  bool
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("recommendation api error (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("recommendation api error (%s): %s", e.Kind, e.Message)
}

// IsTimeout reports whether err classifies as a timeout
func IsTimeout(err error) bool {
	return kindOf(err) == KindTimeout
}

// IsRateLimit reports whether err classifies as a rate-limit rejection
func IsRateLimit(err error) bool {
	return kindOf(err) == KindRateLimit
}

// IsRetryable reports whether a retry of the same call could plausibly succeed
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

func kindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// UserMessage renders err as a message suitable for the dashboard. Timeouts
// are always worded distinctly from server-side failures so the caller can
// offer "try again" instead of "invalid request".
func UserMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "something went wrong, please try again"
	}
	switch apiErr.Kind {
	case KindTimeout:
		return "the request timed out, please try again"
	case KindNetwork:
		return "could not reach the recommendation service"
	case KindRateLimit, KindClientError, KindServerError:
		return apiErr.Message
	default:
		return "something went wrong, please try again"
	}
}

// errorBody is the shape error details arrive in. The service is not
// consistent about the field name, so all three are tried in order.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	switch {
	case b.Detail != "":
		return b.Detail
	case b.Message != "":
		return b.Message
	default:
		return b.Error
	}
}

// classifyTransport maps a failure that produced no HTTP response. The
// mapping is total: every error becomes exactly one *APIError.
func classifyTransport(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &APIError{Kind: KindTimeout, Message: "request timed out", Retryable: true}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Kind: KindTimeout, Message: "request timed out", Retryable: true}
	}
	return &APIError{Kind: KindNetwork, Message: err.Error(), Retryable: true}
}

// classifyResponse maps a received HTTP response. It returns nil for a
// healthy 2xx. A 2xx whose body carries a rate-limit message is still a
// rate-limit rejection: some upstream providers answer 200 with an error
// envelope when throttling.
func classifyResponse(status int, body []byte) *APIError {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	detail := eb.text()

	if status == http.StatusTooManyRequests || containsRateLimit(string(body)) {
		if detail == "" {
			detail = string(body)
		}
		return rateLimitError(status, detail)
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 500:
		return &APIError{
			Kind:       KindServerError,
			Message:    messageOrStatus(detail, status),
			StatusCode: status,
			Retryable:  true,
		}
	case status >= 400:
		return &APIError{
			Kind:       KindClientError,
			Message:    messageOrStatus(detail, status),
			StatusCode: status,
			Retryable:  false,
		}
	default:
		return &APIError{
			Kind:       KindUnknown,
			Message:    messageOrStatus(detail, status),
			StatusCode: status,
			Retryable:  false,
		}
	}
}

func containsRateLimit(message string) bool {
	return strings.Contains(strings.ToLower(message), "rate limit")
}

// rateLimitProviders are the upstreams the service fronts that throttle
// aggressively enough to deserve a specialized message.
var rateLimitProviders = map[string]string{
	"tmdb":   "TMDB",
	"trakt":  "Trakt",
	"openai": "OpenAI",
}

func rateLimitError(status int, detail string) *APIError {
	message := "too many requests, please slow down and retry shortly"
	lower := strings.ToLower(detail)
	for marker, name := range rateLimitProviders {
		if strings.Contains(lower, marker) {
			message = fmt.Sprintf("%s rate limit reached, wait a few minutes before retrying", name)
			break
		}
	}
	return &APIError{
		Kind:       KindRateLimit,
		Message:    message,
		StatusCode: status,
		Retryable:  true,
	}
}

func messageOrStatus(detail string, status int) string {
	if detail != "" {
		return detail
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
