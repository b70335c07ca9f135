package api

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout           time.Duration
	generativeTimeout time.Duration
	httpClient        *http.Client
	userAgent         string
	limiter           *rate.Limiter
	noBreaker         bool
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:           DefaultTimeout,
		generativeTimeout: DefaultGenerativeTimeout,
		httpClient:        &http.Client{},
		userAgent:         "recarr",
	}
}

// WithTimeout sets the deadline for regular calls.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithGenerativeTimeout sets the deadline for generative calls such as
// explanation text.
func WithGenerativeTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.generativeTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithRateLimit throttles outbound calls to rps requests per second with
// the given burst. Zero or negative rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *clientOptions) {
		if rps > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(rps), max(1, burst))
		}
	}
}

// WithoutBreaker disables the circuit breaker. Mainly useful in tests that
// deliberately drive the client into repeated failures.
func WithoutBreaker() Option {
	return func(o *clientOptions) {
		o.noBreaker = true
	}
}
