package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Default request deadlines. Generative endpoints produce text with an LLM
// upstream and routinely take longer than regular calls.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultGenerativeTimeout = 60 * time.Second
)

// Client talks to the recommendation service
type Client struct {
	baseURL           string
	apiKey            string
	httpClient        *http.Client
	logger            zerolog.Logger
	timeout           time.Duration
	generativeTimeout time.Duration
	userAgent         string
	limiter           *rate.Limiter
	breaker           *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a new recommendation service client
func NewClient(baseURL string, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: server URL is required", ErrInvalidConfig)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	client := &Client{
		baseURL:           baseURL,
		apiKey:            apiKey,
		httpClient:        options.httpClient,
		logger:            logger,
		timeout:           options.timeout,
		generativeTimeout: options.generativeTimeout,
		userAgent:         options.userAgent,
		limiter:           options.limiter,
	}

	if !options.noBreaker {
		client.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "recommendation-service",
			MaxRequests: 3,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// Rejections the server chose to send back (4xx, throttling)
			// are not transport health signals and must not trip the
			// breaker.
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				switch kindOf(err) {
				case KindClientError, KindRateLimit:
					return true
				}
				return false
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Circuit breaker state changed")
			},
		})
	}

	return client, nil
}

// Ping verifies the service is reachable and answering
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetHealthStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to recommendation service: %w", err)
	}
	return nil
}

// do performs one request against the service with a bounded deadline.
// The returned payload is nil when the response carried no structured body.
// Every failure comes back as a classified *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body any, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classifyTransport(err)
		}
	}

	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making recommendation service request")

	var payload []byte
	if c.breaker != nil {
		payload, err = c.breaker.Execute(func() ([]byte, error) {
			return c.roundTrip(req)
		})
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, &APIError{
				Kind:      KindNetwork,
				Message:   ErrCircuitOpen.Error(),
				Retryable: true,
			}
		}
	} else {
		payload, err = c.roundTrip(req)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// roundTrip executes the request and classifies its outcome. Cancelling the
// context tears the connection down; there is no path that leaves a call
// dangling past its deadline.
func (c *Client) roundTrip(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if apiErr := classifyResponse(resp.StatusCode, raw); apiErr != nil {
		return nil, apiErr
	}

	// Empty or non-structured bodies are a null payload, not a failure.
	if !isStructured(resp.Header.Get("Content-Type")) || len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return raw, nil
}

func isStructured(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
