package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantKind  ErrorKind
		wantMsg   string
		retryable bool
	}{
		{
			name:     "healthy 200",
			status:   200,
			body:     `{"items": []}`,
			wantKind: KindUnknown, // no error at all
		},
		{
			name:      "429 without body",
			status:    429,
			body:      "",
			wantKind:  KindRateLimit,
			wantMsg:   "too many requests, please slow down and retry shortly",
			retryable: true,
		},
		{
			name:      "200 with rate limit message",
			status:    200,
			body:      `{"error": "Rate Limit exceeded, slow down"}`,
			wantKind:  KindRateLimit,
			retryable: true,
		},
		{
			name:      "provider specific rate limit",
			status:    429,
			body:      `{"detail": "tmdb rate limit exceeded"}`,
			wantKind:  KindRateLimit,
			wantMsg:   "TMDB rate limit reached, wait a few minutes before retrying",
			retryable: true,
		},
		{
			name:      "trakt rate limit in message field",
			status:    429,
			body:      `{"message": "Trakt API rate limit hit"}`,
			wantKind:  KindRateLimit,
			wantMsg:   "Trakt rate limit reached, wait a few minutes before retrying",
			retryable: true,
		},
		{
			name:     "404 with detail",
			status:   404,
			body:     `{"detail": "list not found"}`,
			wantKind: KindClientError,
			wantMsg:  "list not found",
		},
		{
			name:     "422 with message",
			status:   422,
			body:     `{"message": "rating must be -1, 0 or 1"}`,
			wantKind: KindClientError,
			wantMsg:  "rating must be -1, 0 or 1",
		},
		{
			name:     "400 without body synthesizes status text",
			status:   400,
			body:     "",
			wantKind: KindClientError,
			wantMsg:  "400 Bad Request",
		},
		{
			name:      "503 without body synthesizes status text",
			status:    503,
			body:      "",
			wantKind:  KindServerError,
			wantMsg:   "503 Service Unavailable",
			retryable: true,
		},
		{
			name:      "500 with error field",
			status:    500,
			body:      `{"error": "database unavailable"}`,
			wantKind:  KindServerError,
			wantMsg:   "database unavailable",
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := classifyResponse(tt.status, []byte(tt.body))

			if tt.status >= 200 && tt.status < 300 && tt.wantKind == KindUnknown {
				assert.Nil(t, apiErr)
				return
			}

			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.retryable, apiErr.Retryable)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apiErr.Message)
			}
		})
	}
}

func TestClassifyTransport(t *testing.T) {
	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		apiErr := classifyTransport(fmt.Errorf("request failed: %w", context.DeadlineExceeded))
		assert.Equal(t, KindTimeout, apiErr.Kind)
		assert.True(t, apiErr.Retryable)
		assert.Zero(t, apiErr.StatusCode)
	})

	t.Run("cancellation is a timeout", func(t *testing.T) {
		apiErr := classifyTransport(context.Canceled)
		assert.Equal(t, KindTimeout, apiErr.Kind)
	})

	t.Run("other transport failure is network", func(t *testing.T) {
		apiErr := classifyTransport(errors.New("dial tcp: connection refused"))
		assert.Equal(t, KindNetwork, apiErr.Kind)
		assert.True(t, apiErr.Retryable)
	})
}

func TestErrorHelpers(t *testing.T) {
	timeout := &APIError{Kind: KindTimeout, Message: "request timed out", Retryable: true}
	wrapped := fmt.Errorf("failed to get sync status: %w", timeout)

	assert.True(t, IsTimeout(wrapped))
	assert.False(t, IsRateLimit(wrapped))
	assert.True(t, IsRetryable(wrapped))

	client := &APIError{Kind: KindClientError, StatusCode: 400, Message: "bad request"}
	assert.False(t, IsRetryable(client))
	assert.False(t, IsTimeout(errors.New("plain error")))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "timeout gets try-again wording",
			err:  &APIError{Kind: KindTimeout},
			want: "the request timed out, please try again",
		},
		{
			name: "network failure",
			err:  &APIError{Kind: KindNetwork, Message: "dial tcp: refused"},
			want: "could not reach the recommendation service",
		},
		{
			name: "server error passes the detail through",
			err:  &APIError{Kind: KindServerError, Message: "database unavailable"},
			want: "database unavailable",
		},
		{
			name: "unclassified error",
			err:  errors.New("boom"),
			want: "something went wrong, please try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	withStatus := &APIError{Kind: KindServerError, StatusCode: 500, Message: "boom"}
	assert.Equal(t, "recommendation api error (server_error, status 500): boom", withStatus.Error())

	withoutStatus := &APIError{Kind: KindTimeout, Message: "request timed out"}
	assert.Equal(t, "recommendation api error (timeout): request timed out", withoutStatus.Error())
}
