// Package api provides a client for the recommendation service REST API.
//
// The recommendation service is the backend of the media-recommendation
// dashboard: it scores media items against a user's taste profile, maintains
// recommendation lists, and syncs watch state from Trakt. This package
// implements the transport layer the rest of recarr is built on.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: The main API client with per-call timeouts, a client-side
//     rate limiter, and a circuit breaker around the transport
//   - Types: Domain models (ratings, list items, status reports)
//   - Errors: A fixed error taxonomy every request outcome is classified into
//   - Query: Deterministic encoding of list-browsing parameters
//
// # Usage
//
// Create a client with the service URL and API key:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := api.NewClient(
//		"http://localhost:8000",
//		"your-api-key",
//		logger,
//		api.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	ratings, err := client.GetUserRatings(ctx, "alice")
//
// # Error Handling
//
// Every failed call returns an *APIError whose Kind is one of a closed set:
// KindTimeout, KindNetwork, KindRateLimit, KindClientError, KindServerError,
// KindUnknown. Timeouts are always distinguishable from server-returned
// errors so callers can offer "try again" messaging, and rate-limit
// responses carry provider-specific guidance. Helpers such as IsTimeout and
// IsRateLimit classify wrapped errors:
//
//	if api.IsTimeout(err) {
//		// offer a retry
//	}
package api
