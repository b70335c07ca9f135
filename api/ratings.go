package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// RateItem submits a rating. The service stores 0 as "no rating".
func (c *Client) RateItem(ctx context.Context, rating Rating) error {
	if !rating.MediaType.IsValid() {
		return fmt.Errorf("invalid media type %q", rating.MediaType)
	}
	if rating.Rating < RatingDown || rating.Rating > RatingUp {
		return fmt.Errorf("invalid rating value %d", rating.Rating)
	}

	_, err := c.do(ctx, http.MethodPost, "/ratings/rate", nil, rating, 0)
	if err != nil {
		return fmt.Errorf("failed to rate item: %w", err)
	}

	c.logger.Debug().
		Int64("trakt_id", rating.TraktID).
		Str("media_type", string(rating.MediaType)).
		Int("rating", rating.Rating).
		Msg("Submitted rating")
	return nil
}

// GetUserRatings retrieves all ratings stored for a user
func (c *Client) GetUserRatings(ctx context.Context, userID string) ([]Rating, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	body, err := c.do(ctx, http.MethodGet, "/ratings/user/"+url.PathEscape(userID), nil, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var response RatingsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse ratings response: %w", err)
	}

	c.logger.Debug().
		Str("user_id", userID).
		Int("count", len(response.Ratings)).
		Msg("Retrieved user ratings")
	return response.Ratings, nil
}
