package ratings

import (
	"context"

	"github.com/s0up4200/recarr/api"
)

// API is the slice of the service client the coordinator needs
type API interface {
	// RateItem submits one rating
	RateItem(ctx context.Context, rating api.Rating) error

	// GetUserRatings retrieves all ratings stored for a user
	GetUserRatings(ctx context.Context, userID string) ([]api.Rating, error)
}
