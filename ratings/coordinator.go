package ratings

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/recarr/api"
)

// Key identifies one rateable entity
type Key struct {
	TraktID   int64
	MediaType api.MediaType
}

// Coordinator applies rating mutations optimistically and reconciles them
// against the service. All snapshot state is guarded by one mutex; network
// waits happen outside it, so a mutation step is atomic with respect to
// other callers.
type Coordinator struct {
	api      API
	userID   string
	notifier Notifier
	logger   zerolog.Logger

	mu        sync.Mutex
	confirmed map[Key]int // last server-confirmed value per entity
	current   map[Key]int // optimistic view the UI renders
	seq       map[Key]uint64
	pending   map[Key]int

	wg sync.WaitGroup
}

// NewCoordinator creates a coordinator for one user's ratings
func NewCoordinator(client API, userID string, notifier Notifier, logger zerolog.Logger) (*Coordinator, error) {
	if client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if notifier == nil {
		notifier = NopNotifier()
	}

	return &Coordinator{
		api:       client,
		userID:    userID,
		notifier:  notifier,
		logger:    logger,
		confirmed: make(map[Key]int),
		current:   make(map[Key]int),
		seq:       make(map[Key]uint64),
		pending:   make(map[Key]int),
	}, nil
}

// Refresh loads the server's ratings into the confirmed snapshot. Entities
// with a mutation still in flight keep their optimistic value.
func (c *Coordinator) Refresh(ctx context.Context) error {
	fetched, err := c.api.GetUserRatings(ctx, c.userID)
	if err != nil {
		return fmt.Errorf("failed to refresh ratings: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range fetched {
		key := Key{TraktID: r.TraktID, MediaType: r.MediaType}
		c.confirmed[key] = r.Rating
		if c.pending[key] == 0 {
			c.current[key] = r.Rating
		}
	}

	c.logger.Debug().Int("count", len(fetched)).Msg("Refreshed ratings snapshot")
	return nil
}

// Rate requests a rating change for one entity. Submitting the value that is
// already active clears it to 0 (toggle); a different value replaces it. The
// snapshot updates immediately, the request is submitted in the background.
func (c *Coordinator) Rate(ctx context.Context, traktID int64, mediaType api.MediaType, value int) error {
	if !mediaType.IsValid() {
		return fmt.Errorf("invalid media type %q", mediaType)
	}
	if value < api.RatingDown || value > api.RatingUp {
		return fmt.Errorf("invalid rating value %d", value)
	}

	key := Key{TraktID: traktID, MediaType: mediaType}

	c.mu.Lock()
	next := value
	if c.current[key] == value {
		next = api.RatingNone
	}
	c.current[key] = next
	c.seq[key]++
	seq := c.seq[key]
	c.pending[key]++
	c.mu.Unlock()

	c.logger.Debug().
		Int64("trakt_id", traktID).
		Str("media_type", string(mediaType)).
		Int("value", next).
		Uint64("seq", seq).
		Msg("Applied optimistic rating")

	c.wg.Add(1)
	go c.submit(ctx, key, next, seq)
	return nil
}

// submit sends one mutation and reconciles its outcome against the
// snapshot. A response that no longer matches the entity's latest issued
// sequence is discarded outright: committing or rolling back on it would
// let a slow request clobber a newer one.
func (c *Coordinator) submit(ctx context.Context, key Key, value int, seq uint64) {
	defer c.wg.Done()

	err := c.api.RateItem(ctx, api.Rating{
		UserID:    c.userID,
		TraktID:   key.TraktID,
		MediaType: key.MediaType,
		Rating:    value,
	})

	c.mu.Lock()
	c.pending[key]--
	if latest := c.seq[key]; seq != latest {
		c.mu.Unlock()
		c.logger.Debug().
			Int64("trakt_id", key.TraktID).
			Uint64("seq", seq).
			Uint64("latest", latest).
			Msg("Discarding stale rating response")
		return
	}

	if err != nil {
		c.current[key] = c.confirmed[key]
		c.mu.Unlock()
		c.logger.Warn().
			Err(err).
			Int64("trakt_id", key.TraktID).
			Msg("Rating rejected, rolled back")
		c.notifier.Notify(NoticeRolledBack, api.UserMessage(err))
		return
	}

	c.confirmed[key] = value
	c.mu.Unlock()
	c.notifier.Notify(NoticeSaved, "rating saved")
}

// Value returns the rating currently rendered for one entity
func (c *Coordinator) Value(traktID int64, mediaType api.MediaType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current[Key{TraktID: traktID, MediaType: mediaType}]
}

// Confirmed returns the last server-confirmed rating for one entity
func (c *Coordinator) Confirmed(traktID int64, mediaType api.MediaType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed[Key{TraktID: traktID, MediaType: mediaType}]
}

// All returns a copy of the rendered snapshot
func (c *Coordinator) All() map[Key]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.current)
}

// Wait blocks until every in-flight mutation has been reconciled. Used by
// the CLI before exiting and by tests.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
