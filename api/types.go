package api

import "time"

// MediaType identifies the kind of media an entity refers to
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

// IsValid reports whether the media type is one the service knows
func (m MediaType) IsValid() bool {
	return m == MediaTypeMovie || m == MediaTypeShow
}

// Rating values: 1 thumbs-up, -1 thumbs-down, 0 no rating.
const (
	RatingUp   = 1
	RatingNone = 0
	RatingDown = -1
)

// Rating is a user's thumb rating for one entity
type Rating struct {
	UserID    string    `json:"user_id"`
	TraktID   int64     `json:"trakt_id"`
	MediaType MediaType `json:"media_type"`
	Rating    int       `json:"rating"`
}

// RatingsResponse wraps the ratings returned for a user
type RatingsResponse struct {
	Ratings []Rating `json:"ratings"`
}

// ListItem is one scored entry of a recommendation list. It is immutable
// once fetched; watch and rating state are overlaid client-side.
type ListItem struct {
	ID          int64              `json:"id"`
	TraktID     int64              `json:"trakt_id"`
	MediaType   MediaType          `json:"media_type"`
	Title       string             `json:"title"`
	Year        int                `json:"year"`
	MatchScore  float64            `json:"match_score"`
	Watched     bool               `json:"watched"`
	WatchedAt   *time.Time         `json:"watched_at,omitempty"`
	AddedAt     time.Time          `json:"added_at"`
	Explanation map[string]float64 `json:"explanation,omitempty"`

	// Summary is the optional generated explanation text. Filled by
	// enrichment, absent when the generative call fails or is skipped.
	Summary string `json:"summary,omitempty"`
}

// ListPatch is a partial update of list settings. Nil fields are untouched.
type ListPatch struct {
	Name         *string `json:"name,omitempty"`
	Enabled      *bool   `json:"enabled,omitempty"`
	ItemLimit    *int    `json:"item_limit,omitempty"`
	SyncInterval *int    `json:"sync_interval,omitempty"`
}

// SyncMode selects how much of a list a triggered sync rebuilds
type SyncMode int

const (
	// SyncIncremental refreshes only stale entries
	SyncIncremental SyncMode = iota
	// SyncFull rebuilds the whole list
	SyncFull
	// SyncWatchedOnly refreshes watch state without rescoring
	SyncWatchedOnly
)

// SyncStatus reports the service's sync activity
type SyncStatus struct {
	ActiveSyncs    int        `json:"active_syncs"`
	LastSync       *time.Time `json:"last_sync,omitempty"`
	TotalLists     int        `json:"total_lists"`
	CompletedToday int        `json:"completed_today"`
}

// HealthStatus carries one boolean flag per service dependency
type HealthStatus struct {
	Database    bool `json:"database"`
	Trakt       bool `json:"trakt"`
	TMDB        bool `json:"tmdb"`
	Recommender bool `json:"recommender"`
}

// Healthy reports whether every dependency is up
func (h HealthStatus) Healthy() bool {
	return h.Database && h.Trakt && h.TMDB && h.Recommender
}

// WorkerStatus reports one background worker category
type WorkerStatus struct {
	Status         string     `json:"status"`
	LastRun        *time.Time `json:"last_run,omitempty"`
	NextRun        *time.Time `json:"next_run,omitempty"`
	ItemsProcessed int        `json:"items_processed"`
	Error          string     `json:"error,omitempty"`
}

// Running reports whether the worker is actively processing
func (w WorkerStatus) Running() bool {
	return w.Status == "running"
}

// explanationResponse wraps the generated explanation text for one item
type explanationResponse struct {
	Text string `json:"text"`
}
