// Package lists fetches recommendation-list windows, checks them against
// the reported total, optionally enriches them with generated explanation
// text, and filters them client-side with expr expressions.
package lists

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/recarr/api"
)

// enrichConcurrency bounds parallel explanation fetches per window
const enrichConcurrency = 4

// API is the slice of the service client the browser needs
type API interface {
	GetListItems(ctx context.Context, listID, userID string, query api.ListQuery) (*api.ResultWindow, error)
	GetExplanation(ctx context.Context, listID string, itemID int64) (string, error)
}

// Browser pages through one user's view of recommendation lists
type Browser struct {
	api    API
	userID string
	logger zerolog.Logger
}

// NewBrowser creates a browser for one user
func NewBrowser(client API, userID string, logger zerolog.Logger) (*Browser, error) {
	if client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	return &Browser{
		api:    client,
		userID: userID,
		logger: logger,
	}, nil
}

// Fetch retrieves one window of a list. A window whose size disagrees with
// the reported total is logged as a consistency warning and returned as-is:
// the backend owns totalCount.
func (b *Browser) Fetch(ctx context.Context, listID string, query api.ListQuery) (*api.ResultWindow, error) {
	query = query.Normalize()

	window, err := b.api.GetListItems(ctx, listID, b.userID, query)
	if err != nil {
		return nil, err
	}

	if expected := window.ExpectedLen(); len(window.Items) != expected {
		b.logger.Warn().
			Str("list_id", listID).
			Int("items", len(window.Items)).
			Int("expected", expected).
			Int("total", window.TotalCount).
			Msg("Result window size disagrees with reported total")
	}

	return window, nil
}

// Enrich fills in generated explanation text for items that lack one.
// Enrichment is optional data: a failed fetch is logged and the item keeps
// an empty summary, it never degrades the window itself.
func (b *Browser) Enrich(ctx context.Context, listID string, window *api.ResultWindow) {
	if window == nil || len(window.Items) == 0 {
		return
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for i := range window.Items {
		if window.Items[i].Summary != "" {
			continue
		}
		i := i
		g.Go(func() error {
			text, err := b.api.GetExplanation(ctx, listID, window.Items[i].ID)
			if err != nil {
				b.logger.Debug().
					Err(err).
					Int64("item_id", window.Items[i].ID).
					Msg("Explanation fetch failed, leaving summary empty")
				return nil
			}
			mu.Lock()
			window.Items[i].Summary = text
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// FetchAll walks every page of a list. Intended for exports and filtering
// across the whole list rather than interactive browsing.
func (b *Browser) FetchAll(ctx context.Context, listID string, query api.ListQuery) ([]api.ListItem, error) {
	query = query.Normalize().WithPage(1)

	var items []api.ListItem
	for {
		window, err := b.Fetch(ctx, listID, query)
		if err != nil {
			return nil, err
		}
		items = append(items, window.Items...)
		if !window.HasMorePages() || len(window.Items) == 0 {
			break
		}
		query = query.WithPage(query.Page + 1)
	}

	b.logger.Debug().
		Str("list_id", listID).
		Int("count", len(items)).
		Msg("Fetched all list items")
	return items, nil
}
