package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// GetListItems fetches one window of a recommendation list. The query
// encoding is deterministic, see ListQuery.Values.
func (c *Client) GetListItems(ctx context.Context, listID, userID string, query ListQuery) (*ResultWindow, error) {
	if listID == "" {
		return nil, fmt.Errorf("list ID is required")
	}
	query = query.Normalize()

	endpoint := fmt.Sprintf("/lists/%s/items", url.PathEscape(listID))
	body, err := c.do(ctx, http.MethodGet, endpoint, query.Values(userID), nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get list items: %w", err)
	}

	window := &ResultWindow{Page: query.Page, PageSize: query.PageSize}
	if body == nil {
		return window, nil
	}
	if err := json.Unmarshal(body, window); err != nil {
		return nil, fmt.Errorf("failed to parse list items response: %w", err)
	}
	if window.Page == 0 {
		window.Page = query.Page
	}
	if window.PageSize == 0 {
		window.PageSize = query.PageSize
	}

	c.logger.Debug().
		Str("list_id", listID).
		Int("page", window.Page).
		Int("count", len(window.Items)).
		Int("total", window.TotalCount).
		Msg("Retrieved list items")
	return window, nil
}

// UpdateList applies a partial update to a list's settings
func (c *Client) UpdateList(ctx context.Context, listID string, patch ListPatch) error {
	if listID == "" {
		return fmt.Errorf("list ID is required")
	}

	endpoint := "/lists/" + url.PathEscape(listID)
	if _, err := c.do(ctx, http.MethodPatch, endpoint, nil, patch, 0); err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return nil
}

// TriggerSync asks the service to resync a list for a user
func (c *Client) TriggerSync(ctx context.Context, listID, userID string, mode SyncMode) error {
	if listID == "" {
		return fmt.Errorf("list ID is required")
	}

	params := url.Values{}
	if userID != "" {
		params.Set("user_id", userID)
	}
	switch mode {
	case SyncFull:
		params.Set("force_full", strconv.FormatBool(true))
	case SyncWatchedOnly:
		params.Set("watched_only", strconv.FormatBool(true))
	}

	endpoint := fmt.Sprintf("/lists/%s/sync", url.PathEscape(listID))
	if _, err := c.do(ctx, http.MethodPost, endpoint, params, nil, 0); err != nil {
		return fmt.Errorf("failed to trigger sync: %w", err)
	}

	c.logger.Info().Str("list_id", listID).Msg("Triggered list sync")
	return nil
}

// GetExplanation fetches the generated explanation text for one list item.
// This is a generative call and uses the longer deadline.
func (c *Client) GetExplanation(ctx context.Context, listID string, itemID int64) (string, error) {
	if listID == "" {
		return "", fmt.Errorf("list ID is required")
	}

	endpoint := fmt.Sprintf("/lists/%s/items/%d/explanation", url.PathEscape(listID), itemID)
	body, err := c.do(ctx, http.MethodGet, endpoint, nil, nil, c.generativeTimeout)
	if err != nil {
		return "", fmt.Errorf("failed to get explanation: %w", err)
	}
	if body == nil {
		return "", nil
	}

	var response explanationResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse explanation response: %w", err)
	}
	return response.Text, nil
}
