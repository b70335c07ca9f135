package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetSyncStatus retrieves the service's sync progress
func (c *Client) GetSyncStatus(ctx context.Context) (*SyncStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/status/sync", nil, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}

	status := &SyncStatus{}
	if body == nil {
		return status, nil
	}
	if err := json.Unmarshal(body, status); err != nil {
		return nil, fmt.Errorf("failed to parse sync status: %w", err)
	}
	return status, nil
}

// GetHealthStatus retrieves per-dependency health flags
func (c *Client) GetHealthStatus(ctx context.Context) (*HealthStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/status/health", nil, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get health status: %w", err)
	}

	status := &HealthStatus{}
	if body == nil {
		return status, nil
	}
	if err := json.Unmarshal(body, status); err != nil {
		return nil, fmt.Errorf("failed to parse health status: %w", err)
	}
	return status, nil
}

// GetWorkerStatus retrieves background worker state keyed by category
func (c *Client) GetWorkerStatus(ctx context.Context) (map[string]WorkerStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/status/workers", nil, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker status: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	workers := make(map[string]WorkerStatus)
	if err := json.Unmarshal(body, &workers); err != nil {
		return nil, fmt.Errorf("failed to parse worker status: %w", err)
	}
	return workers, nil
}
