package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type FirmwareUpdate struct {
	ID           int       `json:"id"`
	Version      string    `json:"version"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	TargetGroup  string    `json:"target_group"`
	TotalCount   int       `json:"total_count"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type FirmwareUpdateInput struct {
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	TargetGroup string `json:"target_group,omitempty"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
}

type FirmwareListParams struct {
	ListParams
	Status  string
	Version string
	Search  string
}

func (p FirmwareListParams) values() url.Values {
	values := p.ListParams.Values()
	setFilter(values, "status", p.Status)
	setFilter(values, "version", p.Version)
	setFilter(values, "search", p.Search)
	return values
}

// FirmwareStats is the rollout dashboard roll-up.
type FirmwareStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
}

func (c *Client) ListFirmwareUpdates(ctx context.Context, params FirmwareListParams) (*Page[FirmwareUpdate], error) {
	var page Page[FirmwareUpdate]
	if err := c.session.Get(ctx, "/api/fleet/firmware-updates/", params.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetFirmwareUpdate(ctx context.Context, id int) (*FirmwareUpdate, error) {
	var update FirmwareUpdate
	if err := c.session.Get(ctx, fmt.Sprintf("/api/fleet/firmware-updates/%d/", id), nil, &update); err != nil {
		return nil, err
	}
	return &update, nil
}

// CreateFirmwareUpdate schedules a new rollout.
func (c *Client) CreateFirmwareUpdate(ctx context.Context, input FirmwareUpdateInput) (*FirmwareUpdate, error) {
	var update FirmwareUpdate
	if err := c.session.Post(ctx, "/api/fleet/firmware-updates/", input, &update); err != nil {
		return nil, err
	}
	return &update, nil
}

func (c *Client) UpdateFirmwareUpdate(ctx context.Context, id int, input FirmwareUpdateInput) (*FirmwareUpdate, error) {
	var update FirmwareUpdate
	if err := c.session.Patch(ctx, fmt.Sprintf("/api/fleet/firmware-updates/%d/", id), input, &update); err != nil {
		return nil, err
	}
	return &update, nil
}

// CancelFirmwareUpdate stops a rollout that has not completed.
func (c *Client) CancelFirmwareUpdate(ctx context.Context, id int) (*FirmwareUpdate, error) {
	var update FirmwareUpdate
	if err := c.session.Post(ctx, fmt.Sprintf("/api/fleet/firmware-updates/%d/cancel/", id), nil, &update); err != nil {
		return nil, err
	}
	return &update, nil
}

func (c *Client) FirmwareStats(ctx context.Context) (*FirmwareStats, error) {
	var stats FirmwareStats
	if err := c.session.Get(ctx, "/api/fleet/firmware-updates/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
