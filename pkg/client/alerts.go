package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type Alert struct {
	ID          int       `json:"id"`
	Vehicle     int       `json:"vehicle"`
	VehicleName string    `json:"vehicle_name"`
	AlertType   string    `json:"alert_type"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	RaisedAt    time.Time `json:"raised_at"`
	ResolvedAt  time.Time `json:"resolved_at"`
	ResolvedBy  string    `json:"resolved_by"`
}

type AlertListParams struct {
	ListParams
	Severity string
	Status   string
	Vehicle  string
	Search   string
}

func (p AlertListParams) values() url.Values {
	values := p.ListParams.Values()
	setFilter(values, "severity", p.Severity)
	setFilter(values, "status", p.Status)
	setFilter(values, "vehicle", p.Vehicle)
	setFilter(values, "search", p.Search)
	return values
}

// AlertSummary is the per-severity open-alert roll-up.
type AlertSummary struct {
	Open     int `json:"open"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

func (c *Client) ListAlerts(ctx context.Context, params AlertListParams) (*Page[Alert], error) {
	var page Page[Alert]
	if err := c.session.Get(ctx, "/api/fleet/alerts/", params.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetAlert(ctx context.Context, id int) (*Alert, error) {
	var alert Alert
	if err := c.session.Get(ctx, fmt.Sprintf("/api/fleet/alerts/%d/", id), nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// ResolveAlert marks an alert handled; the backend confirms with the
// updated record.
func (c *Client) ResolveAlert(ctx context.Context, id int) (*Alert, error) {
	var alert Alert
	if err := c.session.Post(ctx, fmt.Sprintf("/api/fleet/alerts/%d/resolve/", id), nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

func (c *Client) DismissAlert(ctx context.Context, id int) (*Alert, error) {
	var alert Alert
	if err := c.session.Post(ctx, fmt.Sprintf("/api/fleet/alerts/%d/dismiss/", id), nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

func (c *Client) AlertSummary(ctx context.Context) (*AlertSummary, error) {
	var summary AlertSummary
	if err := c.session.Get(ctx, "/api/fleet/alerts/summary/", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
