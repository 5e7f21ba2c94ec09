package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type SIMCard struct {
	ID          int       `json:"id"`
	ICCID       string    `json:"iccid"`
	IMSI        string    `json:"imsi"`
	PhoneNumber string    `json:"phone_number"`
	Carrier     string    `json:"carrier"`
	Status      string    `json:"status"`
	Vehicle     int       `json:"vehicle"`
	DataUsageMB float64   `json:"data_usage_mb"`
	ActivatedAt time.Time `json:"activated_at"`
}

type SIMCardInput struct {
	ICCID       string `json:"iccid,omitempty"`
	IMSI        string `json:"imsi,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Carrier     string `json:"carrier,omitempty"`
	Status      string `json:"status,omitempty"`
	Vehicle     int    `json:"vehicle,omitempty"`
}

type SIMCardListParams struct {
	ListParams
	Status  string
	Carrier string
	Search  string
}

func (p SIMCardListParams) values() url.Values {
	values := p.ListParams.Values()
	setFilter(values, "status", p.Status)
	setFilter(values, "carrier", p.Carrier)
	setFilter(values, "search", p.Search)
	return values
}

func (c *Client) ListSIMCards(ctx context.Context, params SIMCardListParams) (*Page[SIMCard], error) {
	var page Page[SIMCard]
	if err := c.session.Get(ctx, "/api/fleet/sim-cards/", params.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetSIMCard(ctx context.Context, id int) (*SIMCard, error) {
	var card SIMCard
	if err := c.session.Get(ctx, fmt.Sprintf("/api/fleet/sim-cards/%d/", id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) CreateSIMCard(ctx context.Context, input SIMCardInput) (*SIMCard, error) {
	var card SIMCard
	if err := c.session.Post(ctx, "/api/fleet/sim-cards/", input, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateSIMCard(ctx context.Context, id int, input SIMCardInput) (*SIMCard, error) {
	var card SIMCard
	if err := c.session.Patch(ctx, fmt.Sprintf("/api/fleet/sim-cards/%d/", id), input, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteSIMCard(ctx context.Context, id int) error {
	return c.session.Delete(ctx, fmt.Sprintf("/api/fleet/sim-cards/%d/", id))
}

// SuspendSIMCard suspends connectivity for a card; the backend confirms
// with the updated record.
func (c *Client) SuspendSIMCard(ctx context.Context, id int) (*SIMCard, error) {
	var card SIMCard
	if err := c.session.Post(ctx, fmt.Sprintf("/api/fleet/sim-cards/%d/suspend/", id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) ActivateSIMCard(ctx context.Context, id int) (*SIMCard, error) {
	var card SIMCard
	if err := c.session.Post(ctx, fmt.Sprintf("/api/fleet/sim-cards/%d/activate/", id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}
