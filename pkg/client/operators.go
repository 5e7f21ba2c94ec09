package client

import (
	"context"
	"fmt"
	"net/url"
)

// FleetOperator is an organization operating a subset of the fleet.
type FleetOperator struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Region       string `json:"region"`
	VehicleCount int    `json:"vehicle_count"`
}

type FleetOperatorInput struct {
	Name         string `json:"name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Region       string `json:"region,omitempty"`
}

type FleetOperatorListParams struct {
	ListParams
	Region string
	Search string
}

func (p FleetOperatorListParams) values() url.Values {
	values := p.ListParams.Values()
	setFilter(values, "region", p.Region)
	setFilter(values, "search", p.Search)
	return values
}

func (c *Client) ListFleetOperators(ctx context.Context, params FleetOperatorListParams) (*Page[FleetOperator], error) {
	var page Page[FleetOperator]
	if err := c.session.Get(ctx, "/api/fleet/operators/", params.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetFleetOperator(ctx context.Context, id int) (*FleetOperator, error) {
	var operator FleetOperator
	if err := c.session.Get(ctx, fmt.Sprintf("/api/fleet/operators/%d/", id), nil, &operator); err != nil {
		return nil, err
	}
	return &operator, nil
}

func (c *Client) CreateFleetOperator(ctx context.Context, input FleetOperatorInput) (*FleetOperator, error) {
	var operator FleetOperator
	if err := c.session.Post(ctx, "/api/fleet/operators/", input, &operator); err != nil {
		return nil, err
	}
	return &operator, nil
}

func (c *Client) UpdateFleetOperator(ctx context.Context, id int, input FleetOperatorInput) (*FleetOperator, error) {
	var operator FleetOperator
	if err := c.session.Patch(ctx, fmt.Sprintf("/api/fleet/operators/%d/", id), input, &operator); err != nil {
		return nil, err
	}
	return &operator, nil
}

func (c *Client) DeleteFleetOperator(ctx context.Context, id int) error {
	return c.session.Delete(ctx, fmt.Sprintf("/api/fleet/operators/%d/", id))
}
