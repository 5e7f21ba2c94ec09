package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type Vehicle struct {
	ID              int       `json:"id"`
	VIN             string    `json:"vin"`
	Name            string    `json:"name"`
	LicensePlate    string    `json:"license_plate"`
	Make            string    `json:"make"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	VehicleType     string    `json:"vehicle_type"`
	Status          string    `json:"status"`
	Operator        int       `json:"operator"`
	OperatorName    string    `json:"operator_name"`
	FirmwareVersion string    `json:"firmware_version"`
	SIMCard         int       `json:"sim_card"`
	LastSeenAt      time.Time `json:"last_seen_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// VehicleInput carries the writable vehicle fields. Zero-valued fields
// are omitted, so the same type serves create (POST) and partial
// update (PATCH).
type VehicleInput struct {
	VIN          string `json:"vin,omitempty"`
	Name         string `json:"name,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         int    `json:"year,omitempty"`
	VehicleType  string `json:"vehicle_type,omitempty"`
	Status       string `json:"status,omitempty"`
	Operator     int    `json:"operator,omitempty"`
	SIMCard      int    `json:"sim_card,omitempty"`
}

type VehicleListParams struct {
	ListParams
	Status      string
	VehicleType string
	Operator    string
	Search      string
}

func (p VehicleListParams) values() url.Values {
	values := p.ListParams.Values()
	setFilter(values, "status", p.Status)
	setFilter(values, "vehicle_type", p.VehicleType)
	setFilter(values, "operator", p.Operator)
	setFilter(values, "search", p.Search)
	return values
}

// FleetSummary is the dashboard roll-up for the vehicle fleet.
type FleetSummary struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Inactive    int `json:"inactive"`
	Maintenance int `json:"maintenance"`
	Offline     int `json:"offline"`
}

func (c *Client) ListVehicles(ctx context.Context, params VehicleListParams) (*Page[Vehicle], error) {
	var page Page[Vehicle]
	if err := c.session.Get(ctx, "/api/fleet/vehicles/", params.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetVehicle(ctx context.Context, id int) (*Vehicle, error) {
	var vehicle Vehicle
	if err := c.session.Get(ctx, fmt.Sprintf("/api/fleet/vehicles/%d/", id), nil, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (c *Client) CreateVehicle(ctx context.Context, input VehicleInput) (*Vehicle, error) {
	var vehicle Vehicle
	if err := c.session.Post(ctx, "/api/fleet/vehicles/", input, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (c *Client) UpdateVehicle(ctx context.Context, id int, input VehicleInput) (*Vehicle, error) {
	var vehicle Vehicle
	if err := c.session.Patch(ctx, fmt.Sprintf("/api/fleet/vehicles/%d/", id), input, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (c *Client) DeleteVehicle(ctx context.Context, id int) error {
	return c.session.Delete(ctx, fmt.Sprintf("/api/fleet/vehicles/%d/", id))
}

func (c *Client) VehicleSummary(ctx context.Context) (*FleetSummary, error) {
	var summary FleetSummary
	if err := c.session.Get(ctx, "/api/fleet/vehicles/summary/", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
