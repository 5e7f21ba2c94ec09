package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// OBDSample is one telemetry reading reported by a vehicle's OBD unit.
type OBDSample struct {
	ID         int       `json:"id"`
	Vehicle    int       `json:"vehicle"`
	Parameter  string    `json:"parameter"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	RecordedAt time.Time `json:"recorded_at"`
}

// OBDParameter describes one entry of the telemetry parameter catalog
// (PID name, unit, value bounds).
type OBDParameter struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	Unit     string  `json:"unit"`
	MinValue float64 `json:"min_value"`
	MaxValue float64 `json:"max_value"`
}

type TelemetryListParams struct {
	ListParams
	Vehicle   string
	Parameter string
	Start     string
	End       string
}

func (p TelemetryListParams) values() url.Values {
	values := p.ListParams.Values()
	setFilter(values, "vehicle", p.Vehicle)
	setFilter(values, "parameter", p.Parameter)
	setFilter(values, "recorded_at__gte", p.Start)
	setFilter(values, "recorded_at__lte", p.End)
	return values
}

func (c *Client) ListTelemetry(ctx context.Context, params TelemetryListParams) (*Page[OBDSample], error) {
	var page Page[OBDSample]
	if err := c.session.Get(ctx, "/api/fleet/obd-telemetry/", params.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// LatestTelemetry returns the most recent sample per parameter for one
// vehicle.
func (c *Client) LatestTelemetry(ctx context.Context, vehicleID int) ([]OBDSample, error) {
	query := url.Values{}
	query.Set("vehicle", strconv.Itoa(vehicleID))

	var samples []OBDSample
	if err := c.session.Get(ctx, "/api/fleet/obd-telemetry/latest/", query, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func (c *Client) TelemetryParameters(ctx context.Context) ([]OBDParameter, error) {
	var params []OBDParameter
	if err := c.session.Get(ctx, "/api/fleet/obd-telemetry/parameters/", nil, &params); err != nil {
		return nil, err
	}
	return params, nil
}
