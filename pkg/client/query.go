package client

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
)

// ListParams is the query contract shared by every list endpoint:
// 1-based page, optional page size, optional ordering (field name,
// "-" prefix for descending), and resource-specific filters. A filter
// with an empty value is never sent; absence means "do not filter",
// not "filter by empty string".
type ListParams struct {
	Page     int
	PageSize int
	Ordering string
	Filters  map[string]string
}

// Values serializes the params into a query string. Each set parameter
// appears exactly once.
func (p ListParams) Values() url.Values {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Ordering != "" {
		values.Set("ordering", p.Ordering)
	}
	for key, value := range p.Filters {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values
}

// setFilter attaches a filter only when the caller supplied a value.
func setFilter(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

// Page is the normalized list envelope. Backends answer list routes
// with {results, count}, {data}, or a bare array; decoding folds all
// three into Items/Total so callers never re-implement the fallback
// chain.
type Page[T any] struct {
	Items []T
	Total int
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		p.Items = items
		p.Total = len(items)
		return nil
	}

	var envelope struct {
		Results []T  `json:"results"`
		Data    []T  `json:"data"`
		Count   *int `json:"count"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	switch {
	case envelope.Results != nil:
		p.Items = envelope.Results
	case envelope.Data != nil:
		p.Items = envelope.Data
	default:
		p.Items = []T{}
	}
	if envelope.Count != nil {
		p.Total = *envelope.Count
	} else {
		p.Total = len(p.Items)
	}
	return nil
}
