package client

import (
	"context"
	"fmt"
	"net/url"
)

type Group struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}

type GroupInput struct {
	Name string `json:"name,omitempty"`
}

// Permission is one entry of the backend permission catalog.
type Permission struct {
	ID       int    `json:"id"`
	Codename string `json:"codename"`
	Name     string `json:"name"`
}

type GroupListParams struct {
	ListParams
	Search string
}

func (p GroupListParams) values() url.Values {
	values := p.ListParams.Values()
	setFilter(values, "search", p.Search)
	return values
}

func (c *Client) ListGroups(ctx context.Context, params GroupListParams) (*Page[Group], error) {
	var page Page[Group]
	if err := c.session.Get(ctx, "/api/users/groups/", params.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetGroup(ctx context.Context, id int) (*Group, error) {
	var group Group
	if err := c.session.Get(ctx, fmt.Sprintf("/api/users/groups/%d/", id), nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) CreateGroup(ctx context.Context, input GroupInput) (*Group, error) {
	var group Group
	if err := c.session.Post(ctx, "/api/users/groups/", input, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) UpdateGroup(ctx context.Context, id int, input GroupInput) (*Group, error) {
	var group Group
	if err := c.session.Patch(ctx, fmt.Sprintf("/api/users/groups/%d/", id), input, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id int) error {
	return c.session.Delete(ctx, fmt.Sprintf("/api/users/groups/%d/", id))
}

// GroupPermissions returns the permissions assigned to a group.
func (c *Client) GroupPermissions(ctx context.Context, id int) ([]Permission, error) {
	var permissions []Permission
	if err := c.session.Get(ctx, fmt.Sprintf("/api/users/groups/%d/permissions/", id), nil, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}

// SetGroupPermissions replaces a group's permission assignment.
func (c *Client) SetGroupPermissions(ctx context.Context, id int, permissionIDs []int) error {
	payload := map[string][]int{"permissions": permissionIDs}
	return c.session.Put(ctx, fmt.Sprintf("/api/users/groups/%d/permissions/", id), payload, nil)
}

// ListPermissions returns the full permission catalog.
func (c *Client) ListPermissions(ctx context.Context) ([]Permission, error) {
	var permissions []Permission
	if err := c.session.Get(ctx, "/api/users/permissions/", nil, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}
