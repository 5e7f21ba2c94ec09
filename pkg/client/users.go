package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	Groups    []int     `json:"groups"`
	LastLogin time.Time `json:"last_login"`
}

type UserInput struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Password  string `json:"password,omitempty"`
	Groups    []int  `json:"groups,omitempty"`
}

type UserListParams struct {
	ListParams
	Group  string
	Active string
	Search string
}

func (p UserListParams) values() url.Values {
	values := p.ListParams.Values()
	setFilter(values, "group", p.Group)
	setFilter(values, "is_active", p.Active)
	setFilter(values, "search", p.Search)
	return values
}

// CurrentUser returns the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.session.Get(ctx, "/api/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context, params UserListParams) (*Page[User], error) {
	var page Page[User]
	if err := c.session.Get(ctx, "/api/users/", params.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var user User
	if err := c.session.Get(ctx, fmt.Sprintf("/api/users/%d/", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, input UserInput) (*User, error) {
	var user User
	if err := c.session.Post(ctx, "/api/users/", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, input UserInput) (*User, error) {
	var user User
	if err := c.session.Patch(ctx, fmt.Sprintf("/api/users/%d/", id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.session.Delete(ctx, fmt.Sprintf("/api/users/%d/", id))
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	payload := map[string]string{
		"current_password": current,
		"new_password":     next,
	}
	return c.session.Post(ctx, "/api/users/change_password/", payload, nil)
}
