package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fleetctl/pkg/config"
)

// Client is the fleet backend API client. All resource methods issue
// their calls through one shared Session, so every request gets the
// same auth, retry, and error-normalization behavior.
type Client struct {
	session *Session
}

// New builds a client from the loaded configuration and re-applies the
// persisted tenant selection, so a restart keeps talking to the same
// origin.
func New(cfg *config.Config, opts ...Option) *Client {
	session := NewSession(cfg, cfg.API.DefaultOrigin, cfg.API.DomainSuffix, opts...)
	session.RestoreTenant()
	return &Client{session: session}
}

// NewWithSession wires a client onto an existing session, mainly for
// tests that need a fake store or transport.
func NewWithSession(session *Session) *Client {
	return &Client{session: session}
}

// Session exposes the underlying session for auth and tenant
// operations.
func (c *Client) Session() *Session { return c.session }

// TokenExpiry reads the exp claim from an access token without
// verifying the signature. Display-only: the backend's 401 is the
// authority on whether a token is still good.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
