package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ResolveOrigin maps a tenant slug to a backend origin. Pure: the slug
// is trimmed and lowercased, so "Acme" and "acme" resolve to the same
// origin. An empty slug falls back to the configured default origin.
func ResolveOrigin(slug, domainSuffix, defaultOrigin string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return defaultOrigin
	}
	return fmt.Sprintf("https://%s.%s", slug, domainSuffix)
}

// ResolveOrigin resolves a slug against this session's configured
// domain suffix and default origin.
func (s *Session) ResolveOrigin(slug string) string {
	return ResolveOrigin(slug, s.domainSuffix, s.defaultOrigin)
}

// ApplyTenant switches the session to the given tenant's origin and
// persists the slug so RestoreTenant can re-apply it after a restart.
// Requests already in flight keep the origin they were sent with.
func (s *Session) ApplyTenant(slug string) string {
	origin := s.ResolveOrigin(slug)
	s.setBaseURL(origin)
	s.store.SetTenantSlug(strings.ToLower(strings.TrimSpace(slug)))
	s.log.Debug().Str("tenant", slug).Str("origin", origin).Msg("tenant applied")
	return origin
}

// RestoreTenant re-applies the persisted tenant slug, if any, so a
// session survives a restart without re-entering the tenant.
func (s *Session) RestoreTenant() {
	if slug := s.store.TenantSlug(); slug != "" {
		s.setBaseURL(s.ResolveOrigin(slug))
	}
}

// ValidateDomain asks the backend whether the origin a slug resolves to
// is a real tenant deployment. Unauthenticated, outside the interceptor
// chain.
func (s *Session) ValidateDomain(ctx context.Context, slug string) (bool, error) {
	origin := s.ResolveOrigin(slug)
	parsed, err := url.Parse(origin)
	if err != nil {
		return false, fmt.Errorf("invalid tenant origin %q: %w", origin, err)
	}

	target := origin + "/api/tenant/validate-domain/?domain=" + url.QueryEscape(parsed.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	var result struct {
		IsValid bool `json:"is_valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decoding validate-domain response: %w", err)
	}
	return result.IsValid, nil
}
