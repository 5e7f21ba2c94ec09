package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrigin(t *testing.T) {
	testCases := []struct {
		name string
		slug string
		want string
	}{
		{"plain slug", "acme", "https://acme.fleethub.io"},
		{"uppercase folds", "Acme", "https://acme.fleethub.io"},
		{"whitespace trimmed", "  acme  ", "https://acme.fleethub.io"},
		{"empty falls back to default", "", "https://app.fleethub.io"},
		{"whitespace only falls back", "   ", "https://app.fleethub.io"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveOrigin(tc.slug, "fleethub.io", "https://app.fleethub.io")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyTenantPersistsSlug(t *testing.T) {
	store := &memStore{}
	session := NewSession(store, "https://app.fleethub.io", "fleethub.io")

	origin := session.ApplyTenant("  Acme ")

	assert.Equal(t, "https://acme.fleethub.io", origin)
	assert.Equal(t, "https://acme.fleethub.io", session.BaseURL())
	assert.Equal(t, "acme", store.TenantSlug())
}

func TestRestoreTenant(t *testing.T) {
	store := &memStore{slug: "acme"}
	session := NewSession(store, "https://app.fleethub.io", "fleethub.io")

	assert.Equal(t, "https://app.fleethub.io", session.BaseURL())
	session.RestoreTenant()
	assert.Equal(t, "https://acme.fleethub.io", session.BaseURL())
}

func TestRestoreTenantWithoutSlug(t *testing.T) {
	session := NewSession(&memStore{}, "https://app.fleethub.io", "fleethub.io")
	session.RestoreTenant()
	assert.Equal(t, "https://app.fleethub.io", session.BaseURL())
}

func TestValidateDomain(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		body      string
		wantValid bool
	}{
		{"valid deployment", http.StatusOK, `{"is_valid": true}`, true},
		{"unknown tenant", http.StatusOK, `{"is_valid": false}`, false},
		{"endpoint missing", http.StatusNotFound, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotDomain string
			store := &memStore{}
			session, server := newTestSession(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/api/tenant/validate-domain/", r.URL.Path)
				gotDomain = r.URL.Query().Get("domain")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))

			// Route the resolved origin back to the test server.
			session.domainSuffix = "ignored"
			session.defaultOrigin = server.URL

			valid, err := session.ValidateDomain(context.Background(), "")
			require.NoError(t, err)
			assert.Equal(t, tc.wantValid, valid)
			assert.NotEmpty(t, gotDomain)
		})
	}
}
