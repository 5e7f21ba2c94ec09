package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://app.fleethub.io", cfg.API.DefaultOrigin)
	assert.Equal(t, "fleethub.io", cfg.API.DomainSuffix)
	assert.Empty(t, cfg.Tenant.Slug)
	assert.Empty(t, cfg.Auth.AccessToken)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLEET_API_DEFAULT_ORIGIN", "https://staging.fleethub.dev")
	t.Setenv("FLEET_TENANT_SLUG", "acme")
	t.Setenv("FLEET_AUTH_ACCESS_TOKEN", "env-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.fleethub.dev", cfg.API.DefaultOrigin)
	assert.Equal(t, "acme", cfg.Tenant.Slug)
	assert.Equal(t, "env-token", cfg.Auth.AccessToken)
}

func TestLoadWithFile(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".fleetctl")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	content := `api:
  default_origin: https://app.fleethub.io
  domain_suffix: fleethub.io
tenant:
  slug: contoso
auth:
  access_token: file-token
  refresh_token: file-refresh
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "contoso", cfg.Tenant.Slug)
	assert.Equal(t, "file-token", cfg.Auth.AccessToken)
	assert.Equal(t, "file-refresh", cfg.Auth.RefreshToken)
}

func TestCredentialAccessors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := &Config{}

	cfg.SetTokens("access-1", "refresh-1")
	assert.Equal(t, "access-1", cfg.AccessToken())
	assert.Equal(t, "refresh-1", cfg.RefreshToken())

	cfg.SetAccessToken("access-2")
	assert.Equal(t, "access-2", cfg.AccessToken())
	assert.Equal(t, "refresh-1", cfg.RefreshToken(), "rotating only the access token keeps the refresh token")

	cfg.SetTenantSlug("acme")
	assert.Equal(t, "acme", cfg.TenantSlug())

	cfg.SetUser(`{"id": 7}`)
	assert.Equal(t, `{"id": 7}`, cfg.User())
}

func TestClearRemovesEverything(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := &Config{}
	cfg.SetTokens("access-1", "refresh-1")
	cfg.SetTenantSlug("acme")
	cfg.SetUser(`{"id": 7}`)

	cfg.Clear()

	assert.Empty(t, cfg.AccessToken())
	assert.Empty(t, cfg.RefreshToken())
	assert.Empty(t, cfg.TenantSlug())
	assert.Empty(t, cfg.User())

	// Clearing an already-empty config is a no-op.
	cfg.Clear()
	assert.Empty(t, cfg.AccessToken())
}

func TestSaveRoundTrip(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &Config{}
	cfg.API.DefaultOrigin = "https://app.fleethub.io"
	cfg.API.DomainSuffix = "fleethub.io"
	cfg.Tenant.Slug = "acme"
	cfg.Auth.AccessToken = "access-1"
	cfg.Auth.RefreshToken = "refresh-1"
	require.NoError(t, cfg.Save())

	viper.Reset()
	loaded, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "acme", loaded.Tenant.Slug)
	assert.Equal(t, "access-1", loaded.Auth.AccessToken)
	assert.Equal(t, "refresh-1", loaded.Auth.RefreshToken)
}
