package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Tenant TenantConfig `mapstructure:"tenant"`
	Auth   AuthConfig   `mapstructure:"auth"`
}

type APIConfig struct {
	// DefaultOrigin is used when no tenant has been selected.
	DefaultOrigin string `mapstructure:"default_origin"`
	// DomainSuffix is interpolated into https://{slug}.{suffix} when a
	// tenant is selected.
	DomainSuffix string `mapstructure:"domain_suffix"`
}

type TenantConfig struct {
	Slug string `mapstructure:"slug"`
}

type AuthConfig struct {
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
	// User holds the serialized current-user object returned by login.
	User string `mapstructure:"user"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Config search paths
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.fleetctl")
	viper.AddConfigPath("/etc/fleetctl/")

	// Environment variable overrides
	viper.SetEnvPrefix("FLEET")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicitly bind environment variables for nested config.
	// With SetEnvPrefix("FLEET"), these become: FLEET_API_DEFAULT_ORIGIN,
	// FLEET_AUTH_ACCESS_TOKEN, etc.
	viper.BindEnv("api.default_origin")
	viper.BindEnv("api.domain_suffix")
	viper.BindEnv("tenant.slug")
	viper.BindEnv("auth.access_token")
	viper.BindEnv("auth.refresh_token")

	// Defaults
	viper.SetDefault("api.default_origin", "https://app.fleethub.io")
	viper.SetDefault("api.domain_suffix", "fleethub.io")

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func (c *Config) Save() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".fleetctl")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	viper.SetConfigFile(configFile)

	viper.Set("api.default_origin", c.API.DefaultOrigin)
	viper.Set("api.domain_suffix", c.API.DomainSuffix)
	viper.Set("tenant.slug", c.Tenant.Slug)
	viper.Set("auth.access_token", c.Auth.AccessToken)
	viper.Set("auth.refresh_token", c.Auth.RefreshToken)
	viper.Set("auth.user", c.Auth.User)

	return viper.WriteConfig()
}

// persist saves the config after a credential mutation. Storage is
// best-effort: a failed write degrades to "no token found" on the next
// start, which callers treat as unauthenticated.
func (c *Config) persist() {
	if err := c.Save(); err != nil {
		log.Debug().Err(err).Msg("config save failed; credentials kept in memory only")
	}
}

// Credential-store accessors backing the client session. An empty
// string means "not stored".

func (c *Config) AccessToken() string  { return c.Auth.AccessToken }
func (c *Config) RefreshToken() string { return c.Auth.RefreshToken }
func (c *Config) TenantSlug() string   { return c.Tenant.Slug }
func (c *Config) User() string         { return c.Auth.User }

func (c *Config) SetAccessToken(token string) {
	c.Auth.AccessToken = token
	c.persist()
}

func (c *Config) SetTokens(access, refresh string) {
	c.Auth.AccessToken = access
	c.Auth.RefreshToken = refresh
	c.persist()
}

func (c *Config) SetTenantSlug(slug string) {
	c.Tenant.Slug = slug
	c.persist()
}

func (c *Config) SetUser(raw string) {
	c.Auth.User = raw
	c.persist()
}

// Clear removes all stored credentials and the tenant slug together.
// Used on logout and on unrecoverable auth failure; clearing an
// already-empty config is a no-op.
func (c *Config) Clear() {
	if c.Auth.AccessToken == "" && c.Auth.RefreshToken == "" && c.Auth.User == "" && c.Tenant.Slug == "" {
		return
	}
	c.Auth.AccessToken = ""
	c.Auth.RefreshToken = ""
	c.Auth.User = ""
	c.Tenant.Slug = ""
	c.persist()
}
