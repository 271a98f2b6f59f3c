package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"orderpdf/internal/host"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/orderpdf")
	t.Setenv("ADMIN_ROUTE", "/console/")
	t.Setenv("FORCE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/console/", cfg.AdminRoute)
	require.True(t, cfg.ForceSSL)
	require.Equal(t, "ja", cfg.Locale)
	require.Equal(t, ":8080", cfg.HTTPAddr)

	require.Equal(t, host.ConfigMap{
		"admin_route": "/console/",
		"force_ssl":   host.Enabled,
		"locale":      "ja",
	}, cfg.HostConfig())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseURL: "postgres://localhost:5432/orderpdf",
			AdminRoute:  "admin",
			Locale:      "ja",
			HostVersion: "3.0.8",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty admin route", func(c *Config) { c.AdminRoute = "//" }},
		{"admin route with space", func(c *Config) { c.AdminRoute = "my admin" }},
		{"admin route with wildcard", func(c *Config) { c.AdminRoute = "{x}" }},
		{"empty locale", func(c *Config) { c.Locale = " " }},
		{"bad version", func(c *Config) { c.HostVersion = "three" }},
		{"database url without host", func(c *Config) { c.DatabaseURL = "postgres://" }},
	}

	require.NoError(t, valid().validate())
	nested := valid()
	nested.AdminRoute = "/shop/console/"
	require.NoError(t, nested.validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			require.Error(t, c.validate())
		})
	}
}
