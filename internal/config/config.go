package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"orderpdf/internal/host"
)

type Config struct {
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/orderpdf?sslmode=disable"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminRoute     string `env:"ADMIN_ROUTE" envDefault:"admin"`
	ForceSSL       bool   `env:"FORCE_SSL"`
	Locale         string `env:"LOCALE" envDefault:"ja"`
	HostVersion    string `env:"HOST_VERSION" envDefault:"3.0.15"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applique toutes les règles sur la configuration chargée.
func (c *Config) validate() error {
	if strings.Trim(c.AdminRoute, "/ ") == "" {
		return fmt.Errorf("config: ADMIN_ROUTE est requis et ne peut pas être vide")
	}
	if err := host.ValidatePath("/" + strings.Trim(c.AdminRoute, "/") + "/"); err != nil {
		return fmt.Errorf("config: ADMIN_ROUTE invalide (%q): %w", c.AdminRoute, err)
	}

	if strings.TrimSpace(c.Locale) == "" {
		return fmt.Errorf("config: LOCALE est requis et ne peut pas être vide")
	}

	if _, err := host.ParseVersion(c.HostVersion); err != nil {
		return fmt.Errorf("config: HOST_VERSION invalide (%q): %w", c.HostVersion, err)
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
	}

	return nil
}

// HostConfig returns the host configuration map add-ons see under the
// "config" key.
func (c *Config) HostConfig() host.ConfigMap {
	forceSSL := 0
	if c.ForceSSL {
		forceSSL = host.Enabled
	}
	return host.ConfigMap{
		"admin_route": c.AdminRoute,
		"force_ssl":   forceSSL,
		"locale":      c.Locale,
	}
}
