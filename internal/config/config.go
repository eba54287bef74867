package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting for the application. All values come
// from environment variables; there is no process-wide mutable state.
type Config struct {
	HTTP        HTTPConfig    `envPrefix:"HTTP_"`
	Persistence StorageConfig `envPrefix:"DB_"`
	Auth        AuthConfig    `envPrefix:"AUTH_"`
	Email       EmailConfig   `envPrefix:"EMAIL_"`
	Uploads     UploadsConfig `envPrefix:"UPLOADS_"`
}

type HTTPConfig struct {
	Address string `env:"ADDRESS" envDefault:":3000"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:3000"`
}

// StorageConfig selects the backing store. Driver is either "pgx" or
// "sqlite"; tests use sqlite in memory.
type StorageConfig struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"file:bienesraices.db?cache=shared"`
}

type AuthConfig struct {
	SigningKey      string        `env:"SIGNING_KEY,required"`
	TokenExpiration time.Duration `env:"TOKEN_EXPIRATION" envDefault:"24h"`
	Issuer          string        `env:"ISSUER" envDefault:"bienesraices"`
	CookieName      string        `env:"COOKIE_NAME" envDefault:"_token"`
	BCryptCost      int           `env:"BCRYPT_COST" envDefault:"12"`
}

type EmailConfig struct {
	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	FromEmail string `env:"FROM" envDefault:"cuentas@bienesraices.local"`
}

type UploadsConfig struct {
	Dir string `env:"DIR" envDefault:"public/uploads"`
}

// Load populates a Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing env config: %w", err)
	}
	return cfg, nil
}

// GetSigningKey implements the auth configuration contract.
func (a AuthConfig) GetSigningKey() string { return a.SigningKey }

// GetTokenExpiration returns the session proof lifetime.
func (a AuthConfig) GetTokenExpiration() time.Duration { return a.TokenExpiration }

// GetIssuer returns the JWT issuer claim value.
func (a AuthConfig) GetIssuer() string { return a.Issuer }

// GetCookieName returns the name of the credential carrier cookie.
func (a AuthConfig) GetCookieName() string { return a.CookieName }
