// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token codec) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

// # Configuration Schema

// Config holds all runtime configuration for the Bugtrack API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Optional: enables the revocation cache.
	RedisURL string `env:"REDIS_URL"`

	// Token lifetimes
	AccessTokenMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"15"`
	RefreshTokenDays   int `env:"REFRESH_TOKEN_EXPIRE_DAYS"   envDefault:"7"`

	// Token signing
	JWTAlgorithm   string `env:"JWT_ALGORITHM"        envDefault:"RS256"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH" envDefault:"keys/jwt_private.pem"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"  envDefault:"keys/jwt_public.pem"`
	JWTSecret      string `env:"JWT_SECRET"`
	JWTIssuer      string `env:"JWT_ISSUER"           envDefault:"bugtrack.api"`

	// Password hashing
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// RevocationReapInterval is how often expired revocation records are purged.
	RevocationReapInterval time.Duration `env:"REVOCATION_REAP_INTERVAL" envDefault:"1h"`

	// Cross-Origin Resource Sharing (non-development environments)
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.AccessTokenMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.RefreshTokenDays <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRE_DAYS must be positive"))
	}
	if c.RevocationReapInterval <= 0 {
		errs = append(errs, errors.New("REVOCATION_REAP_INTERVAL must be positive"))
	}

	switch c.JWTAlgorithm {
	case "RS256", "ES256":
		if c.JWTPrivKeyPath == "" || c.JWTPubKeyPath == "" {
			errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH are required for "+c.JWTAlgorithm))
		}
	case "HS256":
		if len(c.JWTSecret) < sec.MinHMACSecretBytes {
			errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes for HS256", sec.MinHMACSecretBytes))
		}
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// AccessTokenTTL returns the access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenDays) * 24 * time.Hour
}

// KeyOptions returns the signing material location for [sec.LoadKeySet].
func (c *Config) KeyOptions() sec.KeyOptions {
	return sec.KeyOptions{
		Algorithm:      c.JWTAlgorithm,
		PrivateKeyPath: c.JWTPrivKeyPath,
		PublicKeyPath:  c.JWTPubKeyPath,
		Secret:         c.JWTSecret,
	}
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix returns the allowed CORS origin suffix outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
