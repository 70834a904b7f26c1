// Package config handles configuration for the mock backend, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/jobboard/internal/logging"
)

// Config holds runtime settings for the mock JobBoard backend.
//
// Fields:
//   - Addr: HTTP bind address.
//   - PathPrefix: prefix all routes are mounted under (e.g. "/api").
//   - SecretKey: HMAC secret for signing access tokens (HS256).
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - LogBackend, Debug: logging setup.
type Config struct {
	Addr                         string
	PathPrefix                   string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	LogBackend                   string
	Debug                        bool
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.PathPrefix = "/api"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 30 * time.Minute
	c.LogBackend = logging.BackendZap
	c.Debug = false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
