package config

import (
	"time"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

// Config holds runtime settings for the JobBoard CLI.
//
// Fields:
//   - BaseURL: root of the JobBoard REST API.
//   - Language: locale used until the user picks one.
//   - DBPath: SQLite file holding the persisted session.
//   - RequestTimeout: per-request HTTP timeout.
//   - SessionSecret: secret the session key is derived from; empty means
//     the per-installation id.
//   - VacancyCacheTTL, VacancyCacheSize: vacancy response cache; size 0
//     disables it.
//   - CoalesceRefresh: share one token refresh between concurrent requests.
//   - LogBackend: "slog" or "zap".
//   - Debug: enable debug logging.
type Config struct {
	BaseURL          string
	Language         models.Locale
	DBPath           string
	RequestTimeout   time.Duration
	SessionSecret    string
	VacancyCacheTTL  time.Duration
	VacancyCacheSize int
	CoalesceRefresh  bool
	LogBackend       string
	Debug            bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080/api"
	c.Language = models.DefaultLocale
	c.DBPath = "jobboard.db"
	c.RequestTimeout = 15 * time.Second
	c.SessionSecret = ""
	c.VacancyCacheTTL = time.Minute
	c.VacancyCacheSize = 128
	c.CoalesceRefresh = false
	c.LogBackend = logging.BackendSlog
	c.Debug = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
