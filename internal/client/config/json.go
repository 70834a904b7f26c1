package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/flagx"
	"github.com/dmitrijs2005/jobboard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so they may be written as "15s" or as nanoseconds.
// Absent keys keep the value from the previous stage.
type JsonConfig struct {
	BaseURL          string          `json:"base_url"`
	Language         string          `json:"language"`
	DBPath           string          `json:"db_path"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	SessionSecret    string          `json:"session_secret"`
	VacancyCacheTTL  *timex.Duration `json:"vacancy_cache_ttl"`
	VacancyCacheSize *int            `json:"vacancy_cache_size"`
	CoalesceRefresh  *bool           `json:"coalesce_refresh"`
	LogBackend       string          `json:"log_backend"`
	Debug            *bool           `json:"debug"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Without
// either flag nothing is loaded. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if l, ok := models.ParseLocale(jc.Language); ok {
		cfg.Language = l
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionSecret != "" {
		cfg.SessionSecret = jc.SessionSecret
	}
	if jc.VacancyCacheTTL != nil {
		cfg.VacancyCacheTTL = jc.VacancyCacheTTL.Duration
	}
	if jc.VacancyCacheSize != nil {
		cfg.VacancyCacheSize = *jc.VacancyCacheSize
	}
	if jc.CoalesceRefresh != nil {
		cfg.CoalesceRefresh = *jc.CoalesceRefresh
	}
	if jc.LogBackend != "" {
		cfg.LogBackend = jc.LogBackend
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}
