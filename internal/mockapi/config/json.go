package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobboard/internal/flagx"
	"github.com/dmitrijs2005/jobboard/internal/timex"
)

// JsonConfig is the JSON shape of Config. Durations accept "1m" style
// strings or integer nanoseconds.
type JsonConfig struct {
	Addr                         string          `json:"addr"`
	PathPrefix                   *string         `json:"path_prefix"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	LogBackend                   string          `json:"log_backend"`
	Debug                        *bool           `json:"debug"`
}

// parseJson overlays config with the file named by -c or -config. Missing
// keys keep their previous values; read and decode errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.PathPrefix != nil {
		config.PathPrefix = *c.PathPrefix
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.LogBackend != "" {
		config.LogBackend = c.LogBackend
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
}
