// Package config loads runtime configuration for the JobBoard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "base_url": "http://127.0.0.1:8080/api",
//	  "language": "ru",
//	  "db_path": "jobboard.db",
//	  "request_timeout": "15s",
//	  "session_secret": "",
//	  "vacancy_cache_ttl": "1m",
//	  "vacancy_cache_size": 128,
//	  "coalesce_refresh": false,
//	  "log_backend": "zap",
//	  "debug": false
//	}
//
// Environment variables are not read.
package config
