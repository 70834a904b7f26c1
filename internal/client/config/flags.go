package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-u string   base URL of the API
//	-l string   default language (en, ru)
//	-d string   path of the session database
//	-t int      request timeout in seconds
//	-s string   session secret
//	-log string log backend (slog, zap)
//	-r          coalesce concurrent token refreshes
//	-v          debug logging
//
// Only the flags listed here are taken from os.Args; see flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgsWithBools(os.Args[1:],
		[]string{"-u", "-l", "-d", "-t", "-s", "-log"},
		[]string{"-r", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "base URL of the JobBoard API")
	lang := fs.String("l", string(cfg.Language), "default language (en, ru)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the session database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "secret protecting the stored session")
	fs.StringVar(&cfg.LogBackend, "log", cfg.LogBackend, "log backend (slog, zap)")
	fs.BoolVar(&cfg.CoalesceRefresh, "r", cfg.CoalesceRefresh, "share one token refresh between concurrent requests")
	fs.BoolVar(&cfg.Debug, "v", cfg.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	l, ok := models.ParseLocale(*lang)
	if !ok {
		panic(fmt.Sprintf("unsupported language %q", *lang))
	}
	cfg.Language = l
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
