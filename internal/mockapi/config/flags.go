package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/flagx"
)

// parseFlags populates Config from command-line flags.
//
//	-a string   bind address (e.g. ":8080")
//	-p string   route prefix
//	-s string   JWT HMAC secret key
//	-t int      access token validity, seconds
//	-r int      refresh token validity, minutes
//	-log string log backend (slog, zap)
//	-v          debug logging
func parseFlags(config *Config) {
	args := flagx.FilterArgsWithBools(os.Args[1:],
		[]string{"-a", "-p", "-s", "-t", "-r", "-log"},
		[]string{"-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.PathPrefix, "p", config.PathPrefix, "route prefix")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Seconds()), "access token validity (in seconds)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.LogBackend, "log", config.LogBackend, "log backend (slog, zap)")
	fs.BoolVar(&config.Debug, "v", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Second
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
