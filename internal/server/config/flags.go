package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/questlog/internal/flagx"
)

// parseFlags overlays the server Config with command-line flags.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-m string   metrics bind address
//	-k string   Redis address for token revocation
//	-v bool     require email verification before sign-in
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgsWithBools(os.Args[1:],
		[]string{"-a", "-d", "-s", "-t", "-r", "-m", "-k", "-l"},
		[]string{"-v"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address, empty to disable")
	fs.StringVar(&config.RedisAddr, "k", config.RedisAddr, "redis address for revoked tokens, empty for in-memory")
	fs.BoolVar(&config.RequireEmailVerification, "v", config.RequireEmailVerification, "require email verification before sign-in")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
