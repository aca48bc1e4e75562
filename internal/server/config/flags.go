package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/flagx"
)

var knownFlags = []string{
	"-a", "-grpc", "-m", "-d", "-s", "-t", "-o", "-l",
	"-u", "-p", "-b", "-g", "-e", "-x",
}

// parseFlags overlays values from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":3333")
//	-grpc string gRPC health bind address (e.g. ":50051")
//	-m string   storage backend: postgres | memory
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-o string   comma-separated CORS origins
//	-l string   log level
//	-u / -p     S3 root user / password
//	-b / -g     S3 bucket / region
//	-e string   S3 base endpoint
//	-x int      export URL validity, minutes
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.Storage, "m", config.Storage, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.CORSAllowedOrigins, "o", config.CORSAllowedOrigins, "CORS allowed origins")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	exportValidity := fs.Int("x", int(config.ExportURLValidityDuration.Minutes()), "export URL validity (in minutes)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	// only override durations that were set explicitly, so sub-minute values
	// from env or JSON survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		case "x":
			config.ExportURLValidityDuration = time.Duration(*exportValidity) * time.Minute
		}
	})

	return nil
}
