package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays values from environment variables. Unset variables leave
// the current value untouched.
//
//	HTTP_ADDRESS, GRPC_ADDRESS, STORAGE, DATABASE_URL, JWT_SECRET, JWT_EXP_TIME,
//	CORS_ALLOWED_ORIGINS, GIN_MODE, LOG_LEVEL, S3_ROOT_USER, S3_ROOT_PASSWORD,
//	S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, EXPORT_URL_VALIDITY
func parseEnv(c *Config, lookupEnv func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_ADDRESS":         &c.EndpointAddrHTTP,
		"GRPC_ADDRESS":         &c.EndpointAddrGRPC,
		"STORAGE":              &c.Storage,
		"DATABASE_URL":         &c.DatabaseDSN,
		"JWT_SECRET":           &c.SecretKey,
		"CORS_ALLOWED_ORIGINS": &c.CORSAllowedOrigins,
		"GIN_MODE":             &c.GinMode,
		"LOG_LEVEL":            &c.LogLevel,
		"S3_ROOT_USER":         &c.S3RootUser,
		"S3_ROOT_PASSWORD":     &c.S3RootPassword,
		"S3_BUCKET":            &c.S3Bucket,
		"S3_REGION":            &c.S3Region,
		"S3_BASE_ENDPOINT":     &c.S3BaseEndpoint,
	}
	for key, dst := range strs {
		if v, ok := lookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"JWT_EXP_TIME":        &c.AccessTokenValidityDuration,
		"EXPORT_URL_VALIDITY": &c.ExportURLValidityDuration,
	}
	for key, dst := range durations {
		v, ok := lookupEnv(key)
		if !ok || v == "" {
			continue
		}
		d, err := parseExpiry(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	return nil
}

// parseExpiry accepts Go durations ("15m", "1h30m"), a day count ("7d"), or
// a bare integer meaning seconds.
func parseExpiry(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)

	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}
