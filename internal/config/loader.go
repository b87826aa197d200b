package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config captures environment driven configuration values for the API server.
type Config struct {
	HTTPPort  int
	SQLiteDSN string
	JWTSecret string
	JWTIssuer string
	LogFormat string
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults; required values and
// malformed entries are accumulated and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:kuzhu.db?_pragma=foreign_keys(1)",
		LogFormat: "json",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("KUZHU_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "KUZHU_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("KUZHU_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("KUZHU_JWT_SECRET")); secret == "" {
		missing = append(missing, "KUZHU_JWT_SECRET")
	} else {
		cfg.JWTSecret = secret
	}

	if issuer := strings.TrimSpace(os.Getenv("KUZHU_JWT_ISSUER")); issuer != "" {
		cfg.JWTIssuer = issuer
	}

	if format := strings.TrimSpace(os.Getenv("KUZHU_LOG_FORMAT")); format != "" {
		switch strings.ToLower(format) {
		case "json", "text":
			cfg.LogFormat = strings.ToLower(format)
		default:
			invalid = append(invalid, "KUZHU_LOG_FORMAT")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
