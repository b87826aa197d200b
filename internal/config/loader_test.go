package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KUZHU_JWT_SECRET", "test-secret")
	t.Setenv("KUZHU_HTTP_PORT", "")
	t.Setenv("KUZHU_SQLITE_DSN", "")
	t.Setenv("KUZHU_LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.HTTPPort)
	require.Equal(t, "file:kuzhu.db?_pragma=foreign_keys(1)", cfg.SQLiteDSN)
	require.Equal(t, "test-secret", cfg.JWTSecret)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("KUZHU_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "KUZHU_JWT_SECRET")
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("KUZHU_JWT_SECRET", "test-secret")
	t.Setenv("KUZHU_HTTP_PORT", "not-a-port")
	t.Setenv("KUZHU_LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "KUZHU_HTTP_PORT")
	require.Contains(t, err.Error(), "KUZHU_LOG_FORMAT")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KUZHU_JWT_SECRET", "test-secret")
	t.Setenv("KUZHU_HTTP_PORT", "9001")
	t.Setenv("KUZHU_SQLITE_DSN", "file:other.db")
	t.Setenv("KUZHU_JWT_ISSUER", "kuzhu-test")
	t.Setenv("KUZHU_LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9001, cfg.HTTPPort)
	require.Equal(t, "file:other.db", cfg.SQLiteDSN)
	require.Equal(t, "kuzhu-test", cfg.JWTIssuer)
	require.Equal(t, "text", cfg.LogFormat)
}
