package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: 127.0.0.1:9000
postgres:
  dsn: postgres://file
auth:
  jwtSecret: from-file-0123456789
  tokenTTL: 2h
notifications:
  pollRate: 0.5
  pollBurst: 2
`), 0o600))

	t.Setenv("POSTGRES_CONN", "postgres://env")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	require.Equal(t, "postgres://env", cfg.Postgres.DSN)
	require.Equal(t, "from-file-0123456789", cfg.Auth.JWTSecret)
	require.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, 3, cfg.Redis.DB)
	require.Equal(t, 0.5, cfg.Notifications.PollRate)
	require.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.ErrorContains(t, err, "POSTGRES_CONN")
	require.ErrorContains(t, err, "JWT_SECRET")

	cfg.Postgres.DSN = "postgres://x"
	cfg.Auth.JWTSecret = "0123456789abcdef"
	require.NoError(t, cfg.Validate())

	cfg.Log.Format = "xml"
	require.ErrorContains(t, cfg.Validate(), "xml")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
