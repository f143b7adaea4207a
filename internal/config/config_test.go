package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  env: staging
database:
  driver: postgres
  url: postgres://rentify@localhost/rentify
jwt:
  secret: from-file
  ttl: 30
upload:
  max_images: 4
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "staging", cfg.Server.Env)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 30, cfg.JWT.TTL)
	assert.Equal(t, 4, cfg.Upload.MaxImages)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	// значения, которых нет в файле, остаются по умолчанию
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "fail", cfg.Payment.DeclinePrefix)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Zero(t, cfg.Workers.ExpiryInterval)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("broken yaml", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		_, err := Load(writeConfig(t, "server: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("no secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load(writeConfig(t, "server:\n  port: 1\n"))
		assert.ErrorContains(t, err, "jwt secret")
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = ""
	assert.Error(t, cfg.Validate())
}
