package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("EDUFORGE_TEST_HOST", "db.internal")

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "host: ${EDUFORGE_TEST_HOST}", "host: db.internal"},
		{"set variable ignores default", "host: ${EDUFORGE_TEST_HOST:localhost}", "host: db.internal"},
		{"default used", "port: ${EDUFORGE_TEST_MISSING:5432}", "port: 5432"},
		{"empty default", "password: ${EDUFORGE_TEST_MISSING:}", "password: "},
		{"undefined kept", "secret: ${EDUFORGE_TEST_MISSING}", "secret: ${EDUFORGE_TEST_MISSING}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, expandEnv(tc.in))
		})
	}
}

func TestLoadFrom_DefaultsWithoutFiles(t *testing.T) {
	t.Setenv("APP_ENV", "")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "eduforge-api", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ProjectTTL)
	assert.Equal(t, 30*time.Second, cfg.Features.ProjectFeed.TTL)
	assert.Equal(t, "X-Tenant-ID", cfg.Security.Tenant.HeaderName)
}

func TestLoadFrom_EnvironmentFileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "staging")
	t.Setenv("EDUFORGE_TEST_DB", "eduforge_staging")

	base := []byte("app:\n  env: staging\nserver:\n  http:\n    port: 9000\ndatabase:\n  postgres:\n    database: base\n")
	staging := []byte("database:\n  postgres:\n    database: ${EDUFORGE_TEST_DB:fallback}\nfeatures:\n  project_feed:\n    ttl: 10s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), base, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), staging, 0o600))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTP.Port)
	assert.Equal(t, "eduforge_staging", cfg.Database.Postgres.Database)
	assert.Equal(t, 10*time.Second, cfg.Features.ProjectFeed.TTL)
	assert.Equal(t, "staging", cfg.App.Env)
}
