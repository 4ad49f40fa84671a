package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewViperLoader("", "CASEFLOW").Load()
	require.NoError(t, err)

	assert.Equal(t, "caseflow", cfg.Service.Name)
	assert.Equal(t, "development", cfg.Service.Environment)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.Database.OperationTimeout)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.Equal(t, 10, cfg.Query.DefaultLimit)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: records-api
  environment: staging
database:
  url: mongodb://db:27017
  database_name: records
query:
  default_limit: 25
`)

	cfg, err := NewViperLoader(path, "CASEFLOW").Load()
	require.NoError(t, err)

	assert.Equal(t, "records-api", cfg.Service.Name)
	assert.Equal(t, "staging", cfg.Service.Environment)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.URL)
	assert.Equal(t, "records", cfg.Database.DatabaseName)
	assert.Equal(t, 25, cfg.Query.DefaultLimit)
	// untouched values keep their defaults
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: records-api
database:
  url: mongodb://db:27017
`)

	t.Setenv("CASEFLOW_SERVICE_NAME", "records-api-env")
	t.Setenv("CASEFLOW_DB_URL", "mongodb://env:27017")
	t.Setenv("CASEFLOW_OBSERVABILITY_LOG_LEVEL", "debug")
	t.Setenv("CASEFLOW_QUERY_DEFAULT_LIMIT", "50")

	cfg, err := NewViperLoader(path, "CASEFLOW").Load()
	require.NoError(t, err)

	assert.Equal(t, "records-api-env", cfg.Service.Name)
	assert.Equal(t, "mongodb://env:27017", cfg.Database.URL)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Equal(t, 50, cfg.Query.DefaultLimit)
}

func TestLoad_EnvironmentAlias(t *testing.T) {
	t.Setenv("CASEFLOW_ENVIRONMENT", "production")

	cfg, err := NewViperLoader("", "CASEFLOW").Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Service.Environment)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := NewViperLoader("/nonexistent/config.yaml", "CASEFLOW").Load()
	require.Error(t, err)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	loader := NewViperLoader("", "CASEFLOW")
	cfg := &Config{
		Observability: ObservabilityConfig{LogLevel: "loud", LogFormat: "xml"},
		Database:      DatabaseConfig{ConnectTimeout: -time.Second},
		Query:         QueryConfig{DefaultLimit: 0},
	}

	err := loader.Validate(cfg)
	require.Error(t, err)
	for _, want := range []string{
		"service.name is required",
		"invalid observability.log_level",
		"invalid observability.log_format",
		"database.connect_timeout cannot be negative",
		"query.default_limit must be at least 1",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	loader := NewViperLoader("", "CASEFLOW")
	require.NoError(t, loader.Validate(DefaultConfig()))
}
