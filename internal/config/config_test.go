package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable applyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SERVER_PORT", "SERVER_HOST", "HOIDAP_SOURCE_DRIVER", "HOIDAP_CSV_DIR",
		"HOIDAP_SHEET_ID", "DATABASE_URL", "REDIS_URL", "HOIDAP_SAMPLES_PATH",
		"HOIDAP_MATCH_THRESHOLD", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.6, cfg.Matching.Threshold)
	assert.Equal(t, "Hỏi-Trả lời", cfg.Tables.QA.Name)
	assert.Equal(t, "Thuộc xã/phường", cfg.Tables.Leadership.RegionColumn)
	assert.Equal(t, "STT đường dây", cfg.Tables.Substation.FeederColumn)
	assert.Len(t, cfg.Intents.Regions, 8)
	assert.False(t, cfg.Intents.LegacyRegionPattern)
	assert.False(t, cfg.Intents.FallbackOnNoOp)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "hoidap.yaml")
	content := `
source:
  driver: sqlite
  sqlite:
    path: ref.db
samples:
  path: samples.yaml
matching:
  threshold: 0.7
  algorithm: levenshtein
intents:
  fallback_on_noop: true
cache:
  driver: memory
  ttl: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Source.Driver)
	assert.Equal(t, filepath.Join(dir, "ref.db"), cfg.Source.SQLite.Path)
	assert.Equal(t, filepath.Join(dir, "samples.yaml"), cfg.Samples.Path)
	assert.Equal(t, 0.7, cfg.Matching.Threshold)
	assert.Equal(t, "levenshtein", cfg.Matching.Algorithm)
	assert.True(t, cfg.Intents.FallbackOnNoOp)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	// Untouched sections keep their defaults.
	assert.Equal(t, "Tên các TBA", cfg.Tables.Substation.Name)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/ref?sslmode=disable")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("HOIDAP_MATCH_THRESHOLD", "0.75")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Source.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/ref?sslmode=disable", cfg.Source.Postgres.DSN)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 0.75, cfg.Matching.Threshold)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_SheetIDSelectsSheetsDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOIDAP_SHEET_ID", "13MqQzvV3Mf9")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sheets", cfg.Source.Driver)
	assert.Equal(t, "13MqQzvV3Mf9", cfg.Source.Sheets.SpreadsheetID)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"bad driver", func(c *Config) { c.Source.Driver = "excel" }, "invalid source driver"},
		{"postgres without dsn", func(c *Config) { c.Source.Driver = "postgres" }, "dsn is required"},
		{"sheets without id", func(c *Config) { c.Source.Driver = "sheets" }, "spreadsheet_id is required"},
		{"threshold zero", func(c *Config) { c.Matching.Threshold = 0 }, "matching.threshold"},
		{"threshold above one", func(c *Config) { c.Matching.Threshold = 1.5 }, "matching.threshold"},
		{"bad algorithm", func(c *Config) { c.Matching.Algorithm = "soundex" }, "invalid matching algorithm"},
		{"bad cache", func(c *Config) { c.Cache.Driver = "memcached" }, "invalid cache driver"},
		{"missing region column", func(c *Config) { c.Tables.Leadership.RegionColumn = "" }, "tables.leadership"},
		{"missing feeder column", func(c *Config) { c.Tables.Substation.FeederColumn = "" }, "tables.substation"},
		{"missing qa answer column", func(c *Config) { c.Tables.QA.AnswerColumn = "" }, "tables.qa"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestResolveRelativePath(t *testing.T) {
	assert.Equal(t, "/etc/hoidap/data", ResolveRelativePath("/etc/hoidap/config.yaml", "data"))
	assert.Equal(t, "/abs/data", ResolveRelativePath("/etc/hoidap/config.yaml", "/abs/data"))
	assert.Equal(t, "", ResolveRelativePath("/etc/hoidap/config.yaml", ""))
}
