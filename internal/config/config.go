// Package config provides unified configuration loading for hoidap.
// Supports YAML files, .env files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for hoidap.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Source        SourceConfig        `yaml:"source"`
	Tables        TablesConfig        `yaml:"tables"`
	Samples       SamplesConfig       `yaml:"samples"`
	Matching      MatchingConfig      `yaml:"matching"`
	Intents       IntentsConfig       `yaml:"intents"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// SourceConfig selects and configures the tabular data source.
type SourceConfig struct {
	Driver   string         `yaml:"driver"` // csv, sqlite, postgres or sheets
	CSV      CSVConfig      `yaml:"csv"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Sheets   SheetsConfig   `yaml:"sheets"`
}

// CSVConfig holds settings for a directory of <table>.csv files.
type CSVConfig struct {
	Dir string `yaml:"dir"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// SheetsConfig holds settings for the published spreadsheet CSV export.
type SheetsConfig struct {
	SpreadsheetID  string        `yaml:"spreadsheet_id"`
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
}

// TablesConfig names the three reference tables and their key columns.
type TablesConfig struct {
	QA         QATableConfig         `yaml:"qa"`
	Leadership LeadershipTableConfig `yaml:"leadership"`
	Substation SubstationTableConfig `yaml:"substation"`
}

// QATableConfig maps the question/answer table.
type QATableConfig struct {
	Name           string `yaml:"name"`
	QuestionColumn string `yaml:"question_column"`
	AnswerColumn   string `yaml:"answer_column"`
}

// LeadershipTableConfig maps the leadership roster. Only RegionColumn is required.
type LeadershipTableConfig struct {
	Name           string `yaml:"name"`
	RegionColumn   string `yaml:"region_column"`
	NameColumn     string `yaml:"name_column"`
	PositionColumn string `yaml:"position_column"`
	PhoneColumn    string `yaml:"phone_column"`
}

// SubstationTableConfig maps the substation list. Only FeederColumn is required.
type SubstationTableConfig struct {
	Name         string `yaml:"name"`
	FeederColumn string `yaml:"feeder_column"`
	NameColumn   string `yaml:"name_column"`
}

// SamplesConfig points at the sample question list.
type SamplesConfig struct {
	Path string `yaml:"path"`
}

// MatchingConfig holds fuzzy matching settings.
type MatchingConfig struct {
	Threshold float64 `yaml:"threshold"`
	Algorithm string  `yaml:"algorithm"` // sequence or levenshtein
}

// IntentsConfig holds keyword routing settings.
type IntentsConfig struct {
	LeadershipKeywords  []string `yaml:"leadership_keywords"`
	SubstationKeywords  []string `yaml:"substation_keywords"`
	FeederKeywords      []string `yaml:"feeder_keywords"`
	Regions             []string `yaml:"regions"`
	LegacyRegionPattern bool     `yaml:"legacy_region_pattern"`
	FallbackOnNoOp      bool     `yaml:"fallback_on_noop"`
}

// CacheConfig holds table snapshot cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // none, memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies .env and environment overrides.
func Load(path string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		cfg.resolvePaths(path)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration matching the original spreadsheet layout.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Source: SourceConfig{
			Driver: "csv",
			CSV:    CSVConfig{Dir: "data"},
			SQLite: SQLiteConfig{Path: "data/hoidap.db"},
			Postgres: PostgresConfig{
				MaxOpenConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
			Sheets: SheetsConfig{
				BaseURL:        "https://docs.google.com",
				Timeout:        20 * time.Second,
				MaxRetries:     3,
				InitialBackoff: time.Second,
			},
		},
		Tables: TablesConfig{
			QA: QATableConfig{
				Name:           "Hỏi-Trả lời",
				QuestionColumn: "Câu hỏi",
				AnswerColumn:   "Câu trả lời",
			},
			Leadership: LeadershipTableConfig{
				Name:           "Danh sách lãnh đạo xã, phường",
				RegionColumn:   "Thuộc xã/phường",
				NameColumn:     "Họ và tên",
				PositionColumn: "Chức vụ",
				PhoneColumn:    "Số điện thoại",
			},
			Substation: SubstationTableConfig{
				Name:         "Tên các TBA",
				FeederColumn: "STT đường dây",
				NameColumn:   "Tên TBA",
			},
		},
		Samples: SamplesConfig{Path: "sample_questions.json"},
		Matching: MatchingConfig{
			Threshold: 0.6,
			Algorithm: "sequence",
		},
		Intents: IntentsConfig{
			LeadershipKeywords: []string{"lãnh đạo", "leadership"},
			SubstationKeywords: []string{"tba", "substation"},
			FeederKeywords:     []string{"đường dây", "feeder line"},
			Regions: []string{
				"định hóa", "kim phượng", "phượng tiến", "trung hội",
				"bình yên", "phú đình", "bình thành", "lam vỹ",
			},
		},
		Cache: CacheConfig{
			Driver:     "none",
			TTL:        10 * time.Minute,
			MaxEntries: 64,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 4,
				Prefix:   "hoidap:",
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "console",
			ServiceName: "hoidap",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Source.Driver {
	case "csv":
		if c.Source.CSV.Dir == "" {
			return fmt.Errorf("source.csv.dir is required for the csv driver")
		}
	case "sqlite":
		if c.Source.SQLite.Path == "" {
			return fmt.Errorf("source.sqlite.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Source.Postgres.DSN == "" {
			return fmt.Errorf("source.postgres.dsn is required for the postgres driver")
		}
	case "sheets":
		if c.Source.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("source.sheets.spreadsheet_id is required for the sheets driver")
		}
	default:
		return fmt.Errorf("invalid source driver: %s", c.Source.Driver)
	}

	if c.Tables.QA.Name == "" || c.Tables.QA.QuestionColumn == "" || c.Tables.QA.AnswerColumn == "" {
		return fmt.Errorf("tables.qa requires name, question_column and answer_column")
	}
	if c.Tables.Leadership.Name == "" || c.Tables.Leadership.RegionColumn == "" {
		return fmt.Errorf("tables.leadership requires name and region_column")
	}
	if c.Tables.Substation.Name == "" || c.Tables.Substation.FeederColumn == "" {
		return fmt.Errorf("tables.substation requires name and feeder_column")
	}

	if c.Matching.Threshold <= 0 || c.Matching.Threshold > 1 {
		return fmt.Errorf("matching.threshold must be in (0, 1], got %v", c.Matching.Threshold)
	}
	if c.Matching.Algorithm != "sequence" && c.Matching.Algorithm != "levenshtein" {
		return fmt.Errorf("invalid matching algorithm: %s", c.Matching.Algorithm)
	}

	if c.Cache.Driver != "none" && c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	return nil
}

// resolvePaths makes relative file paths in the config relative to the config file.
func (c *Config) resolvePaths(configPath string) {
	c.Samples.Path = ResolveRelativePath(configPath, c.Samples.Path)
	c.Source.CSV.Dir = ResolveRelativePath(configPath, c.Source.CSV.Dir)
	c.Source.SQLite.Path = ResolveRelativePath(configPath, c.Source.SQLite.Path)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("HOIDAP_SOURCE_DRIVER"); v != "" {
		cfg.Source.Driver = v
	}

	if v := os.Getenv("HOIDAP_CSV_DIR"); v != "" {
		cfg.Source.CSV.Dir = v
	}

	if v := os.Getenv("HOIDAP_SHEET_ID"); v != "" {
		cfg.Source.Sheets.SpreadsheetID = v
		if os.Getenv("HOIDAP_SOURCE_DRIVER") == "" {
			cfg.Source.Driver = "sheets"
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Source.Driver = "sqlite"
			cfg.Source.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Source.Driver = "postgres"
			cfg.Source.Postgres.DSN = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("HOIDAP_SAMPLES_PATH"); v != "" {
		cfg.Samples.Path = v
	}

	if v := os.Getenv("HOIDAP_MATCH_THRESHOLD"); v != "" {
		if th, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matching.Threshold = th
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if targetPath == "" || filepath.IsAbs(targetPath) {
		return targetPath
	}
	return filepath.Join(filepath.Dir(configPath), targetPath)
}
