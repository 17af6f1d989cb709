package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Campus Core.
type Config struct {
	Campus   CampusConfig   `yaml:"campus"`
	Floors   FloorsConfig   `yaml:"floors"`
	Exams    ExamsConfig    `yaml:"exams"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CampusConfig contains campus-wide settings.
type CampusConfig struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name"`
	Timezone string             `yaml:"timezone"`
	Hours    OpeningHoursConfig `yaml:"hours"`

	// Buildings is the list of known building codes the aggregator
	// derives buildings for. Codes without facility data are reported
	// as warnings, not errors.
	Buildings []string `yaml:"buildings"`
}

// OpeningHoursConfig is the day-boundary window for free-room queries,
// as "HH:MM" strings in the campus timezone.
type OpeningHoursConfig struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// FloorsConfig configures the floor label normalizer.
type FloorsConfig struct {
	// Substitutions maps raw floor labels to canonical ones.
	Substitutions map[string]string `yaml:"substitutions"`

	// DefaultOrder seeds the canonical label ordering. Labels
	// discovered during ingestion are appended after these.
	DefaultOrder []string `yaml:"default_order"`
}

// ExamsConfig contains exam display settings.
type ExamsConfig struct {
	// DurationMinutes is the assumed exam length; upstream exam data
	// carries only a start instant.
	DurationMinutes int `yaml:"duration_minutes"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// InfluxDBConfig contains occupancy trend recording settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides (CAMPUSCORE_SECTION_KEY, e.g. CAMPUSCORE_API_PORT).
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Campus: CampusConfig{
			ID:       "campus-001",
			Name:     "Campus Core",
			Timezone: "UTC",
			Hours: OpeningHoursConfig{
				Open:  "07:00",
				Close: "21:00",
			},
		},
		Floors: FloorsConfig{
			DefaultOrder: []string{"U1", "EG", "01", "02", "03", "04"},
		},
		Exams: ExamsConfig{
			DurationMinutes: 120,
		},
		Database: DatabaseConfig{
			Path:        "./data/campuscore.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAMPUSCORE_CAMPUS_ID"); v != "" {
		cfg.Campus.ID = v
	}
	if v := os.Getenv("CAMPUSCORE_CAMPUS_TIMEZONE"); v != "" {
		cfg.Campus.Timezone = v
	}
	if v := os.Getenv("CAMPUSCORE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("CAMPUSCORE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("CAMPUSCORE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("CAMPUSCORE_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("CAMPUSCORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("CAMPUSCORE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for values that would fail later at
// query time, so startup reports them immediately.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Campus.Timezone); err != nil {
		return fmt.Errorf("invalid campus timezone %q: %w", c.Campus.Timezone, err)
	}
	if err := validateClock(c.Campus.Hours.Open); err != nil {
		return fmt.Errorf("invalid opening time: %w", err)
	}
	if err := validateClock(c.Campus.Hours.Close); err != nil {
		return fmt.Errorf("invalid closing time: %w", err)
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port %d", c.API.Port)
	}
	if c.Exams.DurationMinutes <= 0 {
		return fmt.Errorf("exam duration must be positive, got %d", c.Exams.DurationMinutes)
	}
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		return fmt.Errorf("influxdb enabled but no URL configured")
	}
	return nil
}

// Location returns the parsed campus timezone. Validate guarantees the
// timezone parses, so errors here only occur on unvalidated configs.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Campus.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading campus timezone: %w", err)
	}
	return loc, nil
}

// ExamDuration returns the configured exam duration.
func (c *Config) ExamDuration() time.Duration {
	return time.Duration(c.Exams.DurationMinutes) * time.Minute
}

// validateClock checks an "HH:MM" string.
func validateClock(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("expected HH:MM, got %q: %w", s, err)
	}
	return nil
}
