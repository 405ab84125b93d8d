// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	bank := cfg.Input.BankStatement
//	password := cfg.GetSecret(cfg.Input.Password, "CONCILIA_PDF_PASSWORD")
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLineTolerance = 3.0
	DefaultLookahead     = 15
	MaxLookahead         = 16
	DefaultWorkers       = 4
	DefaultAPIPort       = 8085
)

// Config represents the entire application configuration
type Config struct {
	Input         InputConfig         `yaml:"input"`
	Output        OutputConfig        `yaml:"output"`
	Parsing       ParsingConfig       `yaml:"parsing"`
	Matching      MatchingConfig      `yaml:"matching"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// InputConfig locates the statements to reconcile
type InputConfig struct {
	BankStatement string `yaml:"bank_statement"`
	TrackerDir    string `yaml:"tracker_dir"`
	Password      string `yaml:"password"`
}

// OutputConfig holds report output settings
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ParsingConfig tunes statement reconstruction
type ParsingConfig struct {
	LineTolerance  float64 `yaml:"line_tolerance"`
	LookaheadLines int     `yaml:"lookahead_lines"`
	Year           int     `yaml:"year"` // 0 = infer from the statement
}

// MatchingConfig holds reconciliation settings
type MatchingConfig struct {
	Workers int `yaml:"workers"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // maven, json or text
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${CONCILIA_PDF_PASSWORD})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Input: InputConfig{
			BankStatement: os.Getenv("CONCILIA_BANK_STATEMENT"),
			TrackerDir:    os.Getenv("CONCILIA_TRACKER_DIR"),
			Password:      os.Getenv("CONCILIA_PDF_PASSWORD"),
		},
		Output: OutputConfig{
			Dir: getEnv("CONCILIA_OUTPUT_DIR", "out"),
		},
		Parsing: ParsingConfig{
			LineTolerance:  DefaultLineTolerance,
			LookaheadLines: getEnvInt("CONCILIA_LOOKAHEAD", DefaultLookahead),
			Year:           getEnvInt("CONCILIA_YEAR", 0),
		},
		Matching: MatchingConfig{
			Workers: getEnvInt("CONCILIA_WORKERS", DefaultWorkers),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("CONCILIA_DB_PATH", "concilia.db"),
		},
		API: APIConfig{
			Port:           getEnvInt("CONCILIA_API_PORT", DefaultAPIPort),
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "maven"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Output.Dir == "" {
		c.Output.Dir = "out"
	}
	if c.Parsing.LineTolerance == 0 {
		c.Parsing.LineTolerance = DefaultLineTolerance
	}
	if c.Parsing.LookaheadLines == 0 {
		c.Parsing.LookaheadLines = DefaultLookahead
	}
	if c.Matching.Workers == 0 {
		c.Matching.Workers = DefaultWorkers
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "concilia.db"
	}
	if c.API.Port == 0 {
		c.API.Port = DefaultAPIPort
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "maven"
	}
}

// Validate checks settings that would make parsing meaningless
func (c *Config) Validate() error {
	var errs []error
	if c.Parsing.LookaheadLines < 1 || c.Parsing.LookaheadLines > MaxLookahead {
		errs = append(errs, fmt.Errorf("parsing.lookahead_lines must be between 1 and %d, got %d", MaxLookahead, c.Parsing.LookaheadLines))
	}
	if c.Parsing.LineTolerance <= 0 {
		errs = append(errs, fmt.Errorf("parsing.line_tolerance must be positive, got %v", c.Parsing.LineTolerance))
	}
	if c.Matching.Workers < 1 {
		errs = append(errs, fmt.Errorf("matching.workers must be at least 1, got %d", c.Matching.Workers))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// GetSecret retrieves a secret from config first, then tries multiple environment variable names
// Usage: GetSecret(cfg.Input.Password, "CONCILIA_PDF_PASSWORD")
func (c *Config) GetSecret(configValue string, envVarNames ...string) string {
	// First, try the config value
	if configValue != "" {
		return configValue
	}

	// Then try each environment variable in order
	for _, envVar := range envVarNames {
		if val := os.Getenv(envVar); val != "" {
			return val
		}
	}

	return ""
}
