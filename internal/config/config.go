// Package config loads the netquery server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Audit sink drivers.
const (
	AuditDriverPostgres = "postgres"
	AuditDriverLog      = "log"
	AuditDriverNone     = "none"
)

// Config holds the netquery API configuration.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Database       DatabaseConfig       `yaml:"database"`
	Embedding      EmbeddingConfig      `yaml:"embedding"`
	Auth           AuthConfig           `yaml:"auth"`
	Retrieval      RetrievalConfig      `yaml:"retrieval"`
	Summary        SummaryConfig        `yaml:"summary"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
	Integration    IntegrationConfig    `yaml:"integration"`
	Audit          AuditConfig          `yaml:"audit"`
	Cache          CacheConfig          `yaml:"cache"`
	Tracing        TracingConfig        `yaml:"tracing"`
	Logging        LoggingConfig        `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds vector store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the query embedding provider.
type EmbeddingConfig struct {
	Provider         string `yaml:"provider"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
	TimeoutSec       int    `yaml:"timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// RetrievalConfig holds nearest-neighbour search settings.
type RetrievalConfig struct {
	TopK           int `yaml:"top_k"`
	RetryAttempts  int `yaml:"retry_attempts"` // 1 = no retry
	RetryBackoffMS int `yaml:"retry_backoff_ms"`
}

// SummaryConfig bounds the rendered answer.
type SummaryConfig struct {
	Inline    int `yaml:"inline"`
	Companies int `yaml:"companies"`
	Positions int `yaml:"positions"`
}

// RecommendationConfig holds the recommendation rule constants.
type RecommendationConfig struct {
	WarmIntroThreshold    float64  `yaml:"warm_intro_threshold"`
	MaxListed             int      `yaml:"max_listed"`
	DecisionMakerKeywords []string `yaml:"decision_maker_keywords"`
}

// IntegrationConfig holds the CRM consumer settings. An empty UpstreamURL answers in-process.
type IntegrationConfig struct {
	Enabled            bool    `yaml:"enabled"`
	UpstreamURL        string  `yaml:"upstream_url"`
	UpstreamAPIKey     string  `yaml:"upstream_api_key"`
	UpstreamTimeoutSec int     `yaml:"upstream_timeout_sec"`
	TopConnections     int     `yaml:"top_connections"`
	HighIntroThreshold float64 `yaml:"high_intro_threshold"`
	MedIntroThreshold  float64 `yaml:"medium_intro_threshold"`
}

// AuditConfig selects the audit sink.
type AuditConfig struct {
	Driver          string `yaml:"driver"` // postgres, log, none (default: log)
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_sec"`
}

// CacheConfig holds cache lifetimes. Zero embedding TTL stores embeddings without expiry.
type CacheConfig struct {
	ScopeTTLSec     int `yaml:"scope_ttl_sec"`
	EmbeddingTTLSec int `yaml:"embedding_ttl_sec"`
}

// TracingConfig holds OpenTelemetry export settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`  // optional rotating log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates the configuration at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 15
	}

	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 10
	}
	if c.Retrieval.RetryAttempts <= 0 {
		c.Retrieval.RetryAttempts = 1
	}
	if c.Retrieval.RetryBackoffMS <= 0 {
		c.Retrieval.RetryBackoffMS = 100
	}

	if c.Integration.UpstreamTimeoutSec <= 0 {
		c.Integration.UpstreamTimeoutSec = 30
	}

	if c.Audit.Driver == "" {
		c.Audit.Driver = AuditDriverLog
	}
	if c.Audit.TimeoutSec <= 0 {
		c.Audit.TimeoutSec = 5
	}
	if c.Audit.MaxOpenConns <= 0 {
		c.Audit.MaxOpenConns = 5
	}
	if c.Audit.MaxIdleConns <= 0 {
		c.Audit.MaxIdleConns = 2
	}

	if c.Cache.ScopeTTLSec <= 0 {
		c.Cache.ScopeTTLSec = 60
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "netquery"
	}
	if c.Tracing.SampleRatio <= 0 {
		c.Tracing.SampleRatio = 1
	}

	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	if c.Retrieval.TopK > 1000 {
		return fmt.Errorf("retrieval.top_k must be at most 1000, got %d", c.Retrieval.TopK)
	}

	switch c.Audit.Driver {
	case AuditDriverPostgres:
		if c.Audit.DSN == "" {
			return fmt.Errorf("audit.dsn is required for the postgres driver")
		}
	case AuditDriverLog, AuditDriverNone:
	default:
		return fmt.Errorf("audit.driver must be %q, %q or %q, got %q",
			AuditDriverPostgres, AuditDriverLog, AuditDriverNone, c.Audit.Driver)
	}

	if err := validateThreshold("recommendation.warm_intro_threshold", c.Recommendation.WarmIntroThreshold); err != nil {
		return err
	}
	if err := validateThreshold("integration.high_intro_threshold", c.Integration.HighIntroThreshold); err != nil {
		return err
	}
	if err := validateThreshold("integration.medium_intro_threshold", c.Integration.MedIntroThreshold); err != nil {
		return err
	}
	hi, med := c.Integration.HighIntroThreshold, c.Integration.MedIntroThreshold
	if hi > 0 && med > 0 && med >= hi {
		return fmt.Errorf("integration.medium_intro_threshold (%g) must be below high_intro_threshold (%g)", med, hi)
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	if c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be in (0,1], got %g", c.Tracing.SampleRatio)
	}
	return nil
}

func validateThreshold(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be in [0,1], got %g", name, v)
	}
	return nil
}

// RetryBackoff returns the retrieval retry backoff as a duration.
func (c RetrievalConfig) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMS) * time.Millisecond
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests and `go run` from another directory.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
