package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docdex-io/docdex/internal/domain"
)

// Config holds the docdexd API configuration.
type Config struct {
	HTTP    HTTPConfig            `yaml:"http"`
	Engine  EngineConfig          `yaml:"engine"`
	Manager ManagerConfig         `yaml:"manager"`
	Auth    AuthConfig            `yaml:"auth"`
	Logging LoggingConfig         `yaml:"logging"`
	Kinds   map[string]KindConfig `yaml:"kinds"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// EngineConfig holds engine connection settings.
type EngineConfig struct {
	Driver           string   `yaml:"driver"` // elasticsearch, redisearch (default: elasticsearch)
	URL              string   `yaml:"url"`    // elasticsearch endpoint
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	Addrs            []string `yaml:"addrs"` // redisearch addresses
	DB               int      `yaml:"db"`
	Compression      bool     `yaml:"compression"`
	RequestsPerSec   float64  `yaml:"requests_per_sec"` // 0 = unlimited
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ManagerConfig holds document manager settings.
type ManagerConfig struct {
	BaseIndex     string `yaml:"base_index"`
	RetryAttempts int    `yaml:"retry_attempts"`
	RetryDelayMS  int    `yaml:"retry_delay_ms"`
}

// KindConfig declares one document kind the server registers at boot.
// Mapping is required; settings are attached to the index only when given.
type KindConfig struct {
	Mapping  map[string]any `yaml:"mapping"`
	Settings map[string]any `yaml:"settings"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.Driver == "" {
		c.Engine.Driver = "elasticsearch"
	}
	if c.Engine.ReadinessTimeout <= 0 {
		c.Engine.ReadinessTimeout = 10
	}
	if c.Manager.RetryAttempts <= 0 {
		c.Manager.RetryAttempts = 3
	}
	if c.Manager.RetryDelayMS <= 0 {
		c.Manager.RetryDelayMS = 250
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Engine.Driver {
	case "elasticsearch":
		if c.Engine.URL == "" {
			return fmt.Errorf("engine.url is required for the elasticsearch driver")
		}
	case "redisearch":
		if len(c.Engine.Addrs) == 0 {
			return fmt.Errorf("engine.addrs is required for the redisearch driver")
		}
	default:
		return fmt.Errorf("engine.driver must be \"elasticsearch\" or \"redisearch\", got %q", c.Engine.Driver)
	}
	if c.Manager.BaseIndex == "" {
		return fmt.Errorf("manager.base_index is required")
	}
	if strings.Contains(c.Manager.BaseIndex, domain.IndexSeparator) {
		return fmt.Errorf("manager.base_index must not contain %q, got %q", domain.IndexSeparator, c.Manager.BaseIndex)
	}
	for kind, kc := range c.Kinds {
		if kind == "" {
			return fmt.Errorf("kinds: kind name must not be empty")
		}
		if len(kc.Mapping) == 0 {
			return fmt.Errorf("kinds.%s.mapping is required", kind)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
