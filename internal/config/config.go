// Package config loads the gateway configuration.
//
// Values are resolved in order: `default` struct tags, an optional YAML file
// named by MB_NSE_CONFIG_FILE, then environment variables (a local .env file
// is loaded into the environment first).
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the variable pointing at the optional YAML file
const ConfigFileEnv = "MB_NSE_CONFIG_FILE"

// Config represents the application configuration
type Config struct {
	APIName          string        `env:"MB_NSE_APP_NAME" yaml:"app_name" default:"NSE Gateway"`
	APIVersion       string        `env:"MB_NSE_APP_VERSION" yaml:"app_version" default:"v1.0.0"`
	ServerPort       string        `env:"MB_NSE_SERVER_PORT" yaml:"server_port" default:"6123"`
	ServerLogLevel   string        `env:"MB_NSE_SERVER_LOG_LEVEL" yaml:"server_log_level" default:"info"`
	UpstreamBaseURL  string        `env:"MB_NSE_UPSTREAM_BASE_URL" yaml:"upstream_base_url" default:"https://www.nseindia.com/"`
	UpstreamTimeout  time.Duration `env:"MB_NSE_UPSTREAM_TIMEOUT" yaml:"upstream_timeout" default:"6s"`
	MaxAttempts      int           `env:"MB_NSE_MAX_ATTEMPTS" yaml:"max_attempts" default:"4"`
	CorsAllowOrigins []string      `env:"MB_NSE_CORS_ALLOW_ORIGINS" yaml:"cors_allow_origins" default:"*"`
	PostgresDsn      string        `env:"MB_NSE_PG_DSN" yaml:"pg_dsn"`
	PostgresLogLevel string        `env:"MB_NSE_PG_LOG_LEVEL" yaml:"pg_log_level" default:"error"`
	RedisHost        string        `env:"MB_NSE_REDIS_HOST" yaml:"redis_host"`
	RedisPort        string        `env:"MB_NSE_REDIS_PORT" yaml:"redis_port" default:"6379"`
	RedisPassword    string        `env:"MB_NSE_REDIS_PASSWORD" yaml:"redis_password"`
	ProbeSchedule    string        `env:"MB_NSE_PROBE_SCHEDULE" yaml:"probe_schedule"`
}

var (
	SingleLine string = "--------------------------------------------------"
)

var (
	instance *Config
	once     sync.Once
	err      error
)

// Get returns the process-wide configuration, loading it on first use
func Get() (*Config, error) {
	once.Do(func() {
		_ = godotenv.Load()
		instance, err = Load()
	})
	return instance, err
}

// Load builds a fresh configuration from defaults, the YAML file and the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cfg.apply(func(f reflect.StructField) string { return f.Tag.Get("default") }); err != nil {
		return nil, err
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.apply(func(f reflect.StructField) string { return os.Getenv(f.Tag.Get("env")) }); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RedisEnabled reports whether a Redis host is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// PostgresEnabled reports whether a Postgres DSN is configured
func (c *Config) PostgresEnabled() bool {
	return c.PostgresDsn != ""
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v", path, err)
	}
	return nil
}

// apply sets every field for which lookup returns a non-empty value
func (c *Config) apply(lookup func(reflect.StructField) string) error {
	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(c).Elem()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("env") == "" {
			return fmt.Errorf("missing env tag for field %s", field.Name)
		}

		value := lookup(field)
		if value == "" {
			continue
		}
		if err := setField(v.Field(i), value); err != nil {
			return fmt.Errorf("invalid value for %s: %v", field.Tag.Get("env"), err)
		}
	}
	return nil
}

func setField(fv reflect.Value, value string) error {
	switch fv.Interface().(type) {
	case string:
		fv.SetString(value)
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		fv.SetInt(int64(n))
	case time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
	case []string:
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		fv.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}

func (c *Config) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("MB_NSE_MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("MB_NSE_UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("MB_NSE_UPSTREAM_BASE_URL is required")
	}
	if !strings.HasSuffix(c.UpstreamBaseURL, "/") {
		c.UpstreamBaseURL += "/"
	}
	return nil
}

// String returns the configuration as a string
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n--------------------------------------\n")
	sb.WriteString("Configuration:\n")
	sb.WriteString("--------------------------------------\n")

	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(*c)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := fmt.Sprint(v.Field(i).Interface())

		// Mask sensitive fields
		value = maskSensitiveField(field.Name, value)
		sb.WriteString(fmt.Sprintf("  %s:  %s\n", field.Name, value))
	}

	sb.WriteString("--------------------------------------\n")

	return sb.String()
}

func maskSensitiveField(fieldName, value string) string {
	if value == "" {
		return value
	}
	sensitiveFields := []string{"token", "dsn", "secret", "password"}

	fieldNameLower := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(fieldNameLower, sensitive) {
			return maskValue(value)
		}
	}

	return value
}

func maskValue(value string) string {
	if len(value) <= 3 {
		return strings.Repeat("*", 7)
	}
	return value[:3] + strings.Repeat("*", 7)
}
