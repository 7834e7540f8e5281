// Package relay implements the relay service the panel talks to in
// internal mode: it authenticates panel sessions, injects pooled
// provider keys and forwards chat and video requests upstream.
package relay

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/pagegen/pagegen/internal/provider"
)

const (
	defaultConfigName = "relay"
	defaultConfigType = "yaml"
	envPrefix         = "PAGEGEN_RELAY"

	// EnvSessionTokens is the comma-separated list of accepted panel
	// session tokens. It takes priority over file configuration.
	EnvSessionTokens = "PAGEGEN_SESSION_TOKENS"
)

// Config holds the relay service configuration.
type Config struct {
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Auth    AuthConfig    `json:"auth" mapstructure:"auth"`
	KeyPool KeyPoolConfig `json:"key_pool" mapstructure:"key_pool"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// ProviderKeys maps provider ids to their upstream key pools. Loaded
	// from the environment, never from files.
	ProviderKeys map[provider.ID][]string `json:"-" mapstructure:"-"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Host                   string `json:"host" mapstructure:"host"`
	Port                   int    `json:"port" mapstructure:"port"`
	ReadTimeoutSeconds     int    `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// AuthConfig holds session authentication configuration.
type AuthConfig struct {
	// SessionTokens are the accepted bearer tokens. An empty list
	// rejects every request; the relay never runs open.
	SessionTokens []string `json:"session_tokens" mapstructure:"session_tokens"`
}

// KeyPoolConfig tunes key rotation behavior.
type KeyPoolConfig struct {
	// RetryCount is how many keys to try before giving up on a request.
	RetryCount int `json:"retry_count" mapstructure:"retry_count"`

	// CooldownSeconds is how long a failed key stays out of rotation.
	CooldownSeconds int `json:"cooldown_seconds" mapstructure:"cooldown_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// LoadConfig loads the relay configuration.
// Priority order (highest to lowest):
//  1. PAGEGEN_SESSION_TOKENS and per-provider *_API_KEYS env vars
//  2. Environment variables prefixed with PAGEGEN_RELAY_
//  3. relay.yaml, for local development only
//  4. Defaults
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.pagegen")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{Op: "read", Err: err}
		}
		// No config file is fine, env vars are the preferred source.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Op: "unmarshal", Err: err}
	}

	// Session tokens from the environment override any file entries.
	if env := os.Getenv(EnvSessionTokens); env != "" {
		cfg.Auth.SessionTokens = splitNonEmpty(env)
	}

	cfg.ProviderKeys = loadProviderKeys(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 120)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	v.SetDefault("key_pool.retry_count", 3)
	v.SetDefault("key_pool.cooldown_seconds", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// loadProviderKeys reads upstream key pools from the environment. Each
// provider accepts a plural comma-separated variable (OPENAI_API_KEYS)
// with the registry's single-key variable (OPENAI_API_KEY) as fallback.
func loadProviderKeys(getenv func(string) string) map[provider.ID][]string {
	pools := make(map[provider.ID][]string)
	for _, id := range provider.All() {
		adapter, ok := provider.Lookup(id)
		if !ok || adapter.KeyEnvVar == "" {
			continue
		}
		plural := strings.TrimSuffix(adapter.KeyEnvVar, "_KEY") + "_KEYS"
		var keys []string
		if env := getenv(plural); env != "" {
			keys = splitNonEmpty(env)
		} else if env := getenv(adapter.KeyEnvVar); env != "" {
			keys = []string{env}
		}
		if len(keys) > 0 {
			pools[id] = keys
		}
	}
	return pools
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration and collects every failure.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if len(c.Auth.SessionTokens) == 0 {
		errs = append(errs, fmt.Sprintf("auth.session_tokens cannot be empty, set %s", EnvSessionTokens))
	}
	for i, token := range c.Auth.SessionTokens {
		if len(token) < 16 {
			errs = append(errs, fmt.Sprintf("auth.session_tokens[%d] is too short, use at least 16 characters", i))
		}
	}
	if c.KeyPool.RetryCount <= 0 {
		errs = append(errs, "key_pool.retry_count must be positive")
	}
	if len(c.ProviderKeys) == 0 {
		errs = append(errs, "no provider keys configured, set at least one *_API_KEY env var")
	}
	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		errs = append(errs, fmt.Sprintf(
			"logging.level '%s' is invalid, must be one of: debug, info, warn, error", c.Logging.Level))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
