package provider

import (
	"fmt"
	"os"
	"strings"
)

// Env supplies the ambient values credential resolution depends on.
// Resolution is a pure function of (provider, mode, env) so tests can
// exercise arbitrary mode combinations without touching the process
// environment.
type Env struct {
	// RelayBaseURL routes internal-mode calls through the relay when set.
	RelayBaseURL string

	// SessionToken authenticates the caller against the relay.
	SessionToken string

	// Getenv reads ops-injected provider keys. Defaults to os.Getenv.
	Getenv func(string) string
}

// OSEnv returns an Env backed by the process environment.
func OSEnv() Env {
	return Env{
		RelayBaseURL: os.Getenv("PAGEGEN_RELAY_URL"),
		SessionToken: os.Getenv("PAGEGEN_SESSION_TOKEN"),
		Getenv:       os.Getenv,
	}
}

// Route says which path a resolved config takes on the wire.
type Route string

const (
	// RouteDirect calls the provider's own endpoint.
	RouteDirect Route = "direct"

	// RouteRelay calls the relay, which re-signs with a server-held key.
	RouteRelay Route = "relay"
)

// ResolvedConfig is the outcome of credential resolution for one request.
// It is derived fresh per call and never cached: mode or relay settings may
// change between calls.
type ResolvedConfig struct {
	Provider *Adapter
	Route    Route
	BaseURL  string
	APIKey   string
}

// ResolveConfig resolves {baseUrl, apiKey} for a provider in the given
// mode. It fails closed: any combination that would reach the network
// without a usable credential is reported as a configuration error before
// a request body is even built.
func ResolveConfig(id ID, mode Mode, env Env, customBaseURL, customKey string) (ResolvedConfig, error) {
	adapter, ok := Lookup(id)
	if !ok {
		return ResolvedConfig{}, &ConfigError{Field: "provider", Reason: fmt.Sprintf("unknown provider %q", id)}
	}

	switch mode {
	case ModeCustom:
		baseURL := strings.TrimSuffix(customBaseURL, "/")
		if baseURL == "" {
			return ResolvedConfig{}, &ConfigError{Field: "base_url", Reason: "base URL not configured"}
		}
		if customKey == "" {
			return ResolvedConfig{}, &ConfigError{Field: "api_key", Reason: "API key not configured"}
		}
		return ResolvedConfig{Provider: adapter, Route: RouteDirect, BaseURL: baseURL, APIKey: customKey}, nil

	case ModeInternal:
		if env.RelayBaseURL != "" {
			// Relay route without a session token is a hard stop, not a
			// silent fallback: continuing would call an endpoint with no
			// authorization at all.
			if env.SessionToken == "" {
				return ResolvedConfig{}, &ConfigError{Field: "session_token", Reason: "relay configured but session token is missing"}
			}
			return ResolvedConfig{
				Provider: adapter,
				Route:    RouteRelay,
				BaseURL:  strings.TrimSuffix(env.RelayBaseURL, "/"),
				APIKey:   env.SessionToken,
			}, nil
		}
		getenv := env.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		key := getenv(adapter.KeyEnvVar)
		if key == "" {
			return ResolvedConfig{}, &ConfigError{
				Field:  "api_key",
				Reason: fmt.Sprintf("no relay configured and %s is not set", adapter.KeyEnvVar),
			}
		}
		return ResolvedConfig{Provider: adapter, Route: RouteDirect, BaseURL: adapter.BaseURL, APIKey: key}, nil

	default:
		return ResolvedConfig{}, &ConfigError{Field: "api_mode", Reason: fmt.Sprintf("unknown mode %q", mode)}
	}
}

// ConfigError reports a credential or endpoint misconfiguration. It is
// always raised before any network I/O.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Field, e.Reason)
}

// IsConfigError checks whether err is a ConfigError.
func IsConfigError(err error) bool {
	_, ok := err.(*ConfigError)
	return ok
}
