package provider

import (
	"errors"
	"testing"
)

func TestResolveConfigCustomMode(t *testing.T) {
	env := Env{Getenv: func(string) string { return "" }}

	t.Run("uses supplied endpoint and key", func(t *testing.T) {
		rc, err := ResolveConfig(GPT, ModeCustom, env, "https://proxy.example.com/v1/", "sk-custom")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rc.Route != RouteDirect {
			t.Errorf("route = %q, want %q", rc.Route, RouteDirect)
		}
		if rc.BaseURL != "https://proxy.example.com/v1" {
			t.Errorf("baseURL = %q, trailing slash should be trimmed", rc.BaseURL)
		}
		if rc.APIKey != "sk-custom" {
			t.Errorf("apiKey = %q, want sk-custom", rc.APIKey)
		}
	})

	t.Run("missing base URL", func(t *testing.T) {
		_, err := ResolveConfig(GPT, ModeCustom, env, "", "sk-custom")
		assertConfigError(t, err, "base_url")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := ResolveConfig(GPT, ModeCustom, env, "https://proxy.example.com", "")
		assertConfigError(t, err, "api_key")
	})
}

func TestResolveConfigInternalMode(t *testing.T) {
	t.Run("relay route when relay configured", func(t *testing.T) {
		env := Env{
			RelayBaseURL: "https://relay.example.com/",
			SessionToken: "tok-abc",
			Getenv:       func(string) string { return "" },
		}
		rc, err := ResolveConfig(Gemini, ModeInternal, env, "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rc.Route != RouteRelay {
			t.Errorf("route = %q, want %q", rc.Route, RouteRelay)
		}
		if rc.BaseURL != "https://relay.example.com" {
			t.Errorf("baseURL = %q, want relay base without trailing slash", rc.BaseURL)
		}
		if rc.APIKey != "tok-abc" {
			t.Errorf("apiKey = %q, want session token", rc.APIKey)
		}
	})

	t.Run("relay without session token fails closed", func(t *testing.T) {
		env := Env{RelayBaseURL: "https://relay.example.com"}
		_, err := ResolveConfig(Gemini, ModeInternal, env, "", "")
		assertConfigError(t, err, "session_token")
	})

	t.Run("direct route with ops key", func(t *testing.T) {
		env := Env{Getenv: func(name string) string {
			if name == "GROK_API_KEY" {
				return "xai-secret"
			}
			return ""
		}}
		rc, err := ResolveConfig(Grok, ModeInternal, env, "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rc.Route != RouteDirect {
			t.Errorf("route = %q, want %q", rc.Route, RouteDirect)
		}
		if rc.BaseURL != "https://api.x.ai/v1" {
			t.Errorf("baseURL = %q, want provider endpoint", rc.BaseURL)
		}
		if rc.APIKey != "xai-secret" {
			t.Errorf("apiKey = %q, want env key", rc.APIKey)
		}
	})

	t.Run("no relay and no key", func(t *testing.T) {
		env := Env{Getenv: func(string) string { return "" }}
		_, err := ResolveConfig(Qwen, ModeInternal, env, "", "")
		assertConfigError(t, err, "api_key")
	})

	t.Run("custom fields ignored in internal mode", func(t *testing.T) {
		env := Env{
			RelayBaseURL: "https://relay.example.com",
			SessionToken: "tok-abc",
		}
		rc, err := ResolveConfig(GPT, ModeInternal, env, "https://ignored.example.com", "sk-ignored")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rc.BaseURL != "https://relay.example.com" || rc.APIKey != "tok-abc" {
			t.Errorf("internal mode must not use custom overrides, got %q / %q", rc.BaseURL, rc.APIKey)
		}
	})
}

func TestResolveConfigRejectsUnknown(t *testing.T) {
	env := Env{Getenv: func(string) string { return "" }}

	_, err := ResolveConfig(ID("mystery"), ModeInternal, env, "", "")
	assertConfigError(t, err, "provider")

	_, err = ResolveConfig(GPT, Mode("hybrid"), env, "", "")
	assertConfigError(t, err, "api_mode")
}

func assertConfigError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a configuration error, got nil")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if ce.Field != field {
		t.Errorf("error field = %q, want %q", ce.Field, field)
	}
	if !IsConfigError(err) {
		t.Error("IsConfigError should report true")
	}
}
