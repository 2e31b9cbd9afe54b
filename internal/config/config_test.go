package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_TIMEOUT_MS", "CREDENTIAL_BACKEND", "PROXY_PORT", "PROXY_TARGET", "PROXY_PREFIX", "PROXY_CONFIG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.APIBaseURL != "http://localhost:5173/api" {
		t.Errorf("Expected default API base URL, got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.APITimeout)
	}
	if cfg.CredentialBackend != BackendFile {
		t.Errorf("Expected file backend, got %q", cfg.CredentialBackend)
	}
	if filepath.Base(cfg.CredentialFile) != "storage.json" {
		t.Errorf("Unexpected credential file %q", cfg.CredentialFile)
	}
	if cfg.ProxyPort != "5173" || cfg.ProxyTarget != "http://192.168.0.101:8000" || cfg.ProxyPrefix != "/api" {
		t.Errorf("Unexpected proxy defaults: %+v", cfg)
	}
}

func TestLoad_TimeoutFromEnv(t *testing.T) {
	t.Setenv("API_TIMEOUT_MS", "1500")

	cfg := Load()
	if cfg.APITimeout != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s timeout, got %s", cfg.APITimeout)
	}
}

func TestLoad_RedisBackendRequiresURL(t *testing.T) {
	t.Setenv("CREDENTIAL_BACKEND", BackendRedis)
	t.Setenv("REDIS_URL", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when REDIS_URL is missing")
		}
	}()
	Load()
}

func TestLoad_PostgresBackend(t *testing.T) {
	t.Setenv("CREDENTIAL_BACKEND", BackendPostgres)
	t.Setenv("DATABASE_URL", "postgres://kb:kb@localhost:5432/kb")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://kb:kb@localhost:5432/kb" {
		t.Errorf("Expected DATABASE_URL to be loaded, got %q", cfg.DatabaseURL)
	}
}
