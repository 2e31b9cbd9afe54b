package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Credential backends selectable with CREDENTIAL_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	// API client
	APIBaseURL string
	APITimeout time.Duration

	// Credential store
	CredentialBackend string
	CredentialFile    string
	RedisURL          string
	DatabaseURL       string

	// Dev proxy
	ProxyPort   string
	ProxyTarget string
	ProxyPrefix string
	ProxyConfig    string
	ProxyRateLimit int
	StaticDir      string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		APIBaseURL:        getEnvOrDefault("API_BASE_URL", "http://localhost:5173/api"),
		APITimeout:        time.Duration(getEnvAsIntOrDefault("API_TIMEOUT_MS", 30000)) * time.Millisecond,
		CredentialBackend: getEnvOrDefault("CREDENTIAL_BACKEND", BackendFile),
		CredentialFile:    getEnvOrDefault("CREDENTIAL_FILE", defaultCredentialFile()),
		ProxyPort:         getEnvOrDefault("PROXY_PORT", "5173"),
		ProxyTarget:       getEnvOrDefault("PROXY_TARGET", "http://192.168.0.101:8000"),
		ProxyPrefix:       getEnvOrDefault("PROXY_PREFIX", "/api"),
		ProxyConfig:       getEnvOrDefault("PROXY_CONFIG", ""),
		ProxyRateLimit:    getEnvAsIntOrDefault("PROXY_RATE_LIMIT", 0),
		StaticDir:         getEnvOrDefault("STATIC_DIR", ""),
	}

	switch cfg.CredentialBackend {
	case BackendRedis:
		cfg.RedisURL = mustGetEnv("REDIS_URL")
	case BackendPostgres:
		cfg.DatabaseURL = mustGetEnv("DATABASE_URL")
	}

	return cfg
}

func defaultCredentialFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kbchat", "storage.json")
	}
	return filepath.Join(home, ".kbchat", "storage.json")
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
