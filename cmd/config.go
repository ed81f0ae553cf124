package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/etnz/fiadvisor/agent"
	"github.com/etnz/fiadvisor/fimcp"
	"github.com/joho/godotenv"
)

// Environment variables.
const (
	envFiURL        = "FI_MCP_URL"
	envAPIKey       = "GEMINI_API_KEY"
	envGoogleAPIKey = "GOOGLE_API_KEY"
	envModel        = "FIA_MODEL"
	envTimeout      = "FIA_TIMEOUT"
	envCacheTTL     = "FIA_CACHE_TTL"
	envAddr         = "FIA_ADDR"
)

// Config holds the application configuration.
type Config struct {
	FiURL    string
	APIKey   string
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
	Addr     string
}

// LoadConfig reads the .env file, when there is one, then the environment.
// Variables already set in the environment take precedence over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("cannot load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	timeout, err := time.ParseDuration(get(envTimeout, fimcp.DefaultTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envTimeout, err)
	}
	ttl, err := time.ParseDuration(get(envCacheTTL, fimcp.DefaultCacheTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envCacheTTL, err)
	}

	cfg := &Config{
		FiURL:    get(envFiURL, fimcp.DefaultBaseURL),
		APIKey:   get(envAPIKey, get(envGoogleAPIKey, "")),
		Model:    get(envModel, agent.DefaultModel),
		Timeout:  timeout,
		CacheTTL: ttl,
		Addr:     get(envAddr, "localhost:8501"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration. The api key is only checked by the commands that need it.
func (c *Config) Validate() error {
	u, err := url.Parse(c.FiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http url, got %q", envFiURL, c.FiURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", envTimeout)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%s must be positive", envCacheTTL)
	}
	if c.Addr == "" {
		return fmt.Errorf("%s cannot be empty", envAddr)
	}
	return nil
}
