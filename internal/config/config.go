package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Backend struct {
		// BaseURL is the origin of the UR Smart REST backend.
		BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL"`
		// BypassHeaderValue is sent on every request as the
		// ngrok-skip-browser-warning header so the tunnel in front of
		// the backend returns JSON instead of its interstitial page.
		BypassHeaderValue string `yaml:"bypass_header_value" env:"BACKEND_BYPASS_HEADER_VALUE"`
		RequestTimeout    string `yaml:"request_timeout" env:"BACKEND_REQUEST_TIMEOUT"`
	} `yaml:"backend"`

	Session struct {
		// TokenPath is the file the bearer token is persisted to.
		TokenPath string `yaml:"token_path" env:"SESSION_TOKEN_PATH"`
	} `yaml:"session"`

	UI struct {
		// KarmaRefreshDelay is how long to wait after a contribution
		// before re-fetching the profile for the karma toast.
		KarmaRefreshDelay string `yaml:"karma_refresh_delay" env:"UI_KARMA_REFRESH_DELAY"`
		// ContributionKarma is the fixed amount shown in the toast.
		ContributionKarma int `yaml:"contribution_karma" env:"UI_CONTRIBUTION_KARMA"`
	} `yaml:"ui"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A .env file next to the binary overrides nothing, it only seeds
	// the environment for the env-tag pass below.
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "3000"
	config.Server.Mode = "development"

	config.Backend.BaseURL = "https://unresponding-nettie-nonadaptive.ngrok-free.dev"
	config.Backend.BypassHeaderValue = "true"
	config.Backend.RequestTimeout = "30s"

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	config.Session.TokenPath = filepath.Join(home, ".ursmart", "token")

	config.UI.KarmaRefreshDelay = "500ms"
	config.UI.ContributionKarma = 10

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}

	parsed, err := url.Parse(config.Backend.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("backend base_url %q is not a valid origin", config.Backend.BaseURL)
	}

	if config.Session.TokenPath == "" {
		return fmt.Errorf("session token_path must not be empty")
	}

	return nil
}
