package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Recipe struct {
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"recipe"`
	LogLevel string `yaml:"log_level"`
}

// Load reads the configuration file, applies environment overrides for
// secrets, and fills in defaults for anything left unset.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Secrets come from the environment when present so they never have to
	// live in the checked-in config file.
	if secret := os.Getenv("PANTRY_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if key := os.Getenv("PANTRY_RECIPE_API_KEY"); key != "" {
		cfg.Recipe.APIKey = key
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MetricsPort == 0 {
		c.Server.MetricsPort = 9090
	}
	if c.Database.Path == "" {
		c.Database.Path = "pantry.db"
	}
	if c.Recipe.BaseURL == "" {
		c.Recipe.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Recipe.Model == "" {
		c.Recipe.Model = "meta-llama/llama-3.1-8b-instruct:free"
	}
	if c.Recipe.TimeoutSeconds == 0 {
		c.Recipe.TimeoutSeconds = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (or set PANTRY_JWT_SECRET)")
	}
	if c.Recipe.APIKey == "" {
		return fmt.Errorf("recipe.api_key is required (or set PANTRY_RECIPE_API_KEY)")
	}
	return nil
}
