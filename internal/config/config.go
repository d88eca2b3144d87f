// Package config loads client configuration from ~/.pursuit/config.yaml
// with PURSUIT_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds everything the client needs to talk to the API and render
// workload warnings.
type Config struct {
	APIBaseURL string `mapstructure:"api_base_url"`
	APIToken   string `mapstructure:"api_token"`

	// Workload-pressure boundaries for the deadline radar. Display
	// thresholds, not business rules.
	HeavyLoad    int `mapstructure:"heavy_load"`
	CriticalLoad int `mapstructure:"critical_load"`
}

// Dir returns the pursuit config directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".pursuit"), nil
}

// Load reads configuration. A missing config file is fine; defaults and
// environment variables still apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("PURSUIT")
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "https://api.pursuit.app")
	v.SetDefault("api_token", "")
	v.SetDefault("heavy_load", 4)
	v.SetDefault("critical_load", 6)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	if c.HeavyLoad < 1 || c.CriticalLoad < c.HeavyLoad {
		return fmt.Errorf("workload thresholds must satisfy 1 <= heavy_load <= critical_load")
	}
	return nil
}
